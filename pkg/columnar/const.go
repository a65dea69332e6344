package columnar

import (
	"github.com/ajitpratap0/colcodec/pkg/errors"
)

// ConstColumn represents a single value repeated for a number of rows
type ConstColumn struct {
	data Column
	rows int
}

// NewConstColumn wraps a one-row column as a constant of rows rows
func NewConstColumn(data Column, rows int) (*ConstColumn, error) {
	if data == nil || data.Len() != 1 {
		n := 0
		if data != nil {
			n = data.Len()
		}
		return nil, errors.Newf(errors.ErrorTypeIllegalColumn,
			"constant column must wrap exactly one row, got %d", n)
	}
	if rows < 0 {
		return nil, errors.Newf(errors.ErrorTypeIllegalColumn, "negative row count %d", rows)
	}
	return &ConstColumn{data: data, rows: rows}, nil
}

func (c *ConstColumn) Type() ColumnType   { return c.data.Type() }
func (c *ConstColumn) Len() int           { return c.rows }
func (c *ConstColumn) Name() string       { return "Const(" + c.data.Name() + ")" }
func (c *ConstColumn) MemoryUsage() int64 { return c.data.MemoryUsage() }

// Data returns the wrapped one-row column
func (c *ConstColumn) Data() Column { return c.data }

// Materialize expands a constant string column into a full block
func (c *ConstColumn) Materialize() (*StringBlock, error) {
	sb, ok := c.data.(*StringBlock)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeIllegalColumn,
			"cannot materialize %s as String", c.Name())
	}
	row := sb.Row(0)
	b := NewStringBlockBuilder(c.rows, (len(row)+1)*c.rows)
	for i := 0; i < c.rows; i++ {
		b.Append(row)
	}
	return b.Finish(), nil
}

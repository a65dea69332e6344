package columnar

import (
	"fmt"
)

// ColumnType represents the logical data type of a column
type ColumnType int

const (
	ColumnTypeString ColumnType = iota
	ColumnTypeInt
	ColumnTypeFloat
	ColumnTypeBool
	ColumnTypeTimestamp
	ColumnTypeFixedString
)

// String returns the type name used in error messages
func (t ColumnType) String() string {
	switch t {
	case ColumnTypeString:
		return "String"
	case ColumnTypeInt:
		return "Int64"
	case ColumnTypeFloat:
		return "Float64"
	case ColumnTypeBool:
		return "Bool"
	case ColumnTypeTimestamp:
		return "DateTime"
	case ColumnTypeFixedString:
		return "FixedString"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// IsString reports whether t is the variable-length String type
func (t ColumnType) IsString() bool { return t == ColumnTypeString }

// Column is the base interface for all column representations
type Column interface {
	// Type returns the logical type of the values
	Type() ColumnType
	// Len returns the number of rows
	Len() int
	// Name returns the representation name, e.g. "String" or "Const(String)"
	Name() string
	// MemoryUsage returns the approximate number of bytes held
	MemoryUsage() int64
}

// IntColumn stores integer values
type IntColumn struct {
	values []int64
}

// NewIntColumn creates an integer column over values
func NewIntColumn(values ...int64) *IntColumn {
	return &IntColumn{values: values}
}

func (c *IntColumn) Type() ColumnType { return ColumnTypeInt }
func (c *IntColumn) Len() int         { return len(c.values) }
func (c *IntColumn) Name() string     { return "Int64" }

// Get returns the value at row i
func (c *IntColumn) Get(i int) int64 { return c.values[i] }

func (c *IntColumn) MemoryUsage() int64 {
	return int64(len(c.values) * 8) // 8 bytes per int64
}

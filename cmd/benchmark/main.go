// Command benchmark measures block transform throughput for every codec
// backend and mode
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ajitpratap0/colcodec/pkg/codec"
	"github.com/ajitpratap0/colcodec/pkg/codec/backend"
	"github.com/ajitpratap0/colcodec/pkg/columnar"
)

var (
	rows       = flag.Int("rows", 65536, "Rows per block")
	rowSize    = flag.Int("row-size", 64, "Average raw row length in bytes")
	iterations = flag.Int("count", 20, "Blocks transformed per measurement")
	backends   = flag.String("backends", strings.Join(backend.Names(), ","), "Comma-separated backends to measure")
	invalidPct = flag.Int("invalid", 0, "Percentage of rows corrupted before try-decode")
	cpuFile    = flag.String("cpuprofile", "", "Write CPU profile to file")
	memFile    = flag.String("memprofile", "", "Write memory profile to file")
	seed       = flag.Int64("seed", 1, "Random seed for generated rows")
)

type result struct {
	backend  string
	mode     codec.Mode
	rows     int
	inBytes  int
	elapsed  time.Duration
	invalid  int
	reserved int
	written  int
}

func main() {
	flag.Parse()

	if *cpuFile != "" {
		f, err := os.Create(*cpuFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	raw := generate(*rows, *rowSize, *seed)
	fmt.Printf("=== colcodec block benchmark ===\n")
	fmt.Printf("Rows per block: %d, raw bytes: %d, blocks per run: %d\n", raw.Len(), raw.TotalLogicalLen(), *iterations)
	fmt.Printf("Go %s %s/%s, auto backend: %s\n\n", runtime.Version(), runtime.GOOS, runtime.GOARCH, backend.Detect())

	var results []result
	for _, name := range strings.Split(*backends, ",") {
		be, err := backend.Lookup(strings.TrimSpace(name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping backend %s: %v\n", name, err)
			continue
		}
		rs, err := measure(be, raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Backend %s failed: %v\n", be.Name(), err)
			os.Exit(1)
		}
		results = append(results, rs...)
	}

	report(results)

	if *memFile != "" {
		f, err := os.Create(*memFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create memory profile: %v\n", err)
			return
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write memory profile: %v\n", err)
		}
	}
}

// measure runs encode, decode and try-decode on be
func measure(be backend.Backend, raw *columnar.StringBlock) ([]result, error) {
	encoded, err := codec.Transform(raw, codec.Encode, be)
	if err != nil {
		return nil, err
	}
	corrupted := corrupt(encoded, *invalidPct, *seed)

	inputs := map[codec.Mode]*columnar.StringBlock{
		codec.Encode:    raw,
		codec.Decode:    encoded,
		codec.TryDecode: corrupted,
	}

	var results []result
	for _, mode := range codec.Modes {
		in := inputs[mode]
		r := result{backend: be.Name(), mode: mode}
		start := time.Now()
		for i := 0; i < *iterations; i++ {
			_, stats, err := codec.TransformWithStats(in, mode, be)
			if err != nil {
				return nil, err
			}
			r.rows += stats.Rows
			r.inBytes += stats.InputBytes
			r.invalid += stats.InvalidRows
			r.reserved += stats.ReservedBytes
			r.written += stats.OutputBytes
		}
		r.elapsed = time.Since(start)
		results = append(results, r)
	}
	return results, nil
}

func report(results []result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "backend\tmode\trows/s\tMB/s\tinvalid\treserve used\t")
	for _, r := range results {
		secs := r.elapsed.Seconds()
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%.1f\t%d\t%.1f%%\t\n",
			r.backend, r.mode,
			float64(r.rows)/secs,
			float64(r.inBytes)/secs/(1<<20),
			r.invalid,
			100*float64(r.written)/float64(r.reserved))
	}
	w.Flush()
}

// generate builds a block of random rows with lengths spread around size
func generate(n, size int, seed int64) *columnar.StringBlock {
	rng := rand.New(rand.NewSource(seed))
	b := columnar.NewStringBlockBuilder(n, n*(size+1))
	row := make([]byte, 2*size+1)
	for i := 0; i < n; i++ {
		l := rng.Intn(2*size + 1)
		rng.Read(row[:l])
		b.Append(row[:l])
	}
	return b.Finish()
}

// corrupt replaces pct percent of rows with text that is not base64
func corrupt(block *columnar.StringBlock, pct int, seed int64) *columnar.StringBlock {
	if pct <= 0 {
		return block
	}
	rng := rand.New(rand.NewSource(seed))
	b := columnar.NewStringBlockBuilder(block.Len(), block.DataLen())
	for i := 0; i < block.Len(); i++ {
		if rng.Intn(100) < pct {
			b.AppendString("not-valid-base64")
			continue
		}
		b.Append(block.Row(i))
	}
	return b.Finish()
}

package backend

import (
	"sort"
	"sync"

	"golang.org/x/sys/cpu"

	"github.com/ajitpratap0/colcodec/pkg/errors"
)

// AutoName selects a backend from CPU capabilities
const AutoName = "auto"

// Factory creates a backend instance
type Factory func() Backend

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		StdName:  NewStd,
		WideName: NewWide,
	}

	autoOnce   sync.Once
	autoChoice string
)

// Register adds a named backend factory
func Register(name string, factory Factory) error {
	mu.Lock()
	defer mu.Unlock()

	if name == AutoName {
		return errors.New(errors.ErrorTypeConfig, "backend name auto is reserved")
	}
	if _, exists := factories[name]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "backend %s already registered", name)
	}
	factories[name] = factory
	return nil
}

// Lookup creates the backend registered under name. "auto" resolves to the
// backend chosen by capability detection.
func Lookup(name string) (Backend, error) {
	if name == AutoName || name == "" {
		name = Detect()
	}

	mu.RLock()
	factory, exists := factories[name]
	mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeConfig, "backend %s not found", name).
			WithDetail("available", Names())
	}
	return factory(), nil
}

// Names lists registered backend names in sorted order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect returns the backend name auto resolves to on this machine. The
// probe runs once per process.
func Detect() string {
	autoOnce.Do(func() {
		autoChoice = detect(Capabilities())
	})
	return autoChoice
}

// CPUFeatures is the subset of CPU capabilities backend selection looks at
type CPUFeatures struct {
	AVX2  bool
	ASIMD bool
}

// Capabilities reports the features of the running CPU
func Capabilities() CPUFeatures {
	return CPUFeatures{
		AVX2:  cpu.X86.HasAVX2,
		ASIMD: cpu.ARM64.HasASIMD,
	}
}

func detect(f CPUFeatures) string {
	// The word-store loop only pays off on cores with fast unaligned
	// stores, which these feature levels imply.
	if f.AVX2 || f.ASIMD {
		return WideName
	}
	return StdName
}

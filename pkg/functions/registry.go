package functions

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/colcodec/pkg/codec"
	"github.com/ajitpratap0/colcodec/pkg/codec/backend"
	"github.com/ajitpratap0/colcodec/pkg/columnar"
	"github.com/ajitpratap0/colcodec/pkg/errors"
	"github.com/ajitpratap0/colcodec/pkg/logger"
)

// Registry maps function names to functions
type Registry struct {
	functions map[string]Function
	mu        sync.RWMutex
	logger    *zap.Logger
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		functions: make(map[string]Function),
		logger:    logger.Get().With(zap.String("component", "function_registry")),
	}
}

// NewBase64Registry creates a registry holding the three base64 functions
// bound to be
func NewBase64Registry(be backend.Backend) (*Registry, error) {
	r := NewRegistry()
	for _, mode := range codec.Modes {
		if err := r.Register(NewBase64Function(mode, be)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Default returns the process-wide registry, bound to the auto-selected
// backend on first use
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		var be backend.Backend
		be, defaultErr = backend.Lookup(backend.AutoName)
		if defaultErr != nil {
			return
		}
		defaultRegistry, defaultErr = NewBase64Registry(be)
	})
	return defaultRegistry, defaultErr
}

// Register adds fn under its name
func (r *Registry) Register(fn Function) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := fn.Name()
	if _, exists := r.functions[name]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "function %s already registered", name)
	}
	r.functions[name] = fn
	r.logger.Debug("function registered", zap.String("name", name))
	return nil
}

// Get returns the function registered under name. Names are case-sensitive.
func (r *Registry) Get(name string) (Function, error) {
	r.mu.RLock()
	fn, exists := r.functions[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeBadArguments, "unknown function %s", name)
	}
	return fn, nil
}

// Has reports whether name is registered
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.functions[name]
	return exists
}

// List returns the registered names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute looks up name and executes it
func (r *Registry) Execute(ctx context.Context, name string, args []columnar.Column, rows int) (columnar.Column, error) {
	fn, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return fn.Execute(ctx, args, rows)
}

package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/OldStager01/sales-forecaster/internal/events"
	"github.com/OldStager01/sales-forecaster/internal/logger"
)

var (
	ErrEmptySequence    = errors.New("module sequence is empty")
	ErrSequenceConsumed = errors.New("module sequence already run")
	ErrLoadFailed       = errors.New("module failed to load")
)

// Module is a self-contained unit of page behavior. Load must not return
// until the module has finished its top-level initialization.
type Module interface {
	Name() string
	Load(ctx context.Context, registry *Registry) error
}

// LoadError identifies the module that broke the sequence.
type LoadError struct {
	Index  int
	Module string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("error loading module %s (#%d): %v", e.Module, e.Index, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrLoadFailed, e.Err}
}

type Config struct {
	Modules   []Module
	Registry  *Registry
	Publisher *events.Publisher
	// OnReady runs once, after the last module has loaded.
	OnReady func(ctx context.Context) error
}

type Loader struct {
	modules   []Module
	registry  *Registry
	publisher *events.Publisher
	onReady   func(ctx context.Context) error

	mu   sync.Mutex
	used bool
}

func New(cfg Config) (*Loader, error) {
	if len(cfg.Modules) == 0 {
		return nil, ErrEmptySequence
	}

	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}

	return &Loader{
		modules:   append([]Module(nil), cfg.Modules...),
		registry:  registry,
		publisher: cfg.Publisher,
		onReady:   cfg.OnReady,
	}, nil
}

func (l *Loader) Registry() *Registry {
	return l.registry
}

// Run loads every module in order. The first failure stops the sequence; the
// modules after it are never attempted and OnReady is not called.
func (l *Loader) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.used {
		l.mu.Unlock()
		return ErrSequenceConsumed
	}
	l.used = true
	l.mu.Unlock()

	for i, m := range l.modules {
		if err := ctx.Err(); err != nil {
			return l.fail(i, m, err)
		}
		if err := m.Load(ctx, l.registry); err != nil {
			return l.fail(i, m, err)
		}

		logger.WithModule(m.Name()).Infof("Module loaded: %s", m.Name())
		l.publisher.ModuleLoaded(m.Name(), i)
	}

	logger.Infof("All %d modules loaded", len(l.modules))
	l.publisher.ModulesReady(len(l.modules))

	if l.onReady != nil {
		if err := l.onReady(ctx); err != nil {
			return fmt.Errorf("ready hook failed: %w", err)
		}
	}
	return nil
}

func (l *Loader) fail(index int, m Module, err error) error {
	loadErr := &LoadError{Index: index, Module: m.Name(), Err: err}
	logger.WithModule(m.Name()).Errorf("Error loading frontend modules: %v", loadErr)
	l.publisher.LoadFailed(m.Name(), err)
	return loadErr
}

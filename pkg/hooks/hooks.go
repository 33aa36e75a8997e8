// Package hooks provides the extension bracket points the lifecycle
// controller fires around datastream operations. External observers register
// pre/post functions here; the core never depends on the observers
// themselves.
package hooks

import (
	"context"
	"sync"
)

// Phase identifies one of the sanctioned bracket points.
type Phase string

// Sanctioned phases. Initialize fires exactly once after construction,
// before the instance is usable; the remaining phases bracket each lifecycle
// operation.
const (
	PhaseInitialize Phase = "initialize"
	PhaseCreate     Phase = "create"
	PhaseSave       Phase = "save"
	PhaseDestroy    Phase = "destroy"
)

// BeforeFunc runs ahead of the bracketed operation. A non-nil error aborts
// the operation before any remote call is issued.
type BeforeFunc[T any] func(ctx context.Context, subject T) error

// AfterFunc runs once the bracketed operation has finished and receives its
// outcome. After funcs run even when the operation failed.
type AfterFunc[T any] func(ctx context.Context, subject T, err error)

// Registry holds registered observers keyed by phase. The zero value is
// ready to use and runs no observers.
type Registry[T any] struct {
	mu     sync.RWMutex
	before map[Phase][]BeforeFunc[T]
	after  map[Phase][]AfterFunc[T]
}

// NewRegistry returns an empty observer registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{}
}

// OnBefore registers fn to run before operations in the given phase.
// Registration order is execution order.
func (r *Registry[T]) OnBefore(phase Phase, fn BeforeFunc[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.before == nil {
		r.before = make(map[Phase][]BeforeFunc[T])
	}
	r.before[phase] = append(r.before[phase], fn)
}

// OnAfter registers fn to run after operations in the given phase.
func (r *Registry[T]) OnAfter(phase Phase, fn AfterFunc[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.after == nil {
		r.after = make(map[Phase][]AfterFunc[T])
	}
	r.after[phase] = append(r.after[phase], fn)
}

// Run brackets op with the observers registered for phase. Before funcs run
// first and may abort; after funcs always observe the final outcome. A nil
// registry runs op directly.
func (r *Registry[T]) Run(ctx context.Context, phase Phase, subject T, op func(ctx context.Context) error) error {
	if r == nil {
		return op(ctx)
	}
	r.mu.RLock()
	before := r.before[phase]
	after := r.after[phase]
	r.mu.RUnlock()

	var err error
	defer func() {
		for _, fn := range after {
			fn(ctx, subject, err)
		}
	}()
	for _, fn := range before {
		if err = fn(ctx, subject); err != nil {
			return err
		}
	}
	err = op(ctx)
	return err
}

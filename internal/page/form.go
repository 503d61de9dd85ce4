package page

import (
	"context"
	"sync"
)

// SubmitEvent is handed to every submit handler of a form.
type SubmitEvent struct {
	Form             *Form
	defaultPrevented bool
}

// PreventDefault suppresses the default navigation of the submission.
func (e *SubmitEvent) PreventDefault() {
	e.defaultPrevented = true
}

func (e *SubmitEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

type SubmitHandler func(ctx context.Context, ev *SubmitEvent)

// BindOption tunes how a handler is attached.
type BindOption int

const (
	// Once removes the handler before its first invocation.
	Once BindOption = iota + 1
)

type binding struct {
	id      uint64
	handler SubmitHandler
	once    bool
}

type Form struct {
	id       string
	mu       sync.Mutex
	bindings []binding
	nextID   uint64
}

func (f *Form) ID() string { return f.id }

// OnSubmit attaches a handler and returns a function that detaches it.
func (f *Form) OnSubmit(handler SubmitHandler, opts ...BindOption) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	b := binding{id: f.nextID, handler: handler}
	for _, opt := range opts {
		if opt == Once {
			b.once = true
		}
	}
	f.bindings = append(f.bindings, b)

	id := b.id
	return func() { f.remove(id) }
}

// Handlers reports how many handlers are currently attached.
func (f *Form) Handlers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bindings)
}

// Submit dispatches a submission to the attached handlers in binding order,
// on the caller's goroutine. Single-use handlers are detached before they
// run, so a concurrent Submit cannot reach them twice.
func (f *Form) Submit(ctx context.Context) *SubmitEvent {
	f.mu.Lock()
	handlers := make([]SubmitHandler, 0, len(f.bindings))
	kept := f.bindings[:0]
	for _, b := range f.bindings {
		handlers = append(handlers, b.handler)
		if !b.once {
			kept = append(kept, b)
		}
	}
	f.bindings = kept
	f.mu.Unlock()

	ev := &SubmitEvent{Form: f}
	for _, h := range handlers {
		h(ctx, ev)
	}
	return ev
}

func (f *Form) remove(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, b := range f.bindings {
		if b.id == id {
			f.bindings = append(f.bindings[:i], f.bindings[i+1:]...)
			return
		}
	}
}

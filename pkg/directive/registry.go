package directive

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/mddirective/pkg/syntax"
)

// Wildcard is the handler name consulted when no exact handler exists or
// the exact one declined.
const Wildcard = "*"

var (
	// ErrInvalidHandlerName is returned when registering under a name no
	// directive can have.
	ErrInvalidHandlerName = errors.New("invalid handler name")

	// ErrDuplicateHandler is returned when a name is registered twice.
	ErrDuplicateHandler = errors.New("handler already registered")

	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("nil handler")
)

// Handlers maps directive names to handlers. It is safe for concurrent use.
type Handlers struct {
	mu     sync.RWMutex
	byName map[string]Handler
}

// NewHandlers creates an empty registry.
func NewHandlers() *Handlers {
	return &Handlers{byName: make(map[string]Handler)}
}

// Register adds a handler for name, which is a directive name or Wildcard.
func (h *Handlers) Register(name string, fn Handler) error {
	if name != Wildcard && !syntax.IsName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidHandlerName, name)
	}
	if fn == nil {
		return fmt.Errorf("%w: %q", ErrNilHandler, name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateHandler, name)
	}
	h.byName[name] = fn
	return nil
}

// MustRegister is Register for static setup; it panics on error.
func (h *Handlers) MustRegister(name string, fn Handler) {
	if err := h.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the handler registered under name.
func (h *Handlers) Lookup(name string) (Handler, bool) {
	if h == nil {
		return nil, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn, ok := h.byName[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (h *Handlers) Names() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.byName))
	for name := range h.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered handlers.
func (h *Handlers) Len() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byName)
}

// Dispatch runs the handler for d.Name, then the wildcard if that one is
// missing or declined. It returns the outcome and the name of the handler
// that handled d, or "" when none did.
func (h *Handlers) Dispatch(d *Directive, s Sink) (Outcome, string) {
	if fn, ok := h.Lookup(d.Name); ok && fn(d, s) == Handled {
		return Handled, d.Name
	}
	if fn, ok := h.Lookup(Wildcard); ok && fn(d, s) == Handled {
		return Handled, Wildcard
	}
	return Declined, ""
}

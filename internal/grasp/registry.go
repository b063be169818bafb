// Package grasp keeps the candidate grasps offered to the operator.
//
// A [Registry] maps grasp names to [Entry] values and remembers insertion
// order for display. Adding an existing name updates its reachability in
// place. Preview and choose requests are forwarded to listeners; choosing is
// refused for candidates that are not reachable.
package grasp

import (
	"errors"
	"fmt"

	"graspctl/internal/event"
	"graspctl/internal/suggest"
)

// Sentinel errors for grasp selection.
var (
	// ErrUnknownGrasp indicates the named grasp is not in the registry.
	ErrUnknownGrasp = errors.New("unknown grasp")

	// ErrNotReachable indicates a choose request for an unreachable grasp.
	ErrNotReachable = errors.New("grasp not reachable")

	// ErrInvalidArgument indicates an empty grasp name.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Entry is a snapshot of one candidate grasp.
type Entry struct {
	Name      string
	Reachable bool
}

// Updated is emitted after AddOrUpdate. Added is true when the name was new.
type Updated struct {
	Name      string
	Reachable bool
	Added     bool
}

// Cleared is emitted when a non-empty registry is emptied.
type Cleared struct {
	Removed int
}

// PreviewRequested is emitted when the operator asks to preview a grasp.
type PreviewRequested struct {
	Name string
}

// Chosen is emitted when the operator chooses a reachable grasp.
type Chosen struct {
	Name string
}

// Registry is the name-keyed, insertion-ordered set of candidate grasps.
//
// The zero value is not usable; create with [NewRegistry].
type Registry struct {
	entries map[string]*Entry
	order   []string

	updated          event.Listeners[Updated]
	cleared          event.Listeners[Cleared]
	previewRequested event.Listeners[PreviewRequested]
	chosen           event.Listeners[Chosen]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// AddOrUpdate inserts a new grasp at the end, or updates the reachability of
// an existing one without changing its position.
//
// Returns [ErrInvalidArgument] for an empty name.
func (r *Registry) AddOrUpdate(name string, reachable bool) error {
	if name == "" {
		return fmt.Errorf("%w: grasp name must not be empty", ErrInvalidArgument)
	}

	if e, ok := r.entries[name]; ok {
		e.Reachable = reachable
		r.updated.Emit(Updated{Name: name, Reachable: reachable})
		return nil
	}

	r.entries[name] = &Entry{Name: name, Reachable: reachable}
	r.order = append(r.order, name)
	r.updated.Emit(Updated{Name: name, Reachable: reachable, Added: true})
	return nil
}

// Clear removes every grasp. Calling Clear on an empty registry is a no-op.
func (r *Registry) Clear() {
	n := len(r.order)
	if n == 0 {
		return
	}
	r.entries = make(map[string]*Entry)
	r.order = nil
	r.cleared.Emit(Cleared{Removed: n})
}

// RequestPreview forwards a preview request for the named grasp, reachable
// or not. Returns [ErrUnknownGrasp] if the name is absent.
func (r *Registry) RequestPreview(name string) error {
	if _, err := r.lookup(name); err != nil {
		return err
	}
	r.previewRequested.Emit(PreviewRequested{Name: name})
	return nil
}

// RequestChoice forwards a choose request for the named grasp.
//
// Returns [ErrUnknownGrasp] if the name is absent and [ErrNotReachable] if
// the grasp is currently not reachable; nothing is emitted in either case.
func (r *Registry) RequestChoice(name string) error {
	e, err := r.lookup(name)
	if err != nil {
		return err
	}
	if !e.Reachable {
		return fmt.Errorf("%w: %q", ErrNotReachable, name)
	}
	r.chosen.Emit(Chosen{Name: name})
	return nil
}

// Get returns a snapshot of the named grasp.
func (r *Registry) Get(name string) (Entry, bool) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Len returns the number of grasps.
func (r *Registry) Len() int {
	return len(r.order)
}

// Entries returns a snapshot of all grasps in insertion order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.order))
	for i, name := range r.order {
		out[i] = *r.entries[name]
	}
	return out
}

// OnUpdated registers a listener for additions and reachability updates.
func (r *Registry) OnUpdated(fn func(Updated)) event.ID {
	return r.updated.Subscribe(fn)
}

// OnCleared registers a listener for Clear.
func (r *Registry) OnCleared(fn func(Cleared)) event.ID {
	return r.cleared.Subscribe(fn)
}

// OnPreviewRequested registers a listener for preview requests.
func (r *Registry) OnPreviewRequested(fn func(PreviewRequested)) event.ID {
	return r.previewRequested.Subscribe(fn)
}

// OnChosen registers a listener for choose intents.
func (r *Registry) OnChosen(fn func(Chosen)) event.ID {
	return r.chosen.Subscribe(fn)
}

// Unsubscribe removes a listener registered with any On* method.
func (r *Registry) Unsubscribe(id event.ID) bool {
	return r.updated.Unsubscribe(id) ||
		r.cleared.Unsubscribe(id) ||
		r.previewRequested.Unsubscribe(id) ||
		r.chosen.Unsubscribe(id)
}

func (r *Registry) lookup(name string) (*Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q%s", ErrUnknownGrasp, name, suggest.Hint(name, r.order))
	}
	return e, nil
}

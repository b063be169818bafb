// Package phase coordinates an ordered sequence of named task phases.
//
// A [Coordinator] owns one [Entry] per phase, in declared order, each with a
// [Status]. It forwards execution requests to its listeners and applies the
// automatic sequencing policy when a phase completes. It never runs phases
// itself: the collaborator that does (see the execution package) reports
// progress back through [Coordinator.SetStatus].
//
// Key types:
//   - [Coordinator] - the per-session phase state machine
//   - [Entry] - snapshot of one phase's name and status
//   - [Status] - phase lifecycle status
//
// All operations are synchronous. Listeners run inside the call that raised
// the event, in registration order.
package phase

import (
	"errors"
	"fmt"

	"graspctl/internal/event"
	"graspctl/internal/suggest"
)

// Sentinel errors for phase coordination.
var (
	// ErrUnknownPhase indicates the named phase is not part of the sequence.
	ErrUnknownPhase = errors.New("unknown phase")

	// ErrInvalidArgument indicates an empty or duplicate phase name at construction.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidStatus indicates a status string that is not a known [Status].
	ErrInvalidStatus = errors.New("invalid phase status")
)

// Entry is a snapshot of one phase.
type Entry struct {
	Name   string
	Status Status
}

// ExecutionRequested is emitted when a phase's execute trigger is pressed.
type ExecutionRequested struct {
	Name string
}

// StatusChanged is emitted after a phase's status has been set.
type StatusChanged struct {
	Name   string
	Status Status
}

// Option customizes a [Coordinator] at construction.
type Option func(*Coordinator)

// WithAutomaticTransitions enables advancing the next phase to Ready when a
// phase completes.
func WithAutomaticTransitions(enabled bool) Option {
	return func(c *Coordinator) {
		c.automaticTransitions = enabled
	}
}

// WithFirstReady starts the first phase in Ready instead of NotReady.
func WithFirstReady(enabled bool) Option {
	return func(c *Coordinator) {
		c.firstReady = enabled
	}
}

// Coordinator holds the ordered phase entries of one workflow session.
//
// The set of phases is fixed at construction. Create with [NewCoordinator].
type Coordinator struct {
	entries []*entry
	index   map[string]int

	automaticTransitions bool
	firstReady           bool

	executionRequested event.Listeners[ExecutionRequested]
	statusChanged      event.Listeners[StatusChanged]
}

// entry is the mutable per-phase record. Each entry closes over its own
// immutable name.
type entry struct {
	name   string
	status Status
}

// NewCoordinator creates a coordinator with one NotReady entry per name, in
// the given order.
//
// Returns [ErrInvalidArgument] if a name is empty or repeated.
func NewCoordinator(names []string, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		entries: make([]*entry, 0, len(names)),
		index:   make(map[string]int, len(names)),
	}
	for _, opt := range opts {
		opt(c)
	}

	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: phase %d has an empty name", ErrInvalidArgument, i+1)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate phase name %q", ErrInvalidArgument, name)
		}
		c.index[name] = len(c.entries)
		c.entries = append(c.entries, &entry{name: name, status: StatusNotReady})
	}

	if c.firstReady && len(c.entries) > 0 {
		c.entries[0].status = StatusReady
	}

	return c, nil
}

// AutomaticTransitions reports whether the automatic sequencing policy is on.
func (c *Coordinator) AutomaticTransitions() bool {
	return c.automaticTransitions
}

// Len returns the number of phases.
func (c *Coordinator) Len() int {
	return len(c.entries)
}

// Names returns the phase names in declared order.
func (c *Coordinator) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

// Entries returns a snapshot of all phases in declared order.
func (c *Coordinator) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = Entry{Name: e.name, Status: e.status}
	}
	return out
}

// Status returns the current status of the named phase.
func (c *Coordinator) Status(name string) (Status, error) {
	e, err := c.lookup(name)
	if err != nil {
		return "", err
	}
	return e.status, nil
}

// Next returns the first phase currently in Ready status.
// The boolean is false when no phase is Ready.
func (c *Coordinator) Next() (Entry, bool) {
	for _, e := range c.entries {
		if e.status == StatusReady {
			return Entry{Name: e.name, Status: e.status}, true
		}
	}
	return Entry{}, false
}

// Done reports whether every phase has completed.
func (c *Coordinator) Done() bool {
	for _, e := range c.entries {
		if e.status != StatusCompleted {
			return false
		}
	}
	return len(c.entries) > 0
}

// RequestExecution forwards an execution request for the named phase.
//
// The request is emitted regardless of the phase's status and does not change
// any state. Returns [ErrUnknownPhase] without emitting if the name is absent.
func (c *Coordinator) RequestExecution(name string) error {
	if _, err := c.lookup(name); err != nil {
		return err
	}
	c.executionRequested.Emit(ExecutionRequested{Name: name})
	return nil
}

// SetStatus sets the named phase's status unconditionally.
//
// The transition graph in [CanTransition] is not enforced here. When
// automatic transitions are enabled and status is Completed, the following
// phase is advanced from NotReady to Ready as well. A StatusChanged event is
// emitted for every entry whose status was set.
//
// Returns [ErrUnknownPhase] if the name is absent.
func (c *Coordinator) SetStatus(name string, status Status) error {
	i, ok := c.index[name]
	if !ok {
		return c.unknown(name)
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	c.set(c.entries[i], status)

	if c.automaticTransitions && status == StatusCompleted && i+1 < len(c.entries) {
		if next := c.entries[i+1]; next.status == StatusNotReady {
			c.set(next, StatusReady)
		}
	}
	return nil
}

func (c *Coordinator) set(e *entry, status Status) {
	e.status = status
	c.statusChanged.Emit(StatusChanged{Name: e.name, Status: status})
}

// OnExecutionRequested registers a listener for execution requests.
func (c *Coordinator) OnExecutionRequested(fn func(ExecutionRequested)) event.ID {
	return c.executionRequested.Subscribe(fn)
}

// OnStatusChanged registers a listener for status changes.
func (c *Coordinator) OnStatusChanged(fn func(StatusChanged)) event.ID {
	return c.statusChanged.Subscribe(fn)
}

// Unsubscribe removes a listener registered with either On* method.
func (c *Coordinator) Unsubscribe(id event.ID) bool {
	return c.executionRequested.Unsubscribe(id) || c.statusChanged.Unsubscribe(id)
}

func (c *Coordinator) lookup(name string) (*entry, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, c.unknown(name)
	}
	return c.entries[i], nil
}

func (c *Coordinator) unknown(name string) error {
	return fmt.Errorf("%w: %q%s", ErrUnknownPhase, name, suggest.Hint(name, c.Names()))
}

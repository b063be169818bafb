package phase

import (
	"fmt"
	"strings"
)

// Status represents the lifecycle status of a single phase.
type Status string

// Phase status values.
const (
	// StatusNotReady is the initial status: the phase cannot be triggered yet.
	StatusNotReady Status = "not-ready"

	// StatusReady means the phase may be triggered by the operator.
	StatusReady Status = "ready"

	// StatusRunning means the execution collaborator is running the phase.
	StatusRunning Status = "running"

	// StatusCompleted is terminal for the phase.
	StatusCompleted Status = "completed"

	// StatusError means the last run failed; the phase may be retried via Ready.
	StatusError Status = "error"
)

// statuses lists every valid status in lifecycle order.
var statuses = []Status{
	StatusNotReady,
	StatusReady,
	StatusRunning,
	StatusCompleted,
	StatusError,
}

// Statuses returns all valid status values in lifecycle order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// IsValid reports whether s is one of the defined status values.
func (s Status) IsValid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a user-supplied spelling into a [Status].
//
// Matching is case-insensitive and treats "_" and spaces like "-", so
// "NotReady", "not_ready" and "not ready" all parse. Returns
// [ErrInvalidStatus] for anything else.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	if norm == "notready" {
		norm = string(StatusNotReady)
	}
	st := Status(norm)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// transitions is the intended status graph. Completed has no outgoing edges.
var transitions = map[Status][]Status{
	StatusNotReady: {StatusReady},
	StatusReady:    {StatusRunning},
	StatusRunning:  {StatusCompleted, StatusError},
	StatusError:    {StatusReady},
}

// CanTransition reports whether moving from one status to another follows the
// intended lifecycle graph:
//
//	not-ready -> ready -> running -> completed
//	                         \-> error -> ready (retry)
//
// [Coordinator.SetStatus] does not enforce this graph; callers that drive
// phases are expected to respect it.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

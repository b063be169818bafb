// Package feed parses the robot-side event stream that drives the panel.
//
// The robot controller writes one JSON object per line. Three kinds are
// understood:
//
//	{"type":"grasp","name":"top-pinch","reachable":true}
//	{"type":"clear"}
//	{"type":"phase","name":"Approach","status":"completed"}
//
// [Parser] turns the stream into [Event] values and [Apply] routes them to a
// grasp.Registry and phase.Coordinator.
package feed

// Line is the raw JSON object for one line of the stream.
type Line struct {
	Type      string `json:"type"`
	Name      string `json:"name,omitempty"`
	Reachable *bool  `json:"reachable,omitempty"`
	Status    string `json:"status,omitempty"`
}

// EventType identifies what an [Event] asks the panel to do.
type EventType string

const (
	// EventTypeGrasp adds or updates a grasp candidate.
	EventTypeGrasp EventType = "grasp"

	// EventTypeClear removes every grasp candidate.
	EventTypeClear EventType = "clear"

	// EventTypePhase reports a phase status from the robot.
	EventTypePhase EventType = "phase"
)

// Event is a parsed stream line.
type Event struct {
	// Raw is the decoded line.
	Raw *Line

	Type EventType

	// Name is the grasp or phase name. Empty for clear events.
	Name string

	// Reachable is the candidate's reachability. A grasp line without the
	// field is treated as reachable.
	Reachable bool

	// Status is the phase status text as sent; [Apply] parses it.
	Status string
}

// NewEventFromLine creates an [Event] from a decoded [Line].
func NewEventFromLine(raw *Line) Event {
	e := Event{
		Raw:    raw,
		Type:   EventType(raw.Type),
		Name:   raw.Name,
		Status: raw.Status,
	}
	if e.Type == EventTypeGrasp {
		e.Reachable = raw.Reachable == nil || *raw.Reachable
	}
	return e
}

// IsGrasp reports whether the event carries a named grasp candidate.
func (e Event) IsGrasp() bool {
	return e.Type == EventTypeGrasp && e.Name != ""
}

// IsClear reports whether the event clears the candidates.
func (e Event) IsClear() bool {
	return e.Type == EventTypeClear
}

// IsPhase reports whether the event carries a phase status.
func (e Event) IsPhase() bool {
	return e.Type == EventTypePhase && e.Name != "" && e.Status != ""
}

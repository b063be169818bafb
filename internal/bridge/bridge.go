// Package bridge forwards operator intents from the panel to the robot side
// over NATS.
//
// Every outbound notification of the core (phase execution requests, phase
// status changes, grasp previews and choices, control values) is published
// as JSON on a subject under a configurable prefix:
//
//	<prefix>.phase.execute
//	<prefix>.phase.status
//	<prefix>.grasp.preview
//	<prefix>.grasp.chosen
//	<prefix>.control.value
//	<prefix>.grasp.display
//
// The robot side can push candidates and phase reports back on
// <prefix>.feed using the line format of the feed package.
package bridge

import (
	"encoding/json"
	"fmt"
	"time"

	"graspctl/internal/config"
	"graspctl/internal/control"
	"graspctl/internal/event"
	"graspctl/internal/grasp"
	"graspctl/internal/logging"
	"graspctl/internal/phase"
)

// DefaultPrefix is used when no subject prefix is configured.
const DefaultPrefix = "graspctl"

// Subject suffixes under the configured prefix.
const (
	SubjectPhaseExecute = "phase.execute"
	SubjectPhaseStatus  = "phase.status"
	SubjectGraspPreview = "grasp.preview"
	SubjectGraspChosen  = "grasp.chosen"
	SubjectControlValue = "control.value"
	SubjectGraspDisplay = "grasp.display"
	SubjectFeed         = "feed"
)

// Publisher sends a payload on a subject. *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// PhaseIntent is the payload for phase subjects.
type PhaseIntent struct {
	Session string    `json:"session,omitempty"`
	Phase   string    `json:"phase"`
	Status  string    `json:"status,omitempty"`
	Time    time.Time `json:"time"`
}

// GraspIntent is the payload for grasp subjects.
type GraspIntent struct {
	Session string    `json:"session,omitempty"`
	Grasp   string    `json:"grasp"`
	Time    time.Time `json:"time"`
}

// ControlValue is the payload for control value changes.
type ControlValue struct {
	Session string    `json:"session,omitempty"`
	Label   string    `json:"label"`
	Value   int       `json:"value"`
	Time    time.Time `json:"time"`
}

// DisplayIntent is the payload for grasp display filter changes.
type DisplayIntent struct {
	Session string `json:"session,omitempty"`
	config.DisplayConfig
	Time time.Time `json:"time"`
}

// unsubscriber is satisfied by the coordinator, registry and controls.
type unsubscriber interface {
	Unsubscribe(id event.ID) bool
}

type subscription struct {
	source unsubscriber
	id     event.ID
}

// Bridge publishes intents emitted by the attached components.
type Bridge struct {
	pub     Publisher
	prefix  string
	session string
	logger  *logging.Logger
	now     func() time.Time

	subs []subscription
}

// New creates a Bridge publishing under prefix. An empty prefix uses
// [DefaultPrefix].
func New(pub Publisher, prefix string) *Bridge {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Bridge{pub: pub, prefix: prefix, now: time.Now}
}

// SetSession sets the session id stamped on every payload.
func (b *Bridge) SetSession(id string) {
	b.session = id
}

// SetLogger configures the logger used for publish failures.
func (b *Bridge) SetLogger(l *logging.Logger) {
	b.logger = l
}

// Subject returns the full subject for a suffix.
func (b *Bridge) Subject(suffix string) string {
	return b.prefix + "." + suffix
}

// AttachPhases publishes the coordinator's execution requests and status
// changes.
func (b *Bridge) AttachPhases(c *phase.Coordinator) {
	b.track(c, c.OnExecutionRequested(func(ev phase.ExecutionRequested) {
		b.publish(SubjectPhaseExecute, PhaseIntent{Session: b.session, Phase: ev.Name, Time: b.now()})
	}))
	b.track(c, c.OnStatusChanged(func(ev phase.StatusChanged) {
		b.publish(SubjectPhaseStatus, PhaseIntent{Session: b.session, Phase: ev.Name, Status: ev.Status.String(), Time: b.now()})
	}))
}

// AttachGrasps publishes the registry's preview requests and choices.
func (b *Bridge) AttachGrasps(r *grasp.Registry) {
	b.track(r, r.OnPreviewRequested(func(ev grasp.PreviewRequested) {
		b.publish(SubjectGraspPreview, GraspIntent{Session: b.session, Grasp: ev.Name, Time: b.now()})
	}))
	b.track(r, r.OnChosen(func(ev grasp.Chosen) {
		b.publish(SubjectGraspChosen, GraspIntent{Session: b.session, Grasp: ev.Name, Time: b.now()})
	}))
}

// AttachControl publishes the control's value changes.
func (b *Bridge) AttachControl(c *control.RangeControl) {
	b.track(c, c.OnValueChanged(func(ev control.ValueChanged) {
		b.publish(SubjectControlValue, ControlValue{Session: b.session, Label: ev.Label, Value: ev.Value, Time: b.now()})
	}))
}

// PublishDisplay publishes the operator's grasp display filter.
func (b *Bridge) PublishDisplay(d config.DisplayConfig) {
	b.publish(SubjectGraspDisplay, DisplayIntent{Session: b.session, DisplayConfig: d, Time: b.now()})
}

// Detach removes every listener the bridge registered.
func (b *Bridge) Detach() {
	for _, s := range b.subs {
		s.source.Unsubscribe(s.id)
	}
	b.subs = nil
}

func (b *Bridge) track(source unsubscriber, id event.ID) {
	b.subs = append(b.subs, subscription{source: source, id: id})
}

// publish runs inside a core listener, so failures are logged rather than
// returned.
func (b *Bridge) publish(suffix string, payload any) {
	subject := b.Subject(suffix)
	if err := b.send(subject, payload); err != nil {
		b.logger.Warn("publish failed", "subject", subject, "error", err)
		return
	}
	b.logger.Debug("published intent", "subject", subject)
}

func (b *Bridge) send(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}
	if err := b.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

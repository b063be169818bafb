package bridge

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graspctl/internal/config"
	"graspctl/internal/control"
	"graspctl/internal/feed"
	"graspctl/internal/grasp"
	"graspctl/internal/phase"
)

type published struct {
	subject string
	data    []byte
}

// FakePublisher records publishes and optionally fails them.
type FakePublisher struct {
	msgs []published
	err  error
}

func (f *FakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

func (f *FakePublisher) subjects() []string {
	var out []string
	for _, m := range f.msgs {
		out = append(out, m.subject)
	}
	return out
}

var fixedTime = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newBridge(pub Publisher, prefix string) *Bridge {
	b := New(pub, prefix)
	b.now = func() time.Time { return fixedTime }
	return b
}

func TestBridge_Phases(t *testing.T) {
	pub := &FakePublisher{}
	b := newBridge(pub, "cell1")
	b.SetSession("s-1")
	coord, err := phase.NewCoordinator([]string{"Approach", "Grasp"}, phase.WithAutomaticTransitions(true))
	require.NoError(t, err)
	b.AttachPhases(coord)

	require.NoError(t, coord.RequestExecution("Approach"))
	require.NoError(t, coord.SetStatus("Approach", phase.StatusCompleted))

	assert.Equal(t, []string{
		"cell1.phase.execute",
		"cell1.phase.status",
		"cell1.phase.status",
	}, pub.subjects())

	var intent PhaseIntent
	require.NoError(t, json.Unmarshal(pub.msgs[2].data, &intent))
	assert.Equal(t, PhaseIntent{Session: "s-1", Phase: "Grasp", Status: "ready", Time: fixedTime}, intent)
}

func TestBridge_Grasps(t *testing.T) {
	pub := &FakePublisher{}
	b := newBridge(pub, "")
	reg := grasp.NewRegistry()
	b.AttachGrasps(reg)
	require.NoError(t, reg.AddOrUpdate("G1", true))
	require.NoError(t, reg.AddOrUpdate("G2", false))

	require.NoError(t, reg.RequestPreview("G2"))
	require.NoError(t, reg.RequestChoice("G1"))
	assert.ErrorIs(t, reg.RequestChoice("G2"), grasp.ErrNotReachable)

	assert.Equal(t, []string{"graspctl.grasp.preview", "graspctl.grasp.chosen"}, pub.subjects())
	var intent GraspIntent
	require.NoError(t, json.Unmarshal(pub.msgs[1].data, &intent))
	assert.Equal(t, "G1", intent.Grasp)
}

func TestBridge_Control(t *testing.T) {
	pub := &FakePublisher{}
	b := newBridge(pub, "")
	c := control.New("hand y", -500, 500, 0)
	b.AttachControl(c)

	c.SetValue(900)

	require.Len(t, pub.msgs, 1)
	var v ControlValue
	require.NoError(t, json.Unmarshal(pub.msgs[0].data, &v))
	assert.Equal(t, "hand y", v.Label)
	assert.Equal(t, 500, v.Value)
}

func TestBridge_PublishDisplay(t *testing.T) {
	pub := &FakePublisher{}
	b := newBridge(pub, "")
	b.SetSession("s-1")

	b.PublishDisplay(config.DisplayConfig{ShowInverted: true})

	require.Equal(t, []string{"graspctl.grasp.display"}, pub.subjects())
	assert.JSONEq(t,
		`{"session":"s-1","show_inverted":true,"both_sides":false,"time":"2026-10-19T09:00:00Z"}`,
		string(pub.msgs[0].data))
}

func TestBridge_Detach(t *testing.T) {
	pub := &FakePublisher{}
	b := newBridge(pub, "")
	c := control.New("test", -5000, 5000, 0)
	b.AttachControl(c)

	b.Detach()
	c.SetValue(10)

	assert.Empty(t, pub.msgs)
}

func TestBridge_PublishFailureDoesNotBreakCore(t *testing.T) {
	pub := &FakePublisher{err: errors.New("disconnected")}
	b := newBridge(pub, "")
	reg := grasp.NewRegistry()
	b.AttachGrasps(reg)
	require.NoError(t, reg.AddOrUpdate("G1", true))

	var chosen []string
	reg.OnChosen(func(ev grasp.Chosen) { chosen = append(chosen, ev.Name) })

	assert.NoError(t, reg.RequestChoice("G1"))
	assert.Equal(t, []string{"G1"}, chosen)
}

func TestFeedHandler(t *testing.T) {
	var got []feed.Event
	var errs int
	h := FeedHandler(func(ev feed.Event, err error) {
		if err != nil {
			errs++
			return
		}
		got = append(got, ev)
	})

	h(&nats.Msg{Data: []byte(`{"type":"grasp","name":"G1","reachable":false}`)})
	h(&nats.Msg{Data: []byte(`{broken`)})

	require.Len(t, got, 1)
	assert.Equal(t, "G1", got[0].Name)
	assert.False(t, got[0].Reachable)
	assert.Equal(t, 1, errs)
}

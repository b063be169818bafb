package feed

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graspctl/internal/grasp"
	"graspctl/internal/phase"
)

func collect(ch <-chan Event) []Event {
	var out []Event
	for e := range ch {
		out = append(out, e)
	}
	return out
}

func TestParser_Parse(t *testing.T) {
	stream := strings.Join([]string{
		`{"type":"grasp","name":"G1","reachable":true}`,
		``,
		`not json`,
		`{"type":"grasp","name":"G2","reachable":false}`,
		`{"type":"clear"}`,
		`{"type":"phase","name":"Approach","status":"completed"}`,
	}, "\n")

	events := collect(NewParser().Parse(strings.NewReader(stream)))

	require.Len(t, events, 4)
	assert.True(t, events[0].IsGrasp())
	assert.Equal(t, "G1", events[0].Name)
	assert.True(t, events[0].Reachable)
	assert.False(t, events[1].Reachable)
	assert.True(t, events[2].IsClear())
	assert.True(t, events[3].IsPhase())
	assert.Equal(t, "completed", events[3].Status)
}

func TestParser_OversizedLineReportsErr(t *testing.T) {
	p := &Parser{BufferSize: 64}
	stream := `{"type":"clear"}` + "\n" + `{"type":"grasp","name":"` + strings.Repeat("x", 128) + `"}` + "\n" + `{"type":"clear"}`

	events := collect(p.Parse(strings.NewReader(stream)))

	assert.Len(t, events, 1)
	require.Error(t, p.Err())
	assert.ErrorIs(t, p.Err(), bufio.ErrTooLong)
}

func TestParser_ErrNilAtEOF(t *testing.T) {
	p := NewParser()

	collect(p.Parse(strings.NewReader(`{"type":"clear"}`)))

	assert.NoError(t, p.Err())
}

func TestParser_ZeroBufferSizeUsesDefault(t *testing.T) {
	p := &Parser{}

	events := collect(p.Parse(strings.NewReader(`{"type":"clear"}`)))

	require.Len(t, events, 1)
	assert.Equal(t, EventTypeClear, events[0].Type)
}

func TestParseSingle(t *testing.T) {
	e, err := ParseSingle(`{"type":"grasp","name":"G1"}`)
	require.NoError(t, err)
	assert.True(t, e.Reachable, "missing reachable defaults to true")
	require.NotNil(t, e.Raw)

	_, err = ParseSingle(`{"type":`)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	reg := grasp.NewRegistry()
	coord, err := phase.NewCoordinator([]string{"Approach", "Grasp"}, phase.WithAutomaticTransitions(true))
	require.NoError(t, err)

	require.NoError(t, Apply(Event{Type: EventTypeGrasp, Name: "G1", Reachable: true}, reg, coord))
	require.NoError(t, Apply(Event{Type: EventTypeGrasp, Name: "G2"}, reg, coord))
	assert.Equal(t, 2, reg.Len())

	require.NoError(t, Apply(Event{Type: EventTypePhase, Name: "Approach", Status: "Completed"}, reg, coord))
	st, err := coord.Status("Grasp")
	require.NoError(t, err)
	assert.Equal(t, phase.StatusReady, st)

	require.NoError(t, Apply(Event{Type: EventTypeClear}, reg, coord))
	assert.Equal(t, 0, reg.Len())
}

func TestApply_Errors(t *testing.T) {
	reg := grasp.NewRegistry()
	coord, err := phase.NewCoordinator([]string{"Lift"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		event   Event
		wantErr error
	}{
		{"unknown phase", Event{Type: EventTypePhase, Name: "Lfit", Status: "ready"}, phase.ErrUnknownPhase},
		{"bad status", Event{Type: EventTypePhase, Name: "Lift", Status: "paused"}, phase.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Apply(tt.event, reg, coord), tt.wantErr)
		})
	}

	assert.ErrorContains(t, Apply(Event{Type: "wave"}, reg, coord), "unsupported feed event")
	assert.ErrorContains(t, Apply(Event{Type: EventTypeGrasp}, reg, coord), "unsupported feed event")
}

func TestApply_NilTargets(t *testing.T) {
	assert.NoError(t, Apply(Event{Type: EventTypeGrasp, Name: "G1"}, nil, nil))
	assert.NoError(t, Apply(Event{Type: EventTypeClear}, nil, nil))
	assert.NoError(t, Apply(Event{Type: EventTypePhase, Name: "Lift", Status: "ready"}, nil, nil))
}

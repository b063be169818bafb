package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graspctl/internal/candidates"
	"graspctl/internal/config"
	"graspctl/internal/control"
	"graspctl/internal/execution"
	"graspctl/internal/feed"
	"graspctl/internal/grasp"
	"graspctl/internal/phase"
)

type stubRunner struct {
	calls []string
	err   error
}

func (s *stubRunner) RunPhase(_ context.Context, name string) error {
	s.calls = append(s.calls, name)
	return s.err
}

// ctxRunner reports whether the run was cancelled before it was carried out.
type ctxRunner struct{}

func (ctxRunner) RunPhase(ctx context.Context, _ string) error {
	return ctx.Err()
}

type fixture struct {
	m      *Model
	coord  *phase.Coordinator
	reg    *grasp.Registry
	ctl    *control.RangeControl
	runner *stubRunner
}

func newFixture(t *testing.T, withExecutor bool) *fixture {
	t.Helper()
	coord, err := phase.NewCoordinator([]string{"Approach", "Grasp", "Lift"},
		phase.WithAutomaticTransitions(true), phase.WithFirstReady(true))
	require.NoError(t, err)
	f := &fixture{
		coord:  coord,
		reg:    grasp.NewRegistry(),
		ctl:    control.New("hand y", -500, 500, 0),
		runner: &stubRunner{},
	}
	opts := Options{
		Coordinator: coord,
		Registry:    f.reg,
		Controls:    []*control.RangeControl{f.ctl},
		Session:     "s-1",
	}
	if withExecutor {
		opts.Executor = execution.NewExecutor(coord, f.runner)
	}
	f.m = New(opts)
	return f
}

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// send delivers msg and then every message produced by the returned
// commands, the way the bubbletea runtime would.
func send(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	runCmd(t, m, cmd)
}

func runCmd(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			runCmd(t, m, c)
		}
	default:
		send(t, m, msg)
	}
}

func statusOf(t *testing.T, c *phase.Coordinator, name string) phase.Status {
	t.Helper()
	st, err := c.Status(name)
	require.NoError(t, err)
	return st
}

func TestModel_ControlKeys(t *testing.T) {
	f := newFixture(t, false)

	send(t, f.m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, f.ctl.Value())
	assert.Equal(t, "1", f.m.controls[0].readout.String())

	send(t, f.m, keyMsg("L"))
	assert.Equal(t, 51, f.ctl.Value())

	send(t, f.m, keyMsg("H"))
	send(t, f.m, keyMsg("H"))
	assert.Equal(t, -49, f.ctl.Value())
	assert.Equal(t, -49, f.m.controls[0].slider.Value())

	send(t, f.m, keyMsg("r"))
	assert.Equal(t, 0, f.ctl.Value())
	assert.Equal(t, "0", f.m.controls[0].readout.String())
}

func TestModel_ExecuteReadyPhase(t *testing.T) {
	f := newFixture(t, true)
	send(t, f.m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, panePhases, f.m.focus)

	_, cmd := f.m.Update(keyMsg("x"))
	assert.Equal(t, phase.StatusRunning, statusOf(t, f.coord, "Approach"))

	runCmd(t, f.m, cmd)
	assert.Equal(t, []string{"Approach"}, f.runner.calls)
	assert.Equal(t, phase.StatusCompleted, statusOf(t, f.coord, "Approach"))
	assert.Equal(t, phase.StatusReady, statusOf(t, f.coord, "Grasp"))
}

func TestModel_ExecuteIgnoresPhaseThatIsNotReady(t *testing.T) {
	f := newFixture(t, true)
	var requested []string
	f.coord.OnExecutionRequested(func(ev phase.ExecutionRequested) { requested = append(requested, ev.Name) })

	send(t, f.m, tea.KeyMsg{Type: tea.KeyTab})
	send(t, f.m, tea.KeyMsg{Type: tea.KeyDown})
	send(t, f.m, keyMsg("x"))

	assert.Empty(t, requested)
	assert.Empty(t, f.runner.calls)
}

func TestModel_RunNext(t *testing.T) {
	f := newFixture(t, true)
	send(t, f.m, tea.KeyMsg{Type: tea.KeyTab})

	send(t, f.m, keyMsg("n"))
	send(t, f.m, keyMsg("n"))

	assert.Equal(t, []string{"Approach", "Grasp"}, f.runner.calls)
}

func TestModel_StopCancelsRunningPhase(t *testing.T) {
	coord, err := phase.NewCoordinator([]string{"Approach", "Grasp"}, phase.WithFirstReady(true))
	require.NoError(t, err)
	m := New(Options{
		Coordinator: coord,
		Registry:    grasp.NewRegistry(),
		Executor:    execution.NewExecutor(coord, ctxRunner{}),
	})

	_, cmd := m.Update(keyMsg("n"))
	require.NotNil(t, cmd)
	assert.Equal(t, phase.StatusRunning, statusOf(t, coord, "Approach"))
	assert.Contains(t, m.renderHelp(), "stop")

	send(t, m, keyMsg("s"))
	runCmd(t, m, cmd)

	assert.Equal(t, phase.StatusError, statusOf(t, coord, "Approach"))
	assert.Equal(t, "Approach stopped", m.message)
	assert.Empty(t, m.running)
	assert.NotContains(t, m.renderHelp(), "stop")
}

func TestModel_StopWithNothingRunning(t *testing.T) {
	f := newFixture(t, true)

	send(t, f.m, keyMsg("s"))

	assert.Equal(t, "Nothing is running", f.m.message)
	assert.Equal(t, phase.StatusReady, statusOf(t, f.coord, "Approach"))
}

func TestModel_ControlValueShownInStatusLine(t *testing.T) {
	f := newFixture(t, false)

	send(t, f.m, tea.KeyMsg{Type: tea.KeyRight})

	assert.Equal(t, "hand y value: 1", f.m.message)
	assert.Contains(t, f.m.View(), "hand y value: 1")
}

func TestModel_DisplayToggles(t *testing.T) {
	var changes []config.DisplayConfig
	coord, err := phase.NewCoordinator([]string{"Approach"})
	require.NoError(t, err)
	m := New(Options{
		Coordinator:      coord,
		Registry:         grasp.NewRegistry(),
		Display:          config.DisplayConfig{BothSides: true},
		OnDisplayChanged: func(d config.DisplayConfig) { changes = append(changes, d) },
	})
	assert.Contains(t, m.View(), "[ ] show inverted grasps  [x] show grasps for both sides")

	send(t, m, keyMsg("i"))
	send(t, m, keyMsg("b"))

	assert.Equal(t, []config.DisplayConfig{
		{ShowInverted: true, BothSides: true},
		{ShowInverted: true, BothSides: false},
	}, changes)
	assert.Equal(t, config.DisplayConfig{ShowInverted: true}, m.Display())
	assert.Contains(t, m.View(), "[x] show inverted grasps  [ ] show grasps for both sides")
}

func TestModel_PhaseFailure(t *testing.T) {
	f := newFixture(t, true)
	f.runner.err = errors.New("arm fault")
	send(t, f.m, tea.KeyMsg{Type: tea.KeyTab})

	send(t, f.m, keyMsg("x"))

	assert.Equal(t, phase.StatusError, statusOf(t, f.coord, "Approach"))
	assert.True(t, f.m.failed)
	assert.Contains(t, f.m.View(), "arm fault")
}

func TestModel_ExecuteWithoutExecutor(t *testing.T) {
	f := newFixture(t, false)
	var requested []string
	f.coord.OnExecutionRequested(func(ev phase.ExecutionRequested) { requested = append(requested, ev.Name) })
	send(t, f.m, tea.KeyMsg{Type: tea.KeyTab})

	send(t, f.m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"Approach"}, requested)
	assert.Equal(t, phase.StatusReady, statusOf(t, f.coord, "Approach"))
}

func TestModel_Grasps(t *testing.T) {
	f := newFixture(t, false)
	var chosen, previewed []string
	f.reg.OnChosen(func(ev grasp.Chosen) { chosen = append(chosen, ev.Name) })
	f.reg.OnPreviewRequested(func(ev grasp.PreviewRequested) { previewed = append(previewed, ev.Name) })

	send(t, f.m, CandidatesMsg{File: &candidates.File{Candidates: []candidates.Candidate{
		{Name: "G1", Reachable: false},
		{Name: "G2", Reachable: true},
	}}})
	send(t, f.m, tea.KeyMsg{Type: tea.KeyTab})
	send(t, f.m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, paneGrasps, f.m.focus)

	send(t, f.m, keyMsg("c"))
	send(t, f.m, keyMsg("p"))
	assert.Empty(t, chosen)
	assert.Equal(t, []string{"G1"}, previewed)
	assert.NotContains(t, f.m.renderHelp(), "choose")

	send(t, f.m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, f.m.renderHelp(), "choose")
	send(t, f.m, keyMsg("c"))
	assert.Equal(t, []string{"G2"}, chosen)
	assert.Equal(t, "Chose G2", f.m.message)
}

func TestModel_CandidatesError(t *testing.T) {
	f := newFixture(t, false)

	send(t, f.m, CandidatesMsg{Err: errors.New("no such file")})

	assert.True(t, f.m.failed)
	assert.Contains(t, f.m.message, "no such file")
}

func TestModel_FeedMessages(t *testing.T) {
	f := newFixture(t, false)

	send(t, f.m, FeedMsg{Event: feed.Event{Type: feed.EventTypeGrasp, Name: "G1", Reachable: true}})
	send(t, f.m, FeedMsg{Event: feed.Event{Type: feed.EventTypePhase, Name: "Approach", Status: "completed"}})
	send(t, f.m, FeedMsg{Err: errors.New("bad line")})

	assert.Equal(t, 1, f.reg.Len())
	assert.Equal(t, phase.StatusReady, statusOf(t, f.coord, "Grasp"))
	assert.False(t, f.m.failed)

	send(t, f.m, FeedMsg{Event: feed.Event{Type: feed.EventTypeClear}})
	assert.Equal(t, 0, f.reg.Len())
	assert.Equal(t, 0, f.m.cursors[paneGrasps])
}

func TestModel_Quit(t *testing.T) {
	f := newFixture(t, false)

	_, cmd := f.m.Update(keyMsg("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, f.reg.AddOrUpdate("G1", false))

	view := f.m.View()

	assert.Contains(t, view, "session s-1")
	assert.Contains(t, view, "hand y")
	assert.Contains(t, view, "Not ready")
	assert.Contains(t, view, "not reachable")
	assert.Equal(t, 1, strings.Count(view, "[execute]"), "only the ready phase offers execute")
}

func TestStatusLabel(t *testing.T) {
	for _, s := range phase.Statuses() {
		assert.NotEqual(t, string(s), StatusLabel(s), "every status has a display label")
	}
	assert.Equal(t, "paused", StatusLabel(phase.Status("paused")))
}

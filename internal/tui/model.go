// Package tui is the interactive grasp-selection panel.
//
// The panel renders the controls, the phase sequence and the grasp
// candidates, and turns key presses into operations on the core components.
// It owns every presentation decision the core leaves open: status labels and
// colors, which triggers are offered, and how a slider is drawn.
//
// All state changes happen on the bubbletea update loop. Collaborators that
// work on other goroutines (the candidate watcher, the NATS feed, phase
// commands) report back with messages sent through the program.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"graspctl/internal/candidates"
	"graspctl/internal/config"
	"graspctl/internal/control"
	"graspctl/internal/execution"
	"graspctl/internal/feed"
	"graspctl/internal/grasp"
	"graspctl/internal/logging"
	"graspctl/internal/phase"
)

// sliderWidth is the number of cells a control's slider bar occupies.
const sliderWidth = 41

type pane int

const (
	paneControls pane = iota
	panePhases
	paneGrasps
	paneCount
)

// CandidatesMsg carries a re-read candidate file into the update loop.
type CandidatesMsg struct {
	File *candidates.File
	Err  error
}

// FeedMsg carries one robot feed event into the update loop.
type FeedMsg struct {
	Event feed.Event
	Err   error
}

// phaseFinishedMsg reports the end of a phase run started by the panel.
type phaseFinishedMsg struct {
	name string
	err  error
}

type controlView struct {
	ctl     *control.RangeControl
	slider  *control.Slider
	readout *control.Readout
}

// Options configures a [Model].
type Options struct {
	Coordinator *phase.Coordinator
	Registry    *grasp.Registry
	Controls    []*control.RangeControl

	// Executor runs phases when the operator executes them. Without one the
	// execution request is only announced and the phase status is expected to
	// arrive through the feed.
	Executor *execution.Executor

	// Display is the initial grasp display filter. OnDisplayChanged, when
	// set, is called after the operator toggles either option.
	Display          config.DisplayConfig
	OnDisplayChanged func(config.DisplayConfig)

	Logger  *logging.Logger
	Session string
	Context context.Context
}

// Model is the bubbletea model of the panel.
type Model struct {
	coord    *phase.Coordinator
	reg      *grasp.Registry
	controls []controlView
	exec     *execution.Executor
	log      *logging.Logger
	session  string
	ctx      context.Context

	display   config.DisplayConfig
	onDisplay func(config.DisplayConfig)

	// running holds the cancel function of every phase run in flight.
	running map[string]context.CancelFunc

	keys    keyMap
	focus   pane
	cursors [paneCount]int

	// requested collects execution requests emitted during one update so
	// they can be started after the triggering operation returns.
	requested []string
	message   string
	failed    bool
}

// New creates the panel model and subscribes it to the core components.
func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		coord:     opts.Coordinator,
		reg:       opts.Registry,
		exec:      opts.Executor,
		log:       opts.Logger,
		session:   opts.Session,
		ctx:       ctx,
		display:   opts.Display,
		onDisplay: opts.OnDisplayChanged,
		running:   make(map[string]context.CancelFunc),
		keys:      defaultKeyMap(),
	}

	for _, c := range opts.Controls {
		cv := controlView{ctl: c, slider: control.NewSlider(c, sliderWidth), readout: &control.Readout{}}
		c.Attach(cv.slider)
		c.Attach(cv.readout)
		c.OnValueChanged(func(ev control.ValueChanged) {
			m.log.Debug("value changed", "control", ev.Label, "value", ev.Value)
			m.notify(fmt.Sprintf("%s value: %d", ev.Label, ev.Value))
		})
		m.controls = append(m.controls, cv)
	}

	m.coord.OnExecutionRequested(func(ev phase.ExecutionRequested) {
		m.log.WithPhase(ev.Name).Info("execution requested")
		m.requested = append(m.requested, ev.Name)
	})
	m.coord.OnStatusChanged(func(ev phase.StatusChanged) {
		m.log.WithPhase(ev.Name).Info("phase status changed", "status", ev.Status.String())
	})
	m.reg.OnPreviewRequested(func(ev grasp.PreviewRequested) {
		m.log.Info("grasp preview requested", "grasp", ev.Name)
		m.notify("Previewing " + ev.Name)
	})
	m.reg.OnChosen(func(ev grasp.Chosen) {
		m.log.Info("grasp chosen", "grasp", ev.Name)
		m.notify("Chose " + ev.Name)
	})
	m.reg.OnCleared(func(ev grasp.Cleared) {
		m.log.Debug("grasps cleared", "removed", ev.Removed)
		m.cursors[paneGrasps] = 0
	})

	if len(m.controls) == 0 {
		m.focus = panePhases
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)

	case CandidatesMsg:
		if msg.Err != nil {
			m.fail(fmt.Errorf("candidates: %w", msg.Err))
			break
		}
		if err := candidates.Apply(m.reg, msg.File); err != nil {
			m.fail(err)
			break
		}
		m.notify(fmt.Sprintf("Loaded %d candidates", len(msg.File.Candidates)))

	case FeedMsg:
		if msg.Err != nil {
			m.log.Warn("malformed feed line", "error", msg.Err)
			break
		}
		if err := feed.Apply(msg.Event, m.reg, m.coord); err != nil {
			m.fail(err)
		}

	case phaseFinishedMsg:
		if cancel, ok := m.running[msg.name]; ok {
			cancel()
			delete(m.running, msg.name)
		}
		err := m.exec.Finish(msg.name, msg.err)
		switch {
		case errors.Is(msg.err, context.Canceled):
			m.log.WithPhase(msg.name).Info("phase stopped")
			m.notify(msg.name + " stopped")
		case err != nil:
			m.fail(err)
		default:
			m.notify(msg.name + " completed")
		}
	}

	m.clampCursors()
	return m, m.startRequested()
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.NextPane):
		m.focus = (m.focus + 1) % paneCount
		return
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return
	case key.Matches(msg, m.keys.RunNext):
		m.startNext()
		return
	case key.Matches(msg, m.keys.Stop):
		m.stop()
		return
	case key.Matches(msg, m.keys.Inverted):
		m.display.ShowInverted = !m.display.ShowInverted
		m.displayChanged()
		return
	case key.Matches(msg, m.keys.BothSides):
		m.display.BothSides = !m.display.BothSides
		m.displayChanged()
		return
	}

	switch m.focus {
	case paneControls:
		m.handleControlKey(msg)
	case panePhases:
		m.handlePhaseKey(msg)
	case paneGrasps:
		m.handleGraspKey(msg)
	}
}

func (m *Model) handleControlKey(msg tea.KeyMsg) {
	if len(m.controls) == 0 {
		return
	}
	c := m.controls[m.cursors[paneControls]].ctl
	tick := max(c.TickInterval(), 1)
	switch {
	case key.Matches(msg, m.keys.Decrease):
		c.Step(-1)
	case key.Matches(msg, m.keys.Increase):
		c.Step(1)
	case key.Matches(msg, m.keys.CoarseDec):
		c.Step(-tick)
	case key.Matches(msg, m.keys.CoarseInc):
		c.Step(tick)
	case key.Matches(msg, m.keys.Reset):
		c.Reset()
	}
}

func (m *Model) handlePhaseKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Execute):
		entries := m.coord.Entries()
		if len(entries) == 0 {
			return
		}
		e := entries[m.cursors[panePhases]]
		if e.Status != phase.StatusReady {
			return
		}
		m.check(m.coord.RequestExecution(e.Name))
	}
}

func (m *Model) startNext() {
	next, ok := m.coord.Next()
	if !ok {
		m.notify("No phase is ready")
		return
	}
	m.check(m.coord.RequestExecution(next.Name))
}

// stop cancels every phase run in flight. Each run still reports back with
// phaseFinishedMsg and is recorded as failed.
func (m *Model) stop() {
	if len(m.running) == 0 {
		m.notify("Nothing is running")
		return
	}
	for name, cancel := range m.running {
		m.log.WithPhase(name).Info("stopping phase")
		cancel()
	}
}

func (m *Model) displayChanged() {
	m.log.Info("grasp display changed", "show_inverted", m.display.ShowInverted, "both_sides", m.display.BothSides)
	if m.onDisplay != nil {
		m.onDisplay(m.display)
	}
}

// Display returns the current grasp display filter.
func (m *Model) Display() config.DisplayConfig {
	return m.display
}

func (m *Model) handleGraspKey(msg tea.KeyMsg) {
	entries := m.reg.Entries()
	if len(entries) == 0 {
		return
	}
	g := entries[m.cursors[paneGrasps]]
	switch {
	case key.Matches(msg, m.keys.Preview):
		m.check(m.reg.RequestPreview(g.Name))
	case key.Matches(msg, m.keys.Choose):
		if !g.Reachable {
			return
		}
		m.check(m.reg.RequestChoice(g.Name))
	}
}

// startRequested begins every phase requested during this update. Each run
// happens in a tea.Cmd and reports back with phaseFinishedMsg.
func (m *Model) startRequested() tea.Cmd {
	if len(m.requested) == 0 {
		return nil
	}
	names := m.requested
	m.requested = nil
	if m.exec == nil {
		m.notify(names[len(names)-1] + " requested")
		return nil
	}

	var cmds []tea.Cmd
	for _, name := range names {
		if err := m.exec.Begin(name); err != nil {
			if !errors.Is(err, execution.ErrNotRunnable) {
				m.fail(err)
			}
			continue
		}
		m.notify(name + " running")
		cmds = append(cmds, m.runPhase(name))
	}
	return tea.Batch(cmds...)
}

func (m *Model) runPhase(name string) tea.Cmd {
	runner := m.exec.Runner()
	ctx, cancel := context.WithCancel(m.ctx)
	m.running[name] = cancel
	return func() tea.Msg {
		return phaseFinishedMsg{name: name, err: runner.RunPhase(ctx, name)}
	}
}

func (m *Model) moveCursor(delta int) {
	n := m.paneLen(m.focus)
	if n == 0 {
		return
	}
	m.cursors[m.focus] = max(0, min(m.cursors[m.focus]+delta, n-1))
}

func (m *Model) clampCursors() {
	for p := pane(0); p < paneCount; p++ {
		m.cursors[p] = max(0, min(m.cursors[p], m.paneLen(p)-1))
	}
}

func (m *Model) paneLen(p pane) int {
	switch p {
	case paneControls:
		return len(m.controls)
	case panePhases:
		return m.coord.Len()
	default:
		return m.reg.Len()
	}
}

func (m *Model) check(err error) {
	if err != nil {
		m.fail(err)
	}
}

func (m *Model) notify(text string) {
	m.message = text
	m.failed = false
}

func (m *Model) fail(err error) {
	m.log.Warn("panel operation failed", "error", err)
	m.message = err.Error()
	m.failed = true
}

package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"graspctl/internal/bridge"
	"graspctl/internal/candidates"
	"graspctl/internal/feed"
	"graspctl/internal/grasp"
	"graspctl/internal/logging"
	"graspctl/internal/tui"
)

func newPanelCommand(app *App) *cobra.Command {
	var candidatesPath, feedPath string

	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Open the interactive control panel",
		Long: `Open the interactive control panel.

The panel shows the configured controls, the phase sequence and the grasp
candidates. Candidates are loaded from the candidate file, which is watched
for changes, and from the robot feed when one is given with --feed or
received over the NATS bridge.

n starts the next ready phase and s stops the phases that are running.
i and b toggle showing inverted grasps and grasps for both sides; the
choice is published to the planner over the bridge.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the panel, so logs only go to a file.
			app.logger = app.newLogger(nil)
			log := app.Logger()

			coord, err := app.newCoordinator()
			if err != nil {
				return err
			}
			reg := grasp.NewRegistry()
			controls := app.newControls()

			b, conn, closeBridge, err := app.connectBridge()
			if err != nil {
				return err
			}
			defer closeBridge()
			if b != nil {
				b.AttachPhases(coord)
				b.AttachGrasps(reg)
				for _, c := range controls {
					b.AttachControl(c)
				}
			}

			reader := app.candidateReader(candidatesPath)
			if f, err := reader.Read(); err == nil {
				if err := candidates.Apply(reg, f); err != nil {
					return err
				}
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			// Phase runs still in flight are cancelled when the panel closes.
			runCtx, cancelRuns := context.WithCancel(cmd.Context())
			defer cancelRuns()

			opts := tui.Options{
				Coordinator: coord,
				Registry:    reg,
				Controls:    controls,
				Executor:    app.newExecutor(coord),
				Display:     app.Config.Display,
				Logger:      log,
				Session:     app.Session,
				Context:     runCtx,
			}
			if b != nil {
				opts.OnDisplayChanged = b.PublishDisplay
			}
			model := tui.New(opts)
			program := tui.NewProgram(model, tea.WithContext(cmd.Context()))

			if app.Config.Candidates.Watch {
				w, err := candidates.NewWatcher(reader, func(f *candidates.File, err error) {
					program.Send(tui.CandidatesMsg{File: f, Err: err})
				})
				if err != nil {
					log.Warn("candidate watch disabled", "path", reader.Path(), "error", err)
				} else {
					w.Start()
					defer w.Stop()
				}
			}

			if conn != nil {
				subject := b.Subject(bridge.SubjectFeed)
				sub, err := conn.SubscribeFeed(subject, func(ev feed.Event, err error) {
					program.Send(tui.FeedMsg{Event: ev, Err: err})
				})
				if err != nil {
					return err
				}
				defer func() { _ = sub.Unsubscribe() }()
			}

			if feedPath != "" {
				if err := streamFeed(feedPath, program, log); err != nil {
					return err
				}
			}

			log.Info("panel started", "phases", coord.Len(), "controls", len(controls))
			_, err = program.Run()
			log.Info("panel closed")
			return err
		},
	}

	cmd.Flags().StringVar(&candidatesPath, "candidates", "", "candidate file (overrides config)")
	cmd.Flags().StringVar(&feedPath, "feed", "", "JSON-lines robot feed file to follow")
	return cmd
}

// streamFeed forwards every event of the feed file at path to the program
// until the file ends. A read error that cuts the feed short is logged.
func streamFeed(path string, program *tea.Program, log *logging.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	parser := feed.NewParser()
	events := parser.Parse(f)
	go func() {
		defer f.Close()
		for ev := range events {
			program.Send(tui.FeedMsg{Event: ev})
		}
		if err := parser.Err(); err != nil {
			log.Error("robot feed ended", "path", path, "error", err)
			return
		}
		log.Info("robot feed ended", "path", path)
	}()
	return nil
}

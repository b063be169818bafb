// Package cli wires the graspctl commands.
//
// Every command shares an [App] holding the loaded configuration, the
// session's logger and the output streams. Dependencies that touch the
// outside world (the phase runner and the intent publisher) can be replaced
// on the App, which is how the command tests run without a shell or a NATS
// server.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"graspctl/internal/bridge"
	"graspctl/internal/config"
	"graspctl/internal/execution"
	"graspctl/internal/logging"
	"graspctl/internal/plan"
)

// App holds the dependencies shared by all commands.
type App struct {
	Config  *config.Config
	Session string

	Out io.Writer
	Err io.Writer

	// Runner overrides the command runner built from configuration.
	Runner execution.PhaseRunner

	// Publisher overrides the NATS connection built from configuration.
	Publisher bridge.Publisher

	logger   *logging.Logger
	plan     *plan.Plan
	planPath string
}

// NewApp creates an App for cfg writing to the process's standard streams.
func NewApp(cfg *config.Config) *App {
	return &App{
		Config:  cfg,
		Session: uuid.NewString(),
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
}

// ExecuteResult is the outcome of one command line invocation.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// NewRootCommand builds the command tree for app.
func NewRootCommand(app *App) *cobra.Command {
	var configPath, logLevel string

	root := &cobra.Command{
		Use:   "graspctl",
		Short: "Grasp selection control panel",
		Long: `graspctl drives a robotic grasping task: a fixed sequence of phases,
a set of candidate grasps to preview and choose from, and the numeric
parameters of the approach.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := config.NewLoader().LoadFromFile(configPath)
				if err != nil {
					return err
				}
				app.Config = cfg
			}
			if logLevel != "" {
				app.Config.Log.Level = logLevel
			}
			if err := app.Config.Validate(); err != nil {
				return err
			}
			if app.planPath != "" {
				p, err := plan.ReadFromFile(app.planPath)
				if err != nil {
					return err
				}
				app.plan = p
			}
			return nil
		},
	}
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: search GRASPCTL_CONFIG_PATH, user config dir, ./graspctl.yaml)")
	root.PersistentFlags().StringVar(&app.planPath, "plan", "", "phase plan CSV overriding the configured phases")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")

	root.AddCommand(
		newPanelCommand(app),
		newPhasesCommand(app),
		newGraspsCommand(app),
		newChooseCommand(app),
		newRunCommand(app),
	)
	return root
}

// Run executes the command line args against app.
func (a *App) Run(args []string) ExecuteResult {
	defer a.closeLogger()

	root := NewRootCommand(a)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(a.Err, "Error: %v\n", err)
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		return ExecuteResult{ExitCode: ExitFailure, Err: err}
	}
	return ExecuteResult{}
}

// RunWithConfig runs the process's command line with cfg.
func RunWithConfig(cfg *config.Config) ExecuteResult {
	return NewApp(cfg).Run(os.Args[1:])
}

// Execute loads configuration, runs the command line and exits the process
// with the resulting code.
func Execute() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(ExitFailure)
	}
	os.Exit(RunWithConfig(cfg).ExitCode)
}

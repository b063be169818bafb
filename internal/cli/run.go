package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"graspctl/internal/execution"
	"graspctl/internal/tui"
)

func newRunCommand(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run [phase...]",
		Short: "Run phases without the panel",
		Long: `Run the phase sequence headless, executing each phase's configured
command in order and stopping at the first failure.

With phase arguments only those phases run, in the order given.

Example:
  graspctl run
  graspctl run Approach Grasp
  graspctl run --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := app.newCoordinator()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if dryRun {
				for i, e := range execution.NewExecutor(coord, nil).Steps() {
					command, ok := app.commandFor(e.Name)
					if !ok {
						command = "(no command)"
					}
					fmt.Fprintf(out, "  [%d] %-12s %-10s %s\n", i+1, e.Name, tui.StatusLabel(e.Status), command)
				}
				return nil
			}

			b, _, closeBridge, err := app.connectBridge()
			if err != nil {
				return err
			}
			defer closeBridge()
			if b != nil {
				b.AttachPhases(coord)
			}

			exec := app.newExecutor(coord)
			exec.SetProgressCallback(func(i, total int, name string) {
				fmt.Fprintf(out, "[%d/%d] %s\n", i, total, name)
			})

			if len(args) > 0 {
				err = exec.RunPhases(cmd.Context(), args...)
			} else {
				err = exec.RunSequence(cmd.Context())
			}
			if errors.Is(err, execution.ErrSequenceComplete) {
				fmt.Fprintln(out, "Nothing to run")
				return nil
			}
			if err != nil {
				return WrapExitError(ExitFailure, err)
			}
			fmt.Fprintln(out, "All phases completed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the phases that would run")
	return cmd
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"graspctl/internal/phase"
	"graspctl/internal/tui"
)

func newPhasesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "phases",
		Short: "Show the phase sequence",
		Long: `Show the configured phase sequence with the initial status and the
command that runs each phase, followed by the status lifecycle.

Nothing is executed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := app.newCoordinator()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Phases (automatic transitions: %s)\n", onOff(coord.AutomaticTransitions()))
			for i, e := range coord.Entries() {
				command, ok := app.commandFor(e.Name)
				if !ok {
					command = "(operator)"
				}
				fmt.Fprintf(out, "  %d. %-12s %-10s %s\n", i+1, e.Name, tui.StatusLabel(e.Status), command)
			}

			fmt.Fprintln(out, "\nLifecycle:")
			for _, from := range phase.Statuses() {
				var next []string
				for _, to := range phase.Statuses() {
					if phase.CanTransition(from, to) {
						next = append(next, tui.StatusLabel(to))
					}
				}
				if len(next) > 0 {
					fmt.Fprintf(out, "  %-10s -> %s\n", tui.StatusLabel(from), strings.Join(next, ", "))
				}
			}
			return nil
		},
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

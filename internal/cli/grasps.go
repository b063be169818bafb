package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"graspctl/internal/candidates"
	"graspctl/internal/grasp"
	"graspctl/internal/tui"
)

func newGraspsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "grasps [file]",
		Short: "List grasp candidates",
		Long: `Load a candidate file and list the grasps with their reachability.

An explicit file argument always wins. Without one, GRASPCTL_CANDIDATES_PATH
is used, then the candidates path from the config file, then ./candidates.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := app.loadRegistry(firstArg(args))
			if err != nil {
				return err
			}
			printGrasps(cmd.OutOrStdout(), reg)
			return nil
		},
	}
}

func newChooseCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "choose <file> <grasp>",
		Short: "Choose a grasp from a candidate file",
		Long: `Load a candidate file and choose one grasp, publishing the choice over
the bridge when one is configured.

Exits with status 2 when the grasp exists but is not reachable.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := app.loadRegistry(args[0])
			if err != nil {
				return err
			}

			b, _, closeBridge, err := app.connectBridge()
			if err != nil {
				return err
			}
			defer closeBridge()
			if b != nil {
				b.AttachGrasps(reg)
			}

			name := args[1]
			if err := reg.RequestChoice(name); err != nil {
				if errors.Is(err, grasp.ErrNotReachable) {
					return WrapExitError(ExitNotReachable, err)
				}
				return err
			}
			app.Logger().Info("grasp chosen", "grasp", name)
			fmt.Fprintf(cmd.OutOrStdout(), "Chose %s\n", name)
			return nil
		},
	}
}

func (a *App) loadRegistry(path string) (*grasp.Registry, error) {
	f, err := a.candidateReader(path).Read()
	if err != nil {
		return nil, err
	}
	reg := grasp.NewRegistry()
	if err := candidates.Apply(reg, f); err != nil {
		return nil, err
	}
	return reg, nil
}

func printGrasps(w io.Writer, reg *grasp.Registry) {
	if reg.Len() == 0 {
		fmt.Fprintln(w, "No grasp candidates")
		return
	}
	for _, g := range reg.Entries() {
		fmt.Fprintf(w, "  %-16s %s\n", g.Name, tui.ReachabilityLabel(g.Reachable))
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

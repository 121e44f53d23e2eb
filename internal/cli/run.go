package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// newRunCmd forwards a command line to the server-side command endpoint,
// which creates the run bundle and appends it to the current worksheet.
func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [dep:uuid]... -- <command>...",
		Short: "Start a run on the current worksheet",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := newClient(app)
			if err != nil {
				return err
			}
			if cfg.Worksheet == "" {
				return errNoWorksheet{}
			}
			command := "run " + strings.Join(args, " ")
			res, err := c.ExecuteCommand(cmd.Context(), cfg.Worksheet, command)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	return cmd
}

func newPermCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "perm <bundle-uuid> <group> <read|all|none>",
		Short: "Set a group's permission on a bundle",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := newClient(app)
			if err != nil {
				return err
			}
			command := strings.Join(append([]string{"perm"}, args...), " ")
			res, err := c.ExecuteCommand(cmd.Context(), cfg.Worksheet, command)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
}

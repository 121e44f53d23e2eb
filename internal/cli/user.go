package cli

import (
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Account commands",
	}
	cmd.AddCommand(newUserShowCmd(app))
	cmd.AddCommand(newUserUpdateCmd(app))
	return cmd
}

func newUserShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the authenticated user and quota usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient(app)
			if err != nil {
				return err
			}
			u, err := c.FetchUser(cmd.Context())
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": u})
		},
	}
}

func newUserUpdateCmd(app *App) *cobra.Command {
	var email, affiliation string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update account profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient(app)
			if err != nil {
				return err
			}
			u, err := c.FetchUser(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("email") {
				u.Email = email
			}
			if cmd.Flags().Changed("affiliation") {
				u.Affiliation = affiliation
			}
			if err := c.UpdateUser(cmd.Context(), u); err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": u})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&affiliation, "affiliation", "", "Affiliation shown on your profile")
	return cmd
}

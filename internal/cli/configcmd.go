package cli

import (
	"sheets-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Client configuration",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			path, _ := config.Path()
			out := map[string]any{
				"path":      path,
				"server":    cfg.Server,
				"worksheet": cfg.Worksheet,
				"token_set": cfg.Token != "",
			}
			if cfg.FileSizeLimitGB > 0 {
				out["file_size_limit_gb"] = cfg.FileSizeLimitGB
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	var server, token, worksheet string
	var fileSizeLimitGB int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Persist configuration values to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Start from the file contents only: env and flag overrides
			// should not get baked into the file as a side effect.
			cfg, err := config.LoadFile()
			if err != nil {
				return err
			}
			changed := false
			if cmd.Flags().Changed("server") {
				cfg.Server = server
				changed = true
			}
			if cmd.Flags().Changed("token") {
				cfg.Token = token
				changed = true
			}
			if cmd.Flags().Changed("worksheet") {
				cfg.Worksheet = worksheet
				changed = true
			}
			if cmd.Flags().Changed("file-size-limit-gb") {
				cfg.FileSizeLimitGB = fileSizeLimitGB
				changed = true
			}
			if !changed {
				return cmd.Help()
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			path, _ := config.Path()
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"path": path}})
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token")
	cmd.Flags().StringVar(&worksheet, "worksheet", "", "Default worksheet uuid")
	cmd.Flags().IntVar(&fileSizeLimitGB, "file-size-limit-gb", 0, "Upload size cap in GB")
	return cmd
}

// Package cli wires the cobra command tree: scriptable subcommands for
// worksheets, bundles, runs and uploads, with the interactive TUI as the
// default when no subcommand is given.
package cli

import (
	"os"
	"strings"

	"sheets-cli/internal/config"
	"sheets-cli/internal/format"
	"sheets-cli/internal/rest"
	"sheets-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Server     string
	Token      string
	Worksheet  string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "sheets",
		Short:        "Worksheet platform CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the default worksheet in the interactive TUI
  sheets

  # Open a specific worksheet
  sheets --worksheet 0x1234

  # Scriptable commands
  sheets worksheets search .mine
  sheets bundles show 0xabcd
  sheets upload ./data.csv
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", "", "Server base URL (default: config / SHEETS_SERVER)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", "", "Bearer token (default: config / SHEETS_TOKEN)")
	cmd.PersistentFlags().StringVar(&app.Worksheet, "worksheet", "", "Worksheet uuid (default: config / SHEETS_WORKSHEET)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SHEETS_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newWorksheetsCmd(app))
	cmd.AddCommand(newBundlesCmd(app))
	cmd.AddCommand(newRunCmd(app))
	cmd.AddCommand(newUploadCmd(app))
	cmd.AddCommand(newPermCmd(app))
	cmd.AddCommand(newUserCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// loadConfig resolves the effective config: file, then env, then flags.
func loadConfig(app *App) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if app.Server != "" {
		cfg.Server = app.Server
	}
	if app.Token != "" {
		cfg.Token = app.Token
	}
	if app.Worksheet != "" {
		cfg.Worksheet = app.Worksheet
	}
	return cfg, nil
}

func newClient(app *App) (*rest.Client, config.Config, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, config.Config{}, err
	}
	if strings.TrimSpace(cfg.Server) == "" {
		return nil, cfg, errNoServer{}
	}
	c, err := rest.NewClient(cfg.Server, cfg.Token)
	if err != nil {
		return nil, cfg, err
	}
	return c, cfg, nil
}

func runTUI(app *App) error {
	c, cfg, err := newClient(app)
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Worksheet) == "" {
		return errNoWorksheet{}
	}
	return tui.Run(cfg, c, cfg.Worksheet)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

package cli

import (
	"strings"

	"sheets-cli/internal/rest"

	"github.com/spf13/cobra"
)

func newWorksheetsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worksheets",
		Short: "Worksheet commands",
	}
	cmd.AddCommand(newWorksheetsShowCmd(app))
	cmd.AddCommand(newWorksheetsSearchCmd(app))
	cmd.AddCommand(newWorksheetsCreateCmd(app))
	cmd.AddCommand(newWorksheetsAddTextCmd(app))
	cmd.AddCommand(newWorksheetsDeleteItemsCmd(app))
	return cmd
}

func newWorksheetsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <uuid>",
		Short: "Show a worksheet's interpreted blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient(app)
			if err != nil {
				return err
			}
			sheet, err := c.FetchWorksheet(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": sheet})
		},
	}
}

func newWorksheetsSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>...",
		Short: "Search worksheets by keyword (.mine, name=…, plain text)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient(app)
			if err != nil {
				return err
			}
			refs, err := c.SearchWorksheets(cmd.Context(), args)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": refs})
		},
	}
}

func newWorksheetsCreateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a worksheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient(app)
			if err != nil {
				return err
			}
			uuid, err := c.NewWorksheet(cmd.Context(), strings.TrimSpace(name))
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"uuid": uuid}})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Worksheet name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newWorksheetsAddTextCmd(app *App) *cobra.Command {
	var afterSortKey float64
	var hasAfter bool

	cmd := &cobra.Command{
		Use:   "add-text <text>...",
		Short: "Append text lines to the current worksheet",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := newClient(app)
			if err != nil {
				return err
			}
			if cfg.Worksheet == "" {
				return errNoWorksheet{}
			}
			req := rest.AddItemsRequest{Items: args}
			if hasAfter = cmd.Flags().Changed("after-sort-key"); hasAfter {
				req.AfterSortKey = &afterSortKey
			}
			if err := c.AddItems(cmd.Context(), cfg.Worksheet, req); err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": "ok"})
		},
	}

	cmd.Flags().Float64Var(&afterSortKey, "after-sort-key", 0, "Insert after this source sort key (default: append at tail)")
	return cmd
}

func newWorksheetsDeleteItemsCmd(app *App) *cobra.Command {
	var ids []int

	cmd := &cobra.Command{
		Use:   "delete-items",
		Short: "Delete source lines from the current worksheet by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := newClient(app)
			if err != nil {
				return err
			}
			if cfg.Worksheet == "" {
				return errNoWorksheet{}
			}
			if err := c.AddItems(cmd.Context(), cfg.Worksheet, rest.AddItemsRequest{IDs: ids}); err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": "ok"})
		},
	}

	cmd.Flags().IntSliceVar(&ids, "id", nil, "Source line id (repeatable)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

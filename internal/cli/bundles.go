package cli

import (
	"sort"

	"sheets-cli/internal/ws"

	"github.com/spf13/cobra"
)

func newBundlesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundles",
		Short: "Bundle commands",
	}
	cmd.AddCommand(newBundlesShowCmd(app))
	cmd.AddCommand(newBundlesSearchCmd(app))
	cmd.AddCommand(newBundlesUpdateCmd(app))
	cmd.AddCommand(newBundlesContentsCmd(app))
	cmd.AddCommand(newBundlesSummaryCmd(app))
	cmd.AddCommand(newBundlesStoresCmd(app))
	return cmd
}

func newBundlesShowCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <uuid>",
		Short: "Show bundle metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient(app)
			if err != nil {
				return err
			}
			b, err := c.FetchBundleMetadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if raw {
				return writeOut(cmd, app, map[string]any{"data": b})
			}
			// Rendered field view: same formatter the TUI panel uses.
			fields := ws.FormatBundle(b)
			names := make([]string, 0, len(fields))
			for k := range fields {
				names = append(names, k)
			}
			sort.Strings(names)
			out := make([]map[string]any, 0, len(names))
			for _, k := range names {
				fd := fields[k]
				if fd.Value == "" {
					continue
				}
				out = append(out, map[string]any{
					"name":     fd.Name,
					"value":    fd.Value,
					"editable": fd.Editable,
				})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Emit raw metadata instead of rendered fields")
	return cmd
}

func newBundlesSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>...",
		Short: "Search bundles by keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient(app)
			if err != nil {
				return err
			}
			refs, err := c.SearchBundles(cmd.Context(), args)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": refs})
		},
	}
}

func newBundlesUpdateCmd(app *App) *cobra.Command {
	var name, description, field, value string

	cmd := &cobra.Command{
		Use:   "update <uuid>",
		Short: "Update bundle metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient(app)
			if err != nil {
				return err
			}
			fields := map[string]any{}
			if cmd.Flags().Changed("name") {
				fields["name"] = name
			}
			if cmd.Flags().Changed("description") {
				fields["description"] = description
			}
			if field != "" {
				// Typed fields go through the same serializer the TUI uses.
				b, err := c.FetchBundleMetadata(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				parsed, err := ws.SerializeFormat(value, b.MetadataTypes[field])
				if err != nil {
					return err
				}
				fields[field] = parsed
			}
			if len(fields) == 0 {
				return cmd.Help()
			}
			if err := c.UpdateBundleMetadata(cmd.Context(), args[0], fields); err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": "ok"})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New bundle name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&field, "field", "", "Metadata field to set (with --value)")
	cmd.Flags().StringVar(&value, "value", "", "Value for --field")
	return cmd
}

func newBundlesContentsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "contents <uuid> [path]",
		Short: "List a bundle directory (depth 1)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient(app)
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 2 {
				path = args[1]
			}
			info, err := c.FetchBundleContents(cmd.Context(), args[0], path)
			if err != nil {
				return err
			}
			if info == nil {
				// Deleted or never-uploaded content is an empty result, not
				// an error.
				return writeOut(cmd, app, map[string]any{"data": nil})
			}
			return writeOut(cmd, app, map[string]any{"data": info})
		},
	}
}

func newBundlesSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <uuid> <path>",
		Short: "Print a head/tail summary of a file inside a bundle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient(app)
			if err != nil {
				return err
			}
			s, err := c.FetchFileSummary(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			cmd.Println(s)
			return nil
		},
	}
}

func newBundlesStoresCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stores <uuid>",
		Short: "List the storage locations holding a bundle's data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient(app)
			if err != nil {
				return err
			}
			stores, err := c.FetchBundleStores(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": stores})
		},
	}
}

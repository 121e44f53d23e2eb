package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sheets-cli/internal/limiter"
	"sheets-cli/internal/rest"
	"sheets-cli/internal/ws"

	"github.com/spf13/cobra"
)

// newUploadCmd creates one dataset bundle per file on the current worksheet
// and streams the blobs, a bounded number at a time. Progress is summed
// across files and goes to stderr so stdout stays scriptable.
func newUploadCmd(app *App) *cobra.Command {
	var name string
	var noUnpack bool

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload files as dataset bundles on the current worksheet",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := newClient(app)
			if err != nil {
				return err
			}
			if cfg.Worksheet == "" {
				return errNoWorksheet{}
			}
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--name only applies to a single file")
			}

			var total int64
			sizes := make([]int64, len(args))
			for i, path := range args {
				st, err := os.Stat(path)
				if err != nil {
					return err
				}
				if st.IsDir() {
					return fmt.Errorf("%s is a directory; zip it first or use the TUI upload flow", path)
				}
				sizes[i] = st.Size()
				total += st.Size()
			}
			if total > cfg.UploadLimitBytes() {
				return fmt.Errorf("upload exceeds the %dGB limit", cfg.UploadLimitBytes()>>30)
			}

			type result struct {
				UUID string `json:"uuid"`
				Name string `json:"name"`
			}
			results := make([]result, len(args))
			errs := make([]error, len(args))

			// One aggregated percent line across every in-flight file.
			var mu sync.Mutex
			loaded := make([]int64, len(args))
			lastPct := -1
			report := func(i int, n int64) {
				mu.Lock()
				defer mu.Unlock()
				loaded[i] = n
				var sum int64
				for _, l := range loaded {
					sum += l
				}
				if total <= 0 {
					return
				}
				if pct := int(sum * 100 / total); pct != lastPct {
					lastPct = pct
					fmt.Fprintf(cmd.ErrOrStderr(), "\ruploading %d file(s)… %d%%", len(args), pct)
				}
			}

			lim := limiter.New(limiter.DefaultMaxConcurrent)
			var wg sync.WaitGroup
			for i, path := range args {
				wg.Add(1)
				go func(i int, path string) {
					defer wg.Done()
					if err := lim.Acquire(cmd.Context()); err != nil {
						errs[i] = err
						return
					}
					defer lim.Release()

					filename := filepath.Base(path)
					bundleName := name
					if bundleName == "" {
						bundleName = ws.CreateDefaultBundleName(filename)
					}
					b, err := c.CreateBundle(cmd.Context(), cfg.Worksheet, ws.BundleTypeDataset,
						ws.DefaultBundleMetadata(bundleName), rest.CreateBundleOptions{})
					if err != nil {
						errs[i] = err
						return
					}

					f, err := os.Open(path)
					if err != nil {
						errs[i] = err
						return
					}
					defer f.Close()

					errs[i] = c.PutBundleBlob(cmd.Context(), b.UUID, f, sizes[i], rest.PutBlobOptions{
						Filename: filename,
						Unpack:   !noUnpack && ws.PathIsArchive(filename),
						Finalize: true,
						Progress: func(n, _ int64) { report(i, n) },
					})
					results[i] = result{UUID: b.UUID, Name: bundleName}
				}(i, path)
			}
			wg.Wait()
			fmt.Fprintln(cmd.ErrOrStderr())
			for _, err := range errs {
				if err != nil {
					return err
				}
			}
			return writeOut(cmd, app, map[string]any{"data": results})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Bundle name (default: derived from the filename)")
	cmd.Flags().BoolVar(&noUnpack, "no-unpack", false, "Store archives as-is instead of unpacking server-side")
	return cmd
}

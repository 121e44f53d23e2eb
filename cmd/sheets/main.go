package main

import (
	"os"
	"strings"

	"sheets-cli/internal/cli"
)

func isWorksheetSpec(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") {
		return false
	}
	// Keep it permissive; uuids are generated but users may paste prefixes.
	return len(s) > len("0x")
}

func rewriteDirectWorksheetArgs(argv []string) []string {
	// Convenience: `sheets <0x-uuid>` opens that worksheet in the TUI, like
	// `sheets --worksheet <0x-uuid>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite
	// argv before parsing.
	//
	// IMPORTANT: Users often pass persistent flags first (e.g.
	// `sheets --server ... <0x-uuid>`), so we must find the first positional
	// token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	// Minimal persistent-flag awareness. If we see flags we don't recognize,
	// we skip them (and do NOT try to skip their value) to avoid accidentally
	// consuming the worksheet uuid.
	valueFlags := map[string]bool{
		"--server":    true,
		"--token":     true,
		"--worksheet": true,
		"--format":    true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	for i := 1; i < len(argv); i++ {
		a := argv[i]
		if strings.HasPrefix(a, "--") {
			if boolFlags[a] || strings.Contains(a, "=") {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
				continue
			}
			continue
		}

		// First positional token.
		if isWorksheetSpec(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "--worksheet")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectWorksheetArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

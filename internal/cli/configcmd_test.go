package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runConfigCmd(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestConfigSetPersistsAndShowReflects(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SHEETS_SERVER", "")
	t.Setenv("SHEETS_TOKEN", "")
	t.Setenv("SHEETS_WORKSHEET", "")

	runConfigCmd(t, "config", "set",
		"--server", "https://sheets.example.org",
		"--token", "secret",
		"--worksheet", "0xhome")

	raw, err := os.ReadFile(filepath.Join(dir, "sheets", "config.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(raw), "server: https://sheets.example.org") {
		t.Fatalf("config file = %q, want the server persisted", raw)
	}

	out := runConfigCmd(t, "config", "show")
	if !strings.Contains(out, "https://sheets.example.org") || !strings.Contains(out, "0xhome") {
		t.Fatalf("show = %q, want the persisted values", out)
	}
	// The token itself never prints; only whether one is set.
	if strings.Contains(out, "secret") {
		t.Fatalf("show = %q, leaked the token", out)
	}
	if !strings.Contains(out, "token_set") {
		t.Fatalf("show = %q, want the token_set indicator", out)
	}
}

func TestConfigSetDoesNotBakeInEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SHEETS_SERVER", "https://env.example.org")

	runConfigCmd(t, "config", "set", "--worksheet", "0xonly")

	raw, err := os.ReadFile(filepath.Join(dir, "sheets", "config.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if strings.Contains(string(raw), "env.example.org") {
		t.Fatalf("config file = %q, env override persisted to disk", raw)
	}
	if !strings.Contains(string(raw), "worksheet: \"0xonly\"") && !strings.Contains(string(raw), "worksheet: 0xonly") {
		t.Fatalf("config file = %q, want the worksheet persisted", raw)
	}
}

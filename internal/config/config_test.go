package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesEnvOverFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SHEETS_SERVER", "")
	t.Setenv("SHEETS_TOKEN", "")
	t.Setenv("SHEETS_WORKSHEET", "")
	t.Setenv("SHEETS_FILE_SIZE_LIMIT_GB", "")

	raw := "server: https://file.example.org\ntoken: filetok\nworksheet: 0xfile\n"
	if err := os.MkdirAll(filepath.Join(dir, "sheets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sheets", "config.yaml"), []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "https://file.example.org" || cfg.Worksheet != "0xfile" {
		t.Fatalf("cfg = %+v, want the file values", cfg)
	}

	t.Setenv("SHEETS_SERVER", "https://env.example.org")
	t.Setenv("SHEETS_FILE_SIZE_LIMIT_GB", "5")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "https://env.example.org" {
		t.Fatalf("server = %q, want the env override", cfg.Server)
	}
	if cfg.Token != "filetok" {
		t.Fatalf("token = %q, want the file value kept", cfg.Token)
	}
	if cfg.FileSizeLimitGB != 5 {
		t.Fatalf("limit = %d, want 5", cfg.FileSizeLimitGB)
	}
}

func TestLoadFileSkipsEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SHEETS_SERVER", "https://env.example.org")

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server != "" {
		t.Fatalf("server = %q, want env ignored", cfg.Server)
	}
}

func TestMissingConfigFileIsNotAnError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SHEETS_SERVER", "")
	t.Setenv("SHEETS_TOKEN", "")
	t.Setenv("SHEETS_WORKSHEET", "")
	t.Setenv("SHEETS_FILE_SIZE_LIMIT_GB", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != (Config{}) {
		t.Fatalf("cfg = %+v, want zero config", cfg)
	}
}

func TestSaveRoundTrips(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := Config{Server: "https://s.example.org", Token: "tok", Worksheet: "0xws", FileSizeLimitGB: 2}
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestUploadLimitBytes(t *testing.T) {
	if got := (Config{}).UploadLimitBytes(); got != FileSizeLimitB {
		t.Fatalf("default limit = %d, want %d", got, FileSizeLimitB)
	}
	if got := (Config{FileSizeLimitGB: 2}).UploadLimitBytes(); got != 2<<30 {
		t.Fatalf("override limit = %d, want %d", got, int64(2)<<30)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withWorkingDir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoadDefaults(t *testing.T) {
	withWorkingDir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Defaults.MakeBaseFile != "make_base.json" {
		t.Errorf("MakeBaseFile = %q, want make_base.json", cfg.Defaults.MakeBaseFile)
	}
	if cfg.Defaults.ResultFile != "result.json" {
		t.Errorf("ResultFile = %q, want result.json", cfg.Defaults.ResultFile)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	withWorkingDir(t, dir)

	yaml := "log:\n  level: debug\n  format: text\ndefaults:\n  result_file: out.json\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Defaults.ResultFile != "out.json" {
		t.Errorf("Defaults.ResultFile = %q, want out.json", cfg.Defaults.ResultFile)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	withWorkingDir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRANSITCAT_LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error (env should win over file)", cfg.Log.Level)
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := &Config{
		Log:      LogConfig{Level: "verbose", Format: "json"},
		Defaults: DefaultsConfig{MakeBaseFile: "a", ProcessRequestsFile: "b", ResultFile: "c"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject an unrecognized log level")
	}
}

func TestValidateRejectsMissingDefaults(t *testing.T) {
	cfg := &Config{
		Log: LogConfig{Level: "info", Format: "json"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject missing default file names")
	}
}

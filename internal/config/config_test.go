package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/vitalflow/internal/constants"
)

// isolate clears the variables Load reads and points the dotenv lookup at
// an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{
		constants.EnvStore, constants.EnvIDScheme, constants.EnvTimezone,
		constants.EnvDebug, constants.EnvCoachModel, constants.EnvGeminiAPIKey,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv(constants.EnvDotenvPath, "")
	os.Unsetenv(constants.EnvDotenvPath)
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "missing.yaml"), Flags{}); err == nil {
		t.Fatal("expected an error for an explicit missing config file")
	}

	t.Setenv("HOME", dir)
	cfg, err := Load("", Flags{})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.IDScheme != constants.IDSchemeSequence || cfg.Coach.Model != constants.DefaultCoachModel {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if want := filepath.Join(dir, ".config", "vitalflow", "vitalflow.db"); cfg.Store != want {
		t.Errorf("Store = %q, want %q", cfg.Store, want)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "config.yaml"), `
store: /data/from-file.db
idScheme: uuid
timezone: UTC
logLevel: warn
coach:
  model: file-model
  timeout: 45s
  apiKey: file-key
`)
	writeFile(t, filepath.Join(dir, ".env"), "VITALFLOW_COACH_MODEL=dotenv-model\nGEMINI_API_KEY=dotenv-key\n")
	t.Setenv(constants.EnvGeminiAPIKey, "env-key")

	cfg, err := Load(path, Flags{Store: "/data/from-flag.json"})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Store != "/data/from-flag.json" {
		t.Errorf("Store = %q, flag should win", cfg.Store)
	}
	if cfg.IDScheme != constants.IDSchemeUUID || cfg.Timezone != "UTC" || cfg.LogLevel != "warn" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Coach.Timeout != 45*time.Second {
		t.Errorf("Coach.Timeout = %v, want 45s", cfg.Coach.Timeout)
	}
	if cfg.Coach.Model != "dotenv-model" {
		t.Errorf("Coach.Model = %q, dotenv should override the file", cfg.Coach.Model)
	}
	if cfg.Coach.APIKey != "env-key" {
		t.Errorf("Coach.APIKey = %q, the environment should win over .env", cfg.Coach.APIKey)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		constants.EnvStore:    "postgres://me@localhost/vitalflow",
		constants.EnvDebug:    "true",
		constants.EnvTimezone: "Europe/Sofia",
	}
	cfg := Default()
	cfg.applyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if cfg.Store != env[constants.EnvStore] || !cfg.Debug || cfg.Timezone != "Europe/Sofia" {
		t.Errorf("env not applied: %+v", cfg)
	}

	cfg = Default()
	cfg.applyEnv(func(key string) (string, bool) {
		if key == constants.EnvDebug {
			return "not-a-bool", true
		}
		return "", false
	})
	if cfg.Debug {
		t.Error("an unparsable VITALFLOW_DEBUG should be ignored")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Config) {}, ok: true},
		{name: "bad id scheme", mutate: func(c *Config) { c.IDScheme = "random" }},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }},
		{name: "zero timeout", mutate: func(c *Config) { c.Coach.Timeout = 0 }},
		{name: "empty store", mutate: func(c *Config) { c.Store = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestInvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "config.yaml"), "store: [unclosed")
	if _, err := Load(path, Flags{}); err == nil {
		t.Error("expected a parse error")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	tests := map[string]string{
		"~/vitalflow.db":          "/home/tester/vitalflow.db",
		"/abs/vitalflow.db":       "/abs/vitalflow.db",
		"postgres://u@h/db":       "postgres://u@h/db",
		"relative/vitalflow.json": "relative/vitalflow.json",
		"~other/vitalflow.db":     "~other/vitalflow.db",
	}
	for in, want := range tests {
		if got := ExpandPath(in); got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	cfg := Default()
	cfg.Store = "/data/vitalflow.db"
	if got := cfg.ConfigDir(); got != "/data" {
		t.Errorf("ConfigDir() = %q", got)
	}
	cfg.Store = "postgres://u@h/db"
	if got := cfg.ConfigDir(); got == "" || IsPostgres(got) {
		t.Errorf("ConfigDir() for postgres = %q", got)
	}
}

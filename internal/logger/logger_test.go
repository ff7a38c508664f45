package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesLogFile(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { Close(); Logger = nil })

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("Test warning message", "key", "value")

	logFile := filepath.Join(configDir, "logs", "vitalflow.log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file was not written: %v", err)
	}
	if !strings.Contains(string(data), "Test warning message") {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantDebug bool
		wantInfo  bool
	}{
		{name: "default is warn", cfg: Config{}, wantDebug: false, wantInfo: false},
		{name: "debug flag", cfg: Config{Debug: true}, wantDebug: true, wantInfo: true},
		{name: "explicit info", cfg: Config{Level: "INFO"}, wantDebug: false, wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.cfg.Output = &buf
			t.Cleanup(func() { Logger = nil })
			if err := Init(tt.cfg); err != nil {
				t.Fatal(err)
			}

			Debug("debug line")
			Info("info line")
			Error("error line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if !strings.Contains(out, "error line") {
				t.Error("error line not logged")
			}
			if !strings.Contains(out, "vitalflow") {
				t.Error("prefix missing from output")
			}
		})
	}
}

func TestInvalidLevel(t *testing.T) {
	if err := Init(Config{Level: "loud", Output: &bytes.Buffer{}}); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

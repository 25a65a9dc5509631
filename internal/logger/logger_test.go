package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantLevel log.Level
	}{
		{"file only", Config{}, log.WarnLevel},
		{"serve mode", Config{Stderr: true}, log.InfoLevel},
		{"debug", Config{Debug: true}, log.DebugLevel},
		{"debug wins over serve", Config{Debug: true, Stderr: true}, log.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() { Logger = nil })
			tt.cfg.ConfigDir = filepath.Join(t.TempDir(), "config")

			if err := Init(tt.cfg); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			if Logger == nil {
				t.Fatal("Logger is nil after initialization")
			}
			if got := Logger.GetLevel(); got != tt.wantLevel {
				t.Errorf("level = %v, want %v", got, tt.wantLevel)
			}
			if _, err := os.Stat(filepath.Dir(LogPath(tt.cfg.ConfigDir))); err != nil {
				t.Errorf("log directory was not created: %v", err)
			}
		})
	}
}

func TestLogPath(t *testing.T) {
	got := LogPath("/tmp/cfg")
	if !strings.HasSuffix(got, filepath.Join("logs", "shiftledger.log")) {
		t.Errorf("LogPath() = %q", got)
	}
}

func TestWritesToFile(t *testing.T) {
	t.Cleanup(func() { Logger = nil })
	dir := t.TempDir()
	if err := Init(Config{ConfigDir: dir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Warn("cap exceeded", "entry_id", "e1")
	Debug("hidden at warn level")

	data, err := os.ReadFile(LogPath(dir))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "cap exceeded") || !strings.Contains(string(data), "entry_id=e1") {
		t.Errorf("log file = %q, want warn line with entry_id", data)
	}
	if strings.Contains(string(data), "hidden at warn level") {
		t.Error("debug line written at warn level")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// None of these may panic before Init.
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	With("request_id", "r1").Info("discarded")
}

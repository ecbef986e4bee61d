package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildLogger(t *testing.T) {
	tests := []struct {
		name     string
		conf     LoggingConfig
		override string
		wantErr  bool
	}{
		{name: "defaults"},
		{name: "console debug", conf: LoggingConfig{Level: "debug", Format: "console"}},
		{name: "override wins", conf: LoggingConfig{Level: "bogus"}, override: "warn"},
		{name: "invalid level", conf: LoggingConfig{Level: "loud"}, wantErr: true},
		{name: "invalid format", conf: LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := BuildLogger(tt.conf, tt.override)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildLogger() error = %v", err)
			}
			_ = logger.Sync()
		})
	}
}

func TestBuildLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "projection.log")
	logger, err := BuildLogger(LoggingConfig{Level: "info", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("BuildLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log output in file")
	}
}

package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// t.Setenv clears and restores; an empty value falls through to the
	// defaults for every variable
	for _, key := range GetEnvVars() {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Port = %s, want 8000", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Address = %s, want 127.0.0.1", cfg.Address)
	}
	if cfg.Env != "dev" {
		t.Errorf("Env = %s, want dev", cfg.Env)
	}
	if cfg.DataDir != "files" {
		t.Errorf("DataDir = %s, want files", cfg.DataDir)
	}
	if !strings.HasSuffix(cfg.ModelPath, ".json") {
		t.Errorf("Default ModelPath should be a json artifact, got %s", cfg.ModelPath)
	}
	if cfg.ScorerWorkers != 0 {
		t.Errorf("ScorerWorkers = %d, want 0 (GOMAXPROCS)", cfg.ScorerWorkers)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"privileged port", "PORT", "80"},
		{"non-numeric port", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"public address", "ADDRESS", "8.8.8.8"},
		{"bad address", "ADDRESS", "not-an-ip"},
		{"unknown env", "ENV", "production!"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"zero retention", "LOG_RETENTION_WEEKS", "0"},
		{"retention too long", "LOG_RETENTION_WEEKS", "104"},
		{"tiny log file limit", "MAX_LOG_FILE_SIZE", "1"},
		{"negative worker count", "SCORER_WORKERS", "-2"},
		{"negative class count", "MODEL_CLASS_COUNT", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range GetEnvVars() {
				t.Setenv(key, "")
			}
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected Load to reject %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadOnnxRequiresRuntimeLibrary(t *testing.T) {
	for _, key := range GetEnvVars() {
		t.Setenv(key, "")
	}
	t.Setenv("MODEL_PATH", "model/severity.onnx")

	if _, err := Load(); err == nil {
		t.Fatal("An onnx model without ORT_LIBRARY must be rejected")
	}

	t.Setenv("ORT_LIBRARY", "/usr/lib/libonnxruntime.so")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OrtLibrary == "" {
		t.Error("OrtLibrary should carry the configured path")
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		address string
		wantErr bool
	}{
		{"127.0.0.1", false},
		{"localhost", false},
		{"::1", false},
		{"192.168.1.10", false},
		{"10.0.0.5", false},
		{"8.8.8.8", true},
		{"", true},
		{"example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			err := validateAddress(tt.address)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAddress(%q) error = %v, wantErr %v", tt.address, err, tt.wantErr)
			}
		})
	}
}

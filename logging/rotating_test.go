package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetWeekKey(t *testing.T) {
	// ISO week boundaries: Jan 1 2026 falls in week 1, Dec 29 2025 too
	tests := []struct {
		name     string
		time     time.Time
		expected string
	}{
		{"mid year", time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC), "2026-W25"},
		{"iso week of previous year", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W53"},
		{"iso week of next year", time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC), "2026-W01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getWeekKey(tt.time); got != tt.expected {
				t.Errorf("getWeekKey(%v) = %s, want %s", tt.time, got, tt.expected)
			}
		})
	}
}

func TestRotatingLoggerWrites(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 4, 1024*1024)
	defer rl.Close()

	msg := []byte("first log line\n")
	n, err := rl.Write(msg)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(msg) {
		t.Errorf("Write returned %d, want %d", n, len(msg))
	}

	week := getWeekKey(time.Now())
	content, err := os.ReadFile(filepath.Join(dir, "app-"+week+".log"))
	if err != nil {
		t.Fatalf("Expected the weekly log file: %v", err)
	}
	if !strings.Contains(string(content), "first log line") {
		t.Errorf("Log file content = %q", content)
	}
}

func TestRotatingLoggerSizeRollover(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 4, 64)
	defer rl.Close()

	line := []byte(strings.Repeat("x", 40) + "\n")
	for i := 0; i < 3; i++ {
		if _, err := rl.Write(line); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) < 2 {
		t.Errorf("Expected a size rollover to open a second file, got %d files", len(entries))
	}

	// The rollover file carries a sequence suffix
	week := getWeekKey(time.Now())
	if _, err := os.Stat(filepath.Join(dir, "app-"+week+"_01.log")); err != nil {
		t.Errorf("Expected sequence-suffixed file: %v", err)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1, 1024)
	defer rl.Close()

	stale := filepath.Join(dir, "app-2020-W01.log")
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	old := time.Now().Add(-14 * 24 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	fresh := filepath.Join(dir, "app-"+getWeekKey(time.Now())+".log")
	if err := os.WriteFile(fresh, []byte("new"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := rl.cleanupOldLogs(); err != nil {
		t.Fatalf("cleanupOldLogs: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Stale log file should have been removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("Fresh log file must survive cleanup")
	}
}

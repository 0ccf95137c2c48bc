package domain

import (
	"testing"
	"time"
)

func TestNewInputFile(t *testing.T) {
	cases := []struct {
		path     string
		wantSet  bool
		wantName string
	}{
		{"", false, ""},
		{"   ", false, ""},
		{"players.csv", true, "players.csv"},
		{"data/2024/constraints.csv", true, "constraints.csv"},
	}
	for _, c := range cases {
		f := NewInputFile(c.path)
		if f.IsSet() != c.wantSet {
			t.Errorf("NewInputFile(%q).IsSet() = %v, want %v", c.path, f.IsSet(), c.wantSet)
		}
		if f.Name != c.wantName {
			t.Errorf("NewInputFile(%q).Name = %q, want %q", c.path, f.Name, c.wantName)
		}
	}
}

func TestOutputRefIsEmpty(t *testing.T) {
	if !OutputRef("").IsEmpty() {
		t.Error("expected empty ref")
	}
	if !OutputRef("  ").IsEmpty() {
		t.Error("expected blank ref to be empty")
	}
	if OutputRef("result-42.csv").IsEmpty() {
		t.Error("expected non-empty ref")
	}
}

func TestSubmissionDuration(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s := Submission{StartedAt: start, EndedAt: start.Add(1500 * time.Millisecond)}
	if got := s.Duration(); got != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %s", got)
	}
	if (Submission{StartedAt: start}).Duration() != 0 {
		t.Fatalf("expected 0 when EndedAt is missing")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.UploadPath != "/api/upload" {
		t.Errorf("unexpected upload path %q", cfg.Server.UploadPath)
	}
	if cfg.Server.DownloadPath != "/api/download" {
		t.Errorf("unexpected download path %q", cfg.Server.DownloadPath)
	}
	if cfg.Server.OutputField != "$.output_file" {
		t.Errorf("unexpected output field %q", cfg.Server.OutputField)
	}
	if !cfg.History.Enabled {
		t.Errorf("expected history enabled by default")
	}
}

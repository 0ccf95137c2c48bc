package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aalvaropc/teamsort/internal/domain"
)

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, "teamsort.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	root := t.TempDir()

	// Partial config (only history)
	writeConfig(t, root, "teamsort:\n  history:\n    enabled: false\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.History.Enabled {
		t.Fatalf("expected history disabled")
	}
	if cfg.Server.BaseURL != "http://localhost:5000" {
		t.Fatalf("expected default base url, got=%s", cfg.Server.BaseURL)
	}
	if cfg.Server.UploadPath != "/api/upload" {
		t.Fatalf("expected default upload path, got=%s", cfg.Server.UploadPath)
	}
	if cfg.Server.OutputField != "$.output_file" {
		t.Fatalf("expected default output field, got=%s", cfg.Server.OutputField)
	}
	if cfg.Server.Timeout != 60*time.Second {
		t.Fatalf("expected default timeout, got=%s", cfg.Server.Timeout)
	}
	if cfg.Paths.HistoryDir != ".teamsort/history" {
		t.Fatalf("expected default history dir, got=%s", cfg.Paths.HistoryDir)
	}
}

func TestLoadConfig_ParsesServerBlock(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `teamsort:
  server:
    base_url: https://sort.example.org
    upload_path: /v2/upload
    download_path: /v2/files
    output_field: $.result.file
    timeout: 15s
  paths:
    downloads_dir: out
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	s := cfg.Server
	if s.BaseURL != "https://sort.example.org" || s.UploadPath != "/v2/upload" || s.DownloadPath != "/v2/files" {
		t.Fatalf("unexpected server config: %+v", s)
	}
	if s.OutputField != "$.result.file" {
		t.Fatalf("expected output field, got=%s", s.OutputField)
	}
	if s.Timeout != 15*time.Second {
		t.Fatalf("expected 15s, got=%s", s.Timeout)
	}
	if cfg.Paths.DownloadsDir != "out" {
		t.Fatalf("expected downloads dir=out, got=%s", cfg.Paths.DownloadsDir)
	}
	if !cfg.History.Enabled {
		t.Fatalf("expected history enabled by default")
	}
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "teamsort:\n  server:\n    timeout: soon\n")

	_, err := LoadConfig(root)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "teamsort: [\n")

	_, err := LoadConfig(root)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestResolve_DotenvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "teamsort:\n  server:\n    base_url: http://from-yaml\n")
	dotenv := "TEAMSORT_SERVER=http://from-dotenv\nTEAMSORT_TIMEOUT=5s\n"
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.Server.BaseURL != "http://from-dotenv" {
		t.Fatalf("expected dotenv base url, got=%s", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout != 5*time.Second {
		t.Fatalf("expected 5s, got=%s", cfg.Server.Timeout)
	}
}

func TestResolve_ProcessEnvWins(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte("TEAMSORT_SERVER=http://from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv(EnvServer, "http://from-env")
	t.Setenv(EnvHistory, "false")

	cfg, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.Server.BaseURL != "http://from-env" {
		t.Fatalf("expected env base url, got=%s", cfg.Server.BaseURL)
	}
	if cfg.History.Enabled {
		t.Fatalf("expected history disabled by env")
	}
}

func TestResolve_NoConfigUsesDefaults(t *testing.T) {
	cfg, err := Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg != domain.DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestApplyEnv_InvalidTimeout(t *testing.T) {
	t.Setenv(EnvTimeout, "-1s")

	_, err := ApplyEnv(domain.DefaultConfig(), t.TempDir())
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
}

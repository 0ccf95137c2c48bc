package workspacefinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/teamsort/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads teamsort.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	s := y.Teamsort.Server
	if s.BaseURL != "" {
		cfg.Server.BaseURL = s.BaseURL
	}
	if s.UploadPath != "" {
		cfg.Server.UploadPath = s.UploadPath
	}
	if s.DownloadPath != "" {
		cfg.Server.DownloadPath = s.DownloadPath
	}
	if s.OutputField != "" {
		cfg.Server.OutputField = s.OutputField
	}
	if s.Timeout != "" {
		d, err := parseTimeout(s.Timeout)
		if err != nil {
			return cfg, &domain.OpError{
				Op:   "workspacefinder.loadconfig",
				Kind: domain.KindInvalidConfig,
				Path: path,
				Err:  fmt.Errorf("field teamsort.server.timeout: %w", err),
			}
		}
		cfg.Server.Timeout = d
	}
	if y.Teamsort.History.Enabled != nil {
		cfg.History.Enabled = *y.Teamsort.History.Enabled
	}
	if y.Teamsort.Paths.HistoryDir != "" {
		cfg.Paths.HistoryDir = y.Teamsort.Paths.HistoryDir
	}
	if y.Teamsort.Paths.LogsDir != "" {
		cfg.Paths.LogsDir = y.Teamsort.Paths.LogsDir
	}
	if y.Teamsort.Paths.DownloadsDir != "" {
		cfg.Paths.DownloadsDir = y.Teamsort.Paths.DownloadsDir
	}

	return cfg, nil
}

// Resolve loads the effective configuration for root: teamsort.yaml when present
// (defaults otherwise), then .env in root, then the process environment.
func Resolve(root string) (domain.Config, error) {
	cfg, err := LoadConfig(root)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	return ApplyEnv(cfg, root)
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

type yamlConfig struct {
	Teamsort struct {
		Server struct {
			BaseURL      string `yaml:"base_url"`
			UploadPath   string `yaml:"upload_path"`
			DownloadPath string `yaml:"download_path"`
			OutputField  string `yaml:"output_field"`
			Timeout      string `yaml:"timeout"`
		} `yaml:"server"`

		History struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"history"`

		Paths struct {
			HistoryDir   string `yaml:"history_dir"`
			LogsDir      string `yaml:"logs_dir"`
			DownloadsDir string `yaml:"downloads_dir"`
		} `yaml:"paths"`
	} `yaml:"teamsort"`
}

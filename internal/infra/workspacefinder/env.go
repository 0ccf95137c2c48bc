package workspacefinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aalvaropc/teamsort/internal/domain"
)

// Environment variables that override teamsort.yaml.
const (
	EnvServer  = "TEAMSORT_SERVER"
	EnvTimeout = "TEAMSORT_TIMEOUT"
	EnvHistory = "TEAMSORT_HISTORY"
)

const dotenvFile = ".env"

// ApplyEnv overlays values from <root>/.env and then from the process
// environment. A missing .env is not an error.
func ApplyEnv(cfg domain.Config, root string) (domain.Config, error) {
	vals := map[string]string{}

	path := filepath.Join(root, dotenvFile)
	fromFile, err := godotenv.Read(path)
	switch {
	case err == nil:
		for k, v := range fromFile {
			vals[k] = v
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, &domain.OpError{
			Op:   "workspacefinder.applyenv",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	for _, k := range []string{EnvServer, EnvTimeout, EnvHistory} {
		if v, ok := os.LookupEnv(k); ok {
			vals[k] = v
		}
	}

	if v := strings.TrimSpace(vals[EnvServer]); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := strings.TrimSpace(vals[EnvTimeout]); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return cfg, &domain.OpError{
				Op:   "workspacefinder.applyenv",
				Kind: domain.KindInvalidConfig,
				Err:  fmt.Errorf("%s: %w", EnvTimeout, err),
			}
		}
		cfg.Server.Timeout = d
	}
	if v := strings.TrimSpace(vals[EnvHistory]); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, &domain.OpError{
				Op:   "workspacefinder.applyenv",
				Kind: domain.KindInvalidConfig,
				Err:  fmt.Errorf("%s: %w", EnvHistory, err),
			}
		}
		cfg.History.Enabled = on
	}

	return cfg, nil
}

package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aalvaropc/teamsort/internal/domain"
)

// ConfigFileName is the marker file of a teamsort workspace.
const ConfigFileName = "teamsort.yaml"

// Location describes a workspace found on disk.
type Location struct {
	Root       string
	ConfigPath string
	// EnvPath is the .env next to the config, empty when there is none.
	EnvPath string
}

// Finder locates a teamsort workspace root by searching for teamsort.yaml upward.
type Finder struct {
	ConfigFile string // defaults to "teamsort.yaml"
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: ConfigFileName}
}

func (f *Finder) FindRoot(startDir string) (string, error) {
	loc, err := f.Locate(startDir)
	if err != nil {
		return "", err
	}
	return loc.Root, nil
}

// Locate walks up from startDir (or its directory when it names a file) to the
// first directory holding the config file.
func (f *Finder) Locate(startDir string) (Location, error) {
	const op = "workspacefinder.locate"
	if startDir == "" {
		return Location{}, &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Err: errors.New("startDir is empty")}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return Location{}, &domain.OpError{Op: op, Kind: domain.KindExecution, Err: err}
	}

	// players.csv inside a workspace resolves to that workspace
	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	name := f.ConfigFile
	if name == "" {
		name = ConfigFileName
	}

	for cur := filepath.Clean(abs); ; {
		cfgPath := filepath.Join(cur, name)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return Location{Root: cur, ConfigPath: cfgPath, EnvPath: EnvFileAt(cur)}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return Location{}, &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: abs, Err: domain.ErrNotFound}
		}
		cur = parent
	}
}

// EnvFileAt returns root/.env when it exists as a regular file.
func EnvFileAt(root string) string {
	p := filepath.Join(root, dotenvFile)
	if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
		return p
	}
	return ""
}

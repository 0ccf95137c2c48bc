package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/teamsort/internal/buildinfo"
	"github.com/aalvaropc/teamsort/internal/domain"
	"github.com/aalvaropc/teamsort/internal/infra/history"
	"github.com/aalvaropc/teamsort/internal/infra/logger"
	"github.com/aalvaropc/teamsort/internal/infra/sortapi"
	"github.com/aalvaropc/teamsort/internal/infra/workspacefinder"
	"github.com/aalvaropc/teamsort/internal/usecase"
)

type workspaceCtx struct {
	root  string
	found bool // false when running outside any teamsort workspace
	cfg   domain.Config

	envFile string // empty without a .env in root

	history *history.JSONStore
}

// loadWorkspace resolves the workspace root and its configuration. Without a
// workspace the working directory is used with default configuration.
func loadWorkspace(opts *rootOptions) (*workspaceCtx, error) {
	root, found, err := resolveWorkspaceRoot(opts.workspace)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.Resolve(root)
	if err != nil {
		return nil, err
	}
	if s := strings.TrimSpace(opts.server); s != "" {
		cfg.Server.BaseURL = s
	}

	return &workspaceCtx{
		root:    root,
		found:   found,
		cfg:     cfg,
		envFile: workspacefinder.EnvFileAt(root),
		history: history.NewJSONStore(root, cfg),
	}, nil
}

// newClient builds the backend adapter. Call it after setupLogging.
func (ws *workspaceCtx) newClient(extra ...sortapi.Option) *sortapi.Client {
	opts := []sortapi.Option{
		sortapi.WithUserAgent(buildinfo.UserAgent()),
		sortapi.WithLogger(logger.L()),
	}
	return sortapi.New(ws.cfg.Server, append(opts, extra...)...)
}

// newController must run after setupLogging so the controller picks up the file logger.
func newController(ws *workspaceCtx, client *sortapi.Client) *usecase.Controller {
	opts := []usecase.ControllerOption{
		usecase.WithLogger(logger.L()),
		usecase.WithServerLabel(ws.cfg.Server.BaseURL),
	}
	if ws.history.Enabled() {
		opts = append(opts, usecase.WithRecorder(ws.history))
	}
	return usecase.NewController(client, opts...)
}

// setupLogging starts the file logger under the workspace. Logging failures
// never block a command.
func setupLogging(ws *workspaceCtx, debug bool) func() error {
	cleanup, err := logger.Setup(logger.Config{
		Root:    ws.root,
		Dir:     ws.cfg.Paths.LogsDir,
		Debug:   debug,
		Version: buildinfo.Version,
	})
	if err != nil || cleanup == nil {
		return func() error { return nil }
	}
	logger.L().Debug("workspace.loaded",
		"root", ws.root,
		"found", ws.found,
		"env_file", ws.envFile,
		"server", ws.cfg.Server.BaseURL,
	)
	return cleanup
}

func (ws *workspaceCtx) downloadsDir() string {
	dir := ws.cfg.Paths.DownloadsDir
	if dir == "" {
		return ws.root
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(ws.root, filepath.FromSlash(dir))
}

func resolveWorkspaceRoot(workspaceFlag string) (root string, found bool, err error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", false, fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, true, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("get working directory: %w", err)
	}
	wd, _ = filepath.Abs(wd)

	locator := workspacefinder.NewFinder()
	root, err = locator.FindRoot(wd)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return wd, false, nil
		}
		return "", false, err
	}
	return root, true, nil
}

// resolveInput makes relative input paths absolute against the working directory.
func resolveInput(p string) (domain.InputFile, error) {
	in := strings.TrimSpace(p)
	if in == "" {
		return domain.InputFile{}, nil
	}
	abs, err := filepath.Abs(in)
	if err != nil {
		return domain.InputFile{}, fmt.Errorf("invalid path %q: %w", in, err)
	}
	return domain.NewInputFile(abs), nil
}

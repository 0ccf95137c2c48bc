package tui

import (
	"context"
	"log/slog"

	"github.com/aalvaropc/teamsort/internal/domain"
	"github.com/aalvaropc/teamsort/internal/ports"
	"github.com/aalvaropc/teamsort/internal/usecase"
)

// Workflow is the part of the upload controller the form drives.
type Workflow interface {
	SelectPlayersFile(f domain.InputFile)
	SelectConstraintsFile(f domain.InputFile)
	State() usecase.State
	SubmitAsync(ctx context.Context) <-chan usecase.SubmitOutcome
	SaveOutput(ctx context.Context, dir string, opts ...usecase.SaveOption) (string, error)
}

type Deps struct {
	Workflow Workflow

	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer

	// DownloadsDir receives saved outputs; "." when empty.
	DownloadsDir string

	Logger *slog.Logger
	Debug  bool
}

var _ Workflow = (*usecase.Controller)(nil)

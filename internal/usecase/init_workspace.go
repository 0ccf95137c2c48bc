package usecase

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/teamsort/internal/domain"
	"github.com/aalvaropc/teamsort/internal/ports"
)

// InitWorkspace creates the teamsort.yaml skeleton and state directories.
type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

func (uc *InitWorkspace) Execute(root string, force bool) error {
	root = strings.TrimSpace(root)
	if root == "" {
		return &domain.OpError{
			Op:   "usecase.init_workspace",
			Kind: domain.KindInvalidInput,
			Err:  errors.Join(domain.ErrInvalidInput, errors.New("workspace root is empty")),
		}
	}
	return uc.initializer.Init(domain.WorkspaceSpec{Root: filepath.Clean(root)}, force)
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/teamsort/internal/domain"
	"github.com/aalvaropc/teamsort/internal/usecase"
)

const toastTTL = 5 * time.Second

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

// startSubmit marks the workflow busy synchronously and returns a command that
// waits for the outcome.
func startSubmit(w Workflow) tea.Cmd {
	ch := w.SubmitAsync(context.Background())
	return listenSubmit(ch)
}

func listenSubmit(ch <-chan usecase.SubmitOutcome) tea.Cmd {
	return func() tea.Msg {
		out, ok := <-ch
		if !ok {
			return submitDoneMsg{outcome: usecase.SubmitOutcome{Err: errors.New("submit channel closed")}}
		}
		return submitDoneMsg{outcome: out}
	}
}

func cmdSaveOutput(w Workflow, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := w.SaveOutput(context.Background(), dir)
		return saveDoneMsg{path: path, err: err}
	}
}

func cmdClearToast(seq int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}

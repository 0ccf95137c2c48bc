package tui

import "github.com/aalvaropc/teamsort/internal/usecase"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type submitDoneMsg struct {
	outcome usecase.SubmitOutcome
}

type saveDoneMsg struct {
	path string
	err  error
}

type clearToastMsg struct {
	seq int
}

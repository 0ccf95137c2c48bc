package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const panicMessage = "Unexpected error (see logs)"

// safeModel keeps the form alive when Update or View panics. Selections and
// the last output live in the workflow, so only UI state is lost.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			busy := s.workflowBusy()
			s.log.Error("panic.recovered",
				"where", "tui.update",
				"msg_type", fmt.Sprintf("%T", msg),
				"focus", int(s.m.focus),
				"busy", busy,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)

			s.m.saving = false
			cmd = s.m.setToast(panicMessage, true)
			if busy {
				// a submission is still settling; keep the spinner going
				cmd = tea.Batch(cmd, s.m.spin.Tick)
			}
			tm = s
		}
	}()

	inner, c := s.m.Update(msg)

	if mm, ok := inner.(model); ok {
		s.m = mm
	} else if sm, ok := inner.(safeModel); ok {
		s = sm
	}

	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic.recovered",
				"where", "tui.view",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			out = panicMessage
		}
	}()
	return s.m.View()
}

// workflowBusy must not panic itself while reporting a panic.
func (s safeModel) workflowBusy() (busy bool) {
	defer func() {
		if recover() != nil {
			busy = false
		}
	}()
	if s.m.deps.Workflow == nil {
		return false
	}
	return s.m.deps.Workflow.State().Busy
}

var _ tea.Model = (*safeModel)(nil)

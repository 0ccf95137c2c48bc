package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/teamsort/internal/domain"
)

type focus int

const (
	focusPlayers focus = iota
	focusConstraints
	focusSubmit
	focusCount
)

type model struct {
	theme Theme
	deps  Deps

	players     textinput.Model
	constraints textinput.Model
	spin        spinner.Model
	focus       focus

	playersHint     string
	constraintsHint string

	saving    bool
	lastSaved string

	toast    string
	toastErr bool
	toastSeq int

	width int

	workspaceFound bool
	workspaceRoot  string
	cwd            string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	players := textinput.New()
	players.Placeholder = "path/to/players.csv"
	players.CharLimit = 4096
	players.Width = 48

	constraints := textinput.New()
	constraints.Placeholder = "path/to/constraints.csv"
	constraints.CharLimit = 4096
	constraints.Width = 48

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		theme:       t,
		deps:        deps,
		players:     players,
		constraints: constraints,
		spin:        sp,
		focus:       focusPlayers,
	}

	// Reflect selections made before the form opened (flags, previous runs).
	st := deps.Workflow.State()
	m.players.SetValue(st.Players.Path)
	m.constraints.SetValue(st.Constraints.Path)
	m.playersHint = describeFile(st.Players)
	m.constraintsHint = describeFile(st.Constraints)

	m.players.Focus()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, cmdRefreshWorkspace(m.deps))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := max(msg.Width-30, 20)
		m.players.Width = w
		m.constraints.Width = w
		return m, nil

	case workspaceRefreshedMsg:
		m.cwd = msg.cwd
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			cmd := m.setToast(userMessage(msg.err), true)
			return m, cmd
		}
		cmd := m.setToast("Workspace created", false)
		return m, tea.Batch(cmd, cmdRefreshWorkspace(m.deps))

	case submitDoneMsg:
		if msg.outcome.Err != nil {
			cmd := m.setToast(userMessage(msg.outcome.Err), true)
			return m, cmd
		}
		cmd := m.setToast("Teams ready: "+msg.outcome.Output.String(), false)
		return m, cmd

	case saveDoneMsg:
		m.saving = false
		if msg.err != nil {
			cmd := m.setToast(userMessage(msg.err), true)
			return m, cmd
		}
		m.lastSaved = msg.path
		cmd := m.setToast("Saved "+msg.path, false)
		return m, cmd

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
			m.toastErr = false
		}
		return m, nil

	case spinner.TickMsg:
		// Let the tick chain die once nothing is in flight.
		if !m.deps.Workflow.State().Busy && !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "down":
			m.setFocus((m.focus + 1) % focusCount)
			return m, nil

		case "shift+tab", "up":
			m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, nil

		case "ctrl+s":
			return m.submit()

		case "ctrl+d":
			return m.save()

		case "ctrl+w":
			if m.workspaceFound || m.cwd == "" {
				return m, nil
			}
			return m, cmdInitWorkspaceHere(m.deps, m.cwd)

		case "enter":
			if m.focus == focusSubmit {
				return m.submit()
			}
			m.setFocus(m.focus + 1)
			return m, nil
		}

		if m.focus == focusSubmit {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "d":
				return m.save()
			case " ":
				return m.submit()
			}
			return m, nil
		}
	}

	return m.updateInputs(msg)
}

func (m model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	before := m.players.Value()
	m.players, cmd = m.players.Update(msg)
	cmds = append(cmds, cmd)
	if v := m.players.Value(); v != before {
		f := domain.NewInputFile(v)
		m.deps.Workflow.SelectPlayersFile(f)
		m.playersHint = describeFile(f)
	}

	before = m.constraints.Value()
	m.constraints, cmd = m.constraints.Update(msg)
	cmds = append(cmds, cmd)
	if v := m.constraints.Value(); v != before {
		f := domain.NewInputFile(v)
		m.deps.Workflow.SelectConstraintsFile(f)
		m.constraintsHint = describeFile(f)
	}

	return m, tea.Batch(cmds...)
}

// submit fires one request. Nothing is sent unless the workflow allows it.
func (m model) submit() (tea.Model, tea.Cmd) {
	st := m.deps.Workflow.State()
	if !st.CanSubmit {
		if st.Busy {
			return m, nil
		}
		cmd := m.setToast("Pick both files first", true)
		return m, cmd
	}

	m.toast = ""
	return m, tea.Batch(startSubmit(m.deps.Workflow), m.spin.Tick)
}

func (m model) save() (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	if m.deps.Workflow.State().Output.IsEmpty() {
		cmd := m.setToast("No output to download yet", true)
		return m, cmd
	}

	dir := m.deps.DownloadsDir
	if dir == "" {
		dir = "."
	}
	m.saving = true
	return m, tea.Batch(cmdSaveOutput(m.deps.Workflow, dir), m.spin.Tick)
}

func (m *model) setFocus(f focus) {
	m.focus = f
	m.players.Blur()
	m.constraints.Blur()
	switch f {
	case focusPlayers:
		m.players.Focus()
	case focusConstraints:
		m.constraints.Focus()
	}
}

func (m *model) setToast(text string, isErr bool) tea.Cmd {
	m.toastSeq++
	m.toast = text
	m.toastErr = isErr
	return cmdClearToast(m.toastSeq)
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("teamsort") + "\n" +
		m.theme.Subtitle.Render("Sort players into teams") + "\n"

	var workspaceBanner string
	if m.workspaceFound {
		workspaceBanner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		workspaceBanner = m.theme.Help.Render("No workspace here (ctrl+w to create one)")
	}

	st := m.deps.Workflow.State()

	var b strings.Builder
	b.WriteString(m.renderField("Players", m.players, m.playersHint, m.focus == focusPlayers))
	b.WriteString("\n")
	b.WriteString(m.renderField("Constraints", m.constraints, m.constraintsHint, m.focus == focusConstraints))
	b.WriteString("\n\n")

	b.WriteString(m.renderButton(st.CanSubmit))
	if st.Busy {
		b.WriteString("  ")
		b.WriteString(m.spin.View())
		b.WriteString(" Sorting…")
	}
	b.WriteString("\n")

	if !st.Output.IsEmpty() {
		b.WriteString("\n")
		label := "Output"
		if st.Busy {
			label = "Previous output"
		}
		b.WriteString(m.theme.Label.Render(label))
		b.WriteString(m.theme.Success.Render(st.Output.String()))
		b.WriteString("\n")
		b.WriteString(m.theme.Label.Render("Download"))
		b.WriteString(m.theme.Link.Render(st.DownloadURL))
		b.WriteString("\n")
		if m.saving {
			b.WriteString(m.spin.View() + " Downloading…\n")
		} else if m.lastSaved != "" {
			b.WriteString(m.theme.Help.Render("Last saved: " + m.lastSaved))
			b.WriteString("\n")
		}
	}

	var toast string
	if m.toast != "" {
		style := m.theme.Success
		if m.toastErr {
			style = m.theme.Error
		}
		toast = "\n" + style.Render(m.toast)
	}

	help := m.theme.Help.Render("tab next • ctrl+s submit • ctrl+d download • esc quit")

	return wrap.Render(header + "\n" + workspaceBanner + "\n\n" + m.theme.Card.Render(b.String()) + toast + "\n" + help)
}

func (m model) renderField(label string, in textinput.Model, hint string, focused bool) string {
	l := m.theme.Label.Render(label)
	if focused {
		l = m.theme.Focused.Inherit(m.theme.Label).Render(label)
	}
	return l + in.View() + "  " + m.theme.Help.Render(hint)
}

func (m model) renderButton(enabled bool) string {
	switch {
	case !enabled:
		return m.theme.ButtonDisabled.Render("Sort teams")
	case m.focus == focusSubmit:
		return m.theme.ButtonFocused.Render("Sort teams")
	default:
		return m.theme.Button.Render("Sort teams")
	}
}

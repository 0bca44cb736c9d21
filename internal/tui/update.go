package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codeflow/internal/editor"
	"codeflow/internal/session"
)

// MsgTick is the periodic host tick.
type MsgTick time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return MsgTick(t)
	})
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.Help.Width = msg.Width
		m.NarrationViewport.Width = max(msg.Width-4, 20)
		m.NarrationViewport.Height = narrationHeight
		m.refreshNarration()
		return m, nil

	case MsgTick:
		if m.Session.Tick(time.Time(msg)) {
			m.refreshNarration()
		}
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.ShowHelp {
			return m.updateHelp(msg)
		}
		if m.Session.Mode() == session.ModeEdit {
			return m.updateEdit(msg)
		}
		return m.updateVisual(msg)
	}

	return m, nil
}

func (m AppModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "?", "f1", "q":
		m.ShowHelp = false
		m.HelpScrollY = 0
	case "up", "k":
		if m.HelpScrollY > 0 {
			m.HelpScrollY--
		}
	case "down", "j":
		if m.HelpScrollY < strings.Count(m.HelpContent, "\n") {
			m.HelpScrollY++
		}
	}
	return m, nil
}

func (m AppModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.editKeys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.ShowHelp = true
		return m, nil
	case key.Matches(msg, k.Visualize):
		m.Session.StartVisualization(m.ctx)
		m.refreshNarration()
		return m, nil
	}

	if err := m.Session.Edit(func(b *editor.Buffer) { applyEditKey(b, k, msg) }); err != nil {
		m.logger.Warn("edit refused", "error", err)
	}
	return m, nil
}

func applyEditKey(b *editor.Buffer, k editKeyMap, msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, k.Newline):
		b.InsertNewline()
	case key.Matches(msg, k.Backspace):
		b.DeleteBackward()
	case key.Matches(msg, k.Delete):
		b.DeleteForward()
	case key.Matches(msg, k.Indent):
		b.Indent()
	case key.Matches(msg, k.Up):
		b.MoveCursor(editor.Up)
	case key.Matches(msg, k.Down):
		b.MoveCursor(editor.Down)
	case key.Matches(msg, k.Left):
		b.MoveCursor(editor.Left)
	case key.Matches(msg, k.Right):
		b.MoveCursor(editor.Right)
	case key.Matches(msg, k.Home):
		b.Home()
	case key.Matches(msg, k.End):
		b.End()
	case msg.Type == tea.KeySpace:
		b.InsertChar(' ')
	case msg.Type == tea.KeyRunes:
		// Pasted text arrives here too.
		for _, r := range msg.Runes {
			switch r {
			case '\r':
			case '\n':
				b.InsertNewline()
			case '\t':
				b.Indent()
			default:
				b.InsertChar(r)
			}
		}
	}
}

func (m AppModel) updateVisual(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.visualKeys
	var cmd session.Command
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.ShowHelp = true
		return m, nil
	case key.Matches(msg, k.Step):
		cmd = session.CmdStep
	case key.Matches(msg, k.Run):
		cmd = session.CmdRun
	case key.Matches(msg, k.Pause):
		cmd = session.CmdPause
	case key.Matches(msg, k.Reset):
		cmd = session.CmdReset
	case key.Matches(msg, k.Faster):
		cmd = session.CmdFaster
	case key.Matches(msg, k.Slower):
		cmd = session.CmdSlower
	case key.Matches(msg, k.Edit):
		cmd = session.CmdBack
	default:
		return m, nil
	}

	if err := m.Session.Apply(m.ctx, cmd, time.Now()); err != nil {
		m.logger.Warn("command failed", "command", cmd, "error", err)
	}
	m.refreshNarration()
	return m, nil
}

// refreshNarration reflows the narration of the last executed step into
// the viewport.
func (m *AppModel) refreshNarration() {
	text := m.Session.Narration()
	width := m.NarrationViewport.Width
	if width > 0 {
		text = lipgloss.NewStyle().Width(width).Render(text)
	}
	m.NarrationViewport.SetContent(strings.TrimRight(text, " \n"))
	m.NarrationViewport.GotoTop()
}

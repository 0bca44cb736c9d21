package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeflow/internal/editor"
	"codeflow/internal/model"
	"codeflow/internal/session"
	"codeflow/internal/trace"
)

func newModel(src ...string) AppModel {
	s := session.New(editor.NewFromLines(src), nil, nil)
	m := InitialModel(context.Background(), s, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(AppModel)
}

func press(t *testing.T, m AppModel, msgs ...tea.KeyMsg) AppModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(AppModel)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTypingEditsBuffer(t *testing.T) {
	m := newModel("")
	m = press(t, m,
		runes("x=1"),
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyTab},
		runes("y"),
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyBackspace},
	)
	assert.Equal(t, []string{"x=1", "    y"}, m.Session.Buffer().Lines())
	assert.Equal(t, editor.Cursor{Line: 1, Col: 5}, m.Session.Buffer().Cursor())
}

func TestQuestionMarkIsTextWhileEditing(t *testing.T) {
	m := press(t, newModel(""), runes("?"))
	assert.False(t, m.ShowHelp)
	assert.Equal(t, []string{"?"}, m.Session.Buffer().Lines())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.True(t, m.ShowHelp)
	assert.Contains(t, m.View(), "Edit mode")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.ShowHelp)
}

func TestVisualizeControls(t *testing.T) {
	m := newModel("x = 1", "y = 2", "z = x")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyF5})
	require.Equal(t, session.ModeVisualize, m.Session.Mode())

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	mc := m.Session.Machine()
	assert.Equal(t, 1, mc.Current())

	// Typing is ignored while visualizing.
	m = press(t, m, runes("q"))
	assert.Equal(t, []string{"x = 1", "y = 2", "z = x"}, m.Session.Buffer().Lines())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 800*time.Millisecond, mc.Interval())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 900*time.Millisecond, mc.Interval())

	m = press(t, m, runes("r"))
	assert.True(t, mc.IsAutoPlaying())
	m = press(t, m, runes("p"))
	assert.False(t, mc.IsAutoPlaying())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, 0, mc.Current())
	assert.Empty(t, mc.Variables())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyF5})
	assert.Equal(t, session.ModeEdit, m.Session.Mode())
	assert.Equal(t, trace.PhaseIdle, mc.Phase())
}

func TestTickAdvancesAutoPlay(t *testing.T) {
	m := newModel("a = 1", "b = 2", "c = 3")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyF5}, runes("r"))
	mc := m.Session.Machine()
	require.Equal(t, 1, mc.Current())

	next, cmd := m.Update(MsgTick(time.Now().Add(2 * time.Second)))
	m = next.(AppModel)
	assert.NotNil(t, cmd, "tick must reschedule itself")
	assert.Equal(t, 2, mc.Current())
}

func TestQuitKey(t *testing.T) {
	m := newModel("x = 1")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestVisualView(t *testing.T) {
	m := newModel("# setup", "x = 10", "print(x)")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyF5}, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeySpace})

	out := m.View()
	assert.Contains(t, out, "CodeFlow - Code Visualization")
	assert.Contains(t, out, "Variables & State")
	assert.Contains(t, out, "x: 10 (int)")
	assert.Contains(t, out, trace.NarrationUnavailable)
	assert.Contains(t, out, "State: Running, Line: 3, Speed: 1.0s, Progress: 66.7%")
}

func TestEditView(t *testing.T) {
	out := newModel("x = 1").View()
	assert.Contains(t, out, "CodeFlow - Code Editor")
	assert.Contains(t, out, "Ln 1, Col 1")
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name string
		st   session.State
		want string
	}{
		{"empty", session.State{IntervalSecs: 1}, "State: Ready, Speed: 1.0s"},
		{
			"mid walk",
			session.State{IsRunning: true, CurrentLine: 4, IntervalSecs: 0.5, Progress: 100.0 / 3, Steps: make([]model.Step, 3)},
			"State: Running, Line: 4, Speed: 0.5s, Progress: 33.3%",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusLine(tt.st))
		})
	}
	assert.False(t, strings.Contains(StatusLine(session.State{}), "Line:"))
}

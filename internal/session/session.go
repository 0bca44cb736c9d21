// Package session ties the editor buffer, the execution machine and the
// narration request together behind the commands a host sends.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codeflow/internal/editor"
	"codeflow/internal/model"
	"codeflow/internal/narrate"
	"codeflow/internal/trace"
)

// Mode is the current screen.
type Mode int

const (
	ModeEdit Mode = iota
	ModeVisualize
)

func (m Mode) String() string {
	if m == ModeVisualize {
		return "visualize"
	}
	return "edit"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Command is a control command sent while visualizing.
type Command string

const (
	CmdStart  Command = "start"
	CmdStep   Command = "step"
	CmdRun    Command = "run"
	CmdPause  Command = "pause"
	CmdReset  Command = "reset"
	CmdBack   Command = "back"
	CmdFaster Command = "faster"
	CmdSlower Command = "slower"
)

var (
	ErrReadOnly       = errors.New("source is read-only while visualizing")
	ErrNotVisualizing = errors.New("not visualizing")
	ErrUnknownCommand = errors.New("unknown command")
)

// Session is one editor plus one execution machine.
type Session struct {
	buf     *editor.Buffer
	machine *trace.Machine
	fetcher narrate.Fetcher
	pending *narrate.Pending
	mode    Mode
	logger  *slog.Logger
}

// New returns a session in edit mode. fetcher may be nil to disable
// narration; logger may be nil.
func New(buf *editor.Buffer, fetcher narrate.Fetcher, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if buf == nil {
		buf = editor.New()
	}
	return &Session{
		buf:     buf,
		machine: trace.NewMachine(logger),
		fetcher: fetcher,
		logger:  logger,
	}
}

func (s *Session) Mode() Mode              { return s.mode }
func (s *Session) Buffer() *editor.Buffer  { return s.buf }
func (s *Session) Machine() *trace.Machine { return s.machine }
func (s *Session) NarrationEnabled() bool  { return s.fetcher != nil }

// StartVisualization freezes the buffer, classifies it and issues the
// narration request in the background.
func (s *Session) StartVisualization(ctx context.Context) {
	s.cancelPending()
	s.mode = ModeVisualize
	s.machine.Start(s.buf.Lines())

	lines := narrate.LinesFor(s.machine.Steps())
	if s.fetcher == nil || len(lines) == 0 {
		s.pending = narrate.Resolved(nil)
	} else {
		s.pending = narrate.Start(ctx, s.fetcher, lines)
	}
	s.pollNarration()
}

// BackToEdit leaves visualize mode; the buffer becomes editable again.
func (s *Session) BackToEdit() {
	s.cancelPending()
	s.machine.Exit()
	s.mode = ModeEdit
	s.logger.Info("back to edit mode")
}

func (s *Session) cancelPending() {
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
}

// Apply runs a control command. now is used by run.
func (s *Session) Apply(ctx context.Context, cmd Command, now time.Time) error {
	switch cmd {
	case CmdStart:
		s.StartVisualization(ctx)
		return nil
	case CmdFaster:
		s.machine.Faster()
		return nil
	case CmdSlower:
		s.machine.Slower()
		return nil
	case CmdStep, CmdRun, CmdPause, CmdReset, CmdBack:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	if s.mode != ModeVisualize {
		return ErrNotVisualizing
	}
	switch cmd {
	case CmdStep:
		s.machine.Step()
	case CmdRun:
		s.machine.Run(now)
	case CmdPause:
		s.machine.Pause()
	case CmdReset:
		s.machine.Reset()
	case CmdBack:
		s.BackToEdit()
	}
	return nil
}

// Edit applies fn to the buffer unless a visualization holds it.
func (s *Session) Edit(fn func(b *editor.Buffer)) error {
	if s.mode != ModeEdit {
		return ErrReadOnly
	}
	fn(s.buf)
	return nil
}

// Tick is the host's periodic callback. It picks up narration when it has
// arrived and advances auto-play. It reports whether anything changed.
func (s *Session) Tick(now time.Time) bool {
	if s.mode != ModeVisualize {
		return false
	}
	changed := s.pollNarration()
	if s.machine.Tick(now) {
		changed = true
	}
	return changed
}

func (s *Session) pollNarration() bool {
	if s.pending == nil || s.machine.NarrationReady() {
		return false
	}
	lines, ok := s.pending.Poll()
	if !ok {
		return false
	}
	s.machine.SetNarration(lines)
	s.logger.Debug("narration ready", "entries", len(lines))
	return true
}

// WaitNarration blocks until the narration of the current run arrives.
// Headless hosts use it; interactive hosts poll through Tick.
func (s *Session) WaitNarration(ctx context.Context) []string {
	if s.pending == nil {
		return nil
	}
	lines, ok := s.pending.Wait(ctx)
	if ok && !s.machine.NarrationReady() {
		s.machine.SetNarration(lines)
	}
	return lines
}

// Narration is the text for the step just executed.
func (s *Session) Narration() string {
	return s.machine.Narration()
}

// State is a read-only picture of the session for rendering or JSON.
type State struct {
	Mode           Mode                  `json:"mode"`
	Source         []string              `json:"source"`
	Cursor         editor.Cursor         `json:"cursor"`
	Phase          string                `json:"phase"`
	Steps          []model.Step          `json:"steps"`
	Current        int                   `json:"current"`
	CurrentLine    int                   `json:"currentLine"`
	IsRunning      bool                  `json:"isRunning"`
	IsAutoPlaying  bool                  `json:"isAutoPlaying"`
	IntervalSecs   float64               `json:"interval"`
	Progress       float64               `json:"progress"`
	Variables      []model.VariableEntry `json:"variables"`
	Narration      string                `json:"narration"`
	NarrationReady bool                  `json:"narrationReady"`
}

// Snapshot returns the current State.
func (s *Session) Snapshot() State {
	m := s.machine
	return State{
		Mode:           s.mode,
		Source:         s.buf.Lines(),
		Cursor:         s.buf.Cursor(),
		Phase:          m.Phase().String(),
		Steps:          m.Steps(),
		Current:        m.Current(),
		CurrentLine:    m.CurrentLine(),
		IsRunning:      m.IsRunning(),
		IsAutoPlaying:  m.IsAutoPlaying(),
		IntervalSecs:   m.Interval().Seconds(),
		Progress:       m.Progress(),
		Variables:      m.Variables(),
		Narration:      m.Narration(),
		NarrationReady: m.NarrationReady(),
	}
}

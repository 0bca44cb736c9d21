package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"codeflow/internal/model"
	"codeflow/internal/session"
)

// TickInterval is how often the session is ticked. Auto-play cannot run
// faster than this.
const TickInterval = 100 * time.Millisecond

// AppModel holds the TUI state.
type AppModel struct {
	Session *session.Session
	ctx     context.Context
	logger  *slog.Logger

	WindowSize tea.WindowSizeMsg

	// Help dialog
	ShowHelp    bool
	HelpContent string
	HelpScrollY int

	// Components
	NarrationViewport viewport.Model
	Spinner           spinner.Model
	Help              help.Model

	editKeys   editKeyMap
	visualKeys visualKeyMap
}

// InitialModel returns the initial state. ctx bounds narration requests.
func InitialModel(ctx context.Context, s *session.Session, logger *slog.Logger) AppModel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = narrationPendingStyle

	return AppModel{
		Session:           s,
		ctx:               ctx,
		logger:            logger,
		HelpContent:       model.HelpText(),
		NarrationViewport: viewport.New(40, 4),
		Spinner:           sp,
		Help:              help.New(),
		editKeys:          newEditKeyMap(),
		visualKeys:        newVisualKeyMap(),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.Spinner.Tick)
}

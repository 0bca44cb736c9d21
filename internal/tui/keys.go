package tui

import "github.com/charmbracelet/bubbles/key"

// editKeyMap holds the bindings active while editing. Printable keys are
// inserted into the buffer and are not listed here.
type editKeyMap struct {
	Visualize key.Binding
	Help      key.Binding
	Quit      key.Binding
	Newline   key.Binding
	Backspace key.Binding
	Delete    key.Binding
	Indent    key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Home      key.Binding
	End       key.Binding
}

func newEditKeyMap() editKeyMap {
	return editKeyMap{
		Visualize: key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "visualize")),
		Help:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "help")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Newline:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new line")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "delete left")),
		Delete:    key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete")),
		Indent:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "indent")),
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Home:      key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "line start")),
		End:       key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "line end")),
	}
}

func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Visualize, k.Indent, k.Help, k.Quit}
}

func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Home, k.End},
		{k.Newline, k.Backspace, k.Delete, k.Indent},
		{k.Visualize, k.Help, k.Quit},
	}
}

// visualKeyMap holds the playback bindings.
type visualKeyMap struct {
	Step   key.Binding
	Run    key.Binding
	Pause  key.Binding
	Reset  key.Binding
	Faster key.Binding
	Slower key.Binding
	Edit   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newVisualKeyMap() visualKeyMap {
	return visualKeyMap{
		Step:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "step")),
		Run:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run")),
		Pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Reset:  key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "reset")),
		Faster: key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "faster")),
		Slower: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "slower")),
		Edit:   key.NewBinding(key.WithKeys("f5", "esc"), key.WithHelp("F5/esc", "edit")),
		Help:   key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k visualKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.Run, k.Pause, k.Reset, k.Faster, k.Slower, k.Edit, k.Help, k.Quit}
}

func (k visualKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Step, k.Run, k.Pause, k.Reset},
		{k.Faster, k.Slower},
		{k.Edit, k.Help, k.Quit},
	}
}

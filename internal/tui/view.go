package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"codeflow/internal/model"
	"codeflow/internal/session"
	"codeflow/internal/trace"
)

func (m AppModel) View() string {
	if m.ShowHelp {
		return m.renderHelpDialog()
	}
	if m.Session.Mode() == session.ModeEdit {
		return m.renderEdit()
	}
	return m.renderVisual()
}

// layout returns the outer width and the interior height of the main panels.
func (m AppModel) layout() (int, int) {
	width := m.WindowSize.Width
	if width < 40 {
		width = 80
	}
	height := m.WindowSize.Height
	if height < 12 {
		height = 24
	}
	return width, height
}

func (m AppModel) renderEdit() string {
	width, height := m.layout()
	buf := m.Session.Buffer()
	cur := buf.Cursor()
	lines := buf.Lines()

	// Title + borders + status + footer
	interior := max(height-6, 3)
	start := 0
	if cur.Line >= interior {
		start = cur.Line - interior + 1
	}
	end := min(start+interior, len(lines))

	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("%3d ", i+1)))
		if i == cur.Line {
			sb.WriteString(renderCursorLine(lines[i], cur.Col))
		} else {
			sb.WriteString(lines[i])
		}
		if i < end-1 {
			sb.WriteString("\n")
		}
	}

	panel := panelStyle.
		Width(width - 2).
		Height(interior).
		Render(sb.String())

	status := statusStyle.Render(fmt.Sprintf("Edit  Ln %d, Col %d  %d lines", cur.Line+1, cur.Col+1, len(lines)))
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("CodeFlow - Code Editor"),
		panel,
		status,
		m.Help.View(m.editKeys),
	)
}

func renderCursorLine(line string, col int) string {
	rs := []rune(line)
	if col >= len(rs) {
		return line + cursorStyle.Render(" ")
	}
	return string(rs[:col]) + cursorStyle.Render(string(rs[col])) + string(rs[col+1:])
}

func (m AppModel) renderVisual() string {
	width, height := m.layout()
	st := m.Session.Snapshot()

	netWidth := width - 4
	leftWidth := netWidth * 3 / 5
	rightWidth := netWidth - leftWidth

	// Title, narration box, status, footer
	interior := max(height-narrationHeight-9, 3)

	left := panelStyle.
		Width(leftWidth).
		Height(interior).
		Render(renderCode(st, leftWidth, interior))

	right := panelStyle.
		Width(rightWidth).
		Height(interior).
		Render(renderVariables(st.Variables, interior))

	narration := panelStyle.
		Width(width - 2).
		Render(panelTitleStyle.Render("Step-by-Step Explanation") + "\n" + m.renderNarration(st))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("CodeFlow - Code Visualization"),
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		narration,
		statusStyle.Render(StatusLine(st)),
		m.Help.View(m.visualKeys),
	)
}

func renderCode(st session.State, width, height int) string {
	var sb strings.Builder
	sb.WriteString(panelTitleStyle.Render("Code Execution"))
	sb.WriteString("\n")

	rows := height - 1
	start := 0
	if st.Current >= rows {
		start = st.Current - rows + 1
	}
	end := min(start+rows, len(st.Steps))

	for i := start; i < end; i++ {
		step := st.Steps[i]
		icon := model.IconPending
		textStyle := lipgloss.NewStyle()
		switch {
		case step.IsCurrent:
			icon = model.IconCurrent
			textStyle = currentLineStyle
		case step.IsExecuted:
			icon = model.IconExecuted
			textStyle = executedLineStyle
		}

		marker := lipgloss.NewStyle().Foreground(lipgloss.Color(model.TagColor(step.Tag))).Render(model.IconTag)
		prefix := fmt.Sprintf("%s %s %s ", icon, dimStyle.Render(fmt.Sprintf("%2d", step.LineNumber)), marker)

		text := step.Text
		if avail := width - 8; avail > 3 && len([]rune(text)) > avail {
			text = string([]rune(text)[:avail-3]) + "..."
		}
		sb.WriteString(prefix + textStyle.Render(text))
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	if len(st.Steps) == 0 {
		sb.WriteString(dimStyle.Render("(nothing to run)"))
	}
	return sb.String()
}

func renderVariables(vars []model.VariableEntry, height int) string {
	var sb strings.Builder
	sb.WriteString(panelTitleStyle.Render("Variables & State"))
	if len(vars) == 0 {
		sb.WriteString("\n" + dimStyle.Render("(none)"))
		return sb.String()
	}
	// Two rows per variable
	limit := max((height-1)/2, 1)
	for i, v := range vars {
		if i >= limit {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("\n... %d more", len(vars)-i)))
			break
		}
		sb.WriteString(fmt.Sprintf("\n%s %s (%s)", varNameStyle.Render(v.Name+":"), v.Value.String(), v.Type))
		sb.WriteString("\n" + dimStyle.Render(fmt.Sprintf("  Line %d", v.Line)))
	}
	return sb.String()
}

func (m AppModel) renderNarration(st session.State) string {
	if st.Narration == trace.NarrationPending {
		return m.Spinner.View() + " " + narrationPendingStyle.Render(st.Narration)
	}
	if st.Narration == "" {
		return dimStyle.Render("Press space to execute the first step.")
	}
	return m.NarrationViewport.View()
}

// StatusLine is the one-line summary below the panels.
func StatusLine(st session.State) string {
	state := "Ready"
	if st.IsRunning {
		state = "Running"
	}
	parts := []string{"State: " + state}
	if st.CurrentLine > 0 {
		parts = append(parts, fmt.Sprintf("Line: %d", st.CurrentLine))
	}
	parts = append(parts, fmt.Sprintf("Speed: %.1fs", st.IntervalSecs))
	if len(st.Steps) > 0 {
		parts = append(parts, fmt.Sprintf("Progress: %.1f%%", st.Progress))
	}
	return strings.Join(parts, ", ")
}

func (m *AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}

	helpWidth := w * 80 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}
	helpHeight := h - 6
	if helpHeight < 5 {
		helpHeight = 5
	}

	lines := strings.Split(m.HelpContent, "\n")
	contentHeight := helpHeight - 2

	startY := m.HelpScrollY
	if startY > len(lines)-contentHeight {
		startY = len(lines) - contentHeight
	}
	if startY < 0 {
		startY = 0
	}
	m.HelpScrollY = startY

	endY := min(startY+contentHeight, len(lines))
	content := strings.Join(lines[startY:endY], "\n")

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Height(helpHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Render(content)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

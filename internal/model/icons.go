package model

// Centralized markers for the code panel.
// Using simple single-width characters for consistent terminal rendering
const (
	IconCurrent  = "▶" // step about to be shown as current
	IconExecuted = "✓" // already walked
	IconPending  = " " // not reached yet
	IconTag      = "■" // coloured per tag in the code panel
)

// TagColor is the terminal colour of a tag marker (ANSI 256 palette).
func TagColor(t Tag) string {
	switch t {
	case TagComment:
		return "244" // grey
	case TagFunctionDef:
		return "33" // blue
	case TagForLoop:
		return "208" // orange
	case TagIfStatement:
		return "34" // green
	case TagPrintStatement:
		return "27" // dark blue
	default:
		return "252"
	}
}

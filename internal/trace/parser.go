package trace

import (
	"strings"
	"unicode"

	"codeflow/internal/model"
)

// IndentWidth is the number of leading whitespace characters per indent level.
const IndentWidth = 4

// Classify returns the shape of a single source line.
//
// Checks run in a fixed order and the first match wins, so a comment that
// contains '=' is still a comment.
func Classify(line string) model.Tag {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "#"):
		return model.TagComment
	case strings.HasPrefix(line, "def "):
		return model.TagFunctionDef
	case strings.HasPrefix(line, "for "):
		return model.TagForLoop
	case strings.HasPrefix(line, "if "):
		return model.TagIfStatement
	case strings.HasPrefix(line, "print("):
		return model.TagPrintStatement
	case strings.Contains(line, "="):
		return model.TagAssignment
	default:
		return model.TagExpression
	}
}

// IndentLevel is the leading whitespace count divided by IndentWidth.
// Every whitespace character counts as one, so a tab is worth a single space.
func IndentLevel(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n / IndentWidth
}

// IsBlank reports whether a line holds nothing but whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// BuildSteps classifies a snapshot into steps. Blank lines get no step, but
// line numbers still refer to the snapshot.
func BuildSteps(lines []string) []model.Step {
	steps := make([]model.Step, 0, len(lines))
	for i, line := range lines {
		if IsBlank(line) {
			continue
		}
		steps = append(steps, model.Step{
			LineNumber: i + 1,
			Text:       line,
			Indent:     IndentLevel(line),
			Tag:        Classify(line),
		})
	}
	return steps
}

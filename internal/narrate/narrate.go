// Package narrate fetches per-line explanations of a program from a
// chat-completion service and hands them to the UI loop without blocking it.
package narrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeflow/internal/model"
)

// Line is one program line sent for narration.
type Line struct {
	Number int
	Text   string
}

// Fetcher returns one narration string per explained line, in order.
type Fetcher interface {
	Fetch(ctx context.Context, lines []Line) ([]string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, lines []Line) ([]string, error)

func (f FetcherFunc) Fetch(ctx context.Context, lines []Line) ([]string, error) {
	return f(ctx, lines)
}

// ErrNoChoices is returned when the service answers without any content.
var ErrNoChoices = errors.New("no choices in response")

// LinesFor picks the steps worth explaining: everything except comments.
func LinesFor(steps []model.Step) []Line {
	var lines []Line
	for _, s := range steps {
		text := strings.TrimSpace(s.Text)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, Line{Number: s.LineNumber, Text: s.Text})
	}
	return lines
}

// Explain calls f and never fails: any error becomes a single readable entry.
func Explain(ctx context.Context, f Fetcher, lines []Line) []string {
	if f == nil || len(lines) == 0 {
		return nil
	}
	out, err := f.Fetch(ctx, lines)
	if err == nil {
		return out
	}

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return []string{fmt.Sprintf("API Error: %d", statusErr.StatusCode)}
	case errors.Is(err, ErrNoChoices):
		return []string{"Could not generate explanations"}
	default:
		return []string{fmt.Sprintf("Error generating explanations: %v", err)}
	}
}

// SplitExplanations turns a completion into one entry per non-empty line.
func SplitExplanations(content string) []string {
	var out []string
	for _, l := range strings.Split(content, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

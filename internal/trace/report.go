package trace

import (
	"fmt"
	"strings"

	"codeflow/internal/model"
)

// StepRecord is one step of a headless walk with the variable writes it made.
type StepRecord struct {
	Index     int                   `json:"index"`
	Line      int                   `json:"line"`
	Tag       model.Tag             `json:"tag"`
	Indent    int                   `json:"indent"`
	Text      string                `json:"text"`
	Writes    []model.VariableEntry `json:"writes,omitempty"`
	Narration string                `json:"narration,omitempty"`
}

// WalkResult is the outcome of stepping a snapshot to the end.
type WalkResult struct {
	Source    []string              `json:"source"`
	Steps     []StepRecord          `json:"steps"`
	Variables []model.VariableEntry `json:"variables"`
	Narration []string              `json:"narration,omitempty"`
}

// Walk runs m over snapshot from start to finish without auto-play.
// narration may be nil.
func Walk(m *Machine, snapshot []string, narration []string) WalkResult {
	m.Start(snapshot)
	if narration != nil {
		m.SetNarration(narration)
	}

	res := WalkResult{Source: snapshot, Narration: narration}
	for m.Phase() == PhaseRunning {
		idx := m.Current()
		step := m.steps[idx]
		var before map[string]model.VariableEntry
		if step.Tag == model.TagAssignment {
			before = indexByName(m.Variables())
		}
		m.Step()

		rec := StepRecord{
			Index:  idx,
			Line:   step.LineNumber,
			Tag:    step.Tag,
			Indent: step.Indent,
			Text:   step.Text,
		}
		if before != nil {
			for _, e := range m.Variables() {
				if old, ok := before[e.Name]; !ok || old != e {
					rec.Writes = append(rec.Writes, e)
				}
			}
		}
		if narration != nil {
			rec.Narration = m.Narration()
		}
		res.Steps = append(res.Steps, rec)
	}
	res.Variables = m.Variables()
	return res
}

func indexByName(entries []model.VariableEntry) map[string]model.VariableEntry {
	out := make(map[string]model.VariableEntry, len(entries))
	for _, e := range entries {
		out[e.Name] = e
	}
	return out
}

// GenerateReport renders a walk as plain text. verbose adds the source
// lines around every step.
func GenerateReport(res WalkResult, verbose bool) string {
	var sb strings.Builder

	sb.WriteString("CodeFlow Execution Report\n")
	sb.WriteString("=========================\n\n")
	fmt.Fprintf(&sb, "Source lines: %d\n", len(res.Source))
	fmt.Fprintf(&sb, "Steps:        %d\n\n", len(res.Steps))

	sb.WriteString("--- Steps ---\n")
	for _, rec := range res.Steps {
		fmt.Fprintf(&sb, "%3d. line %-3d %-16s %s\n", rec.Index+1, rec.Line, rec.Tag, strings.TrimSpace(rec.Text))
		for _, w := range rec.Writes {
			fmt.Fprintf(&sb, "       %s = %s (%s)\n", w.Name, w.Value, w.Type)
		}
		if rec.Narration != "" {
			fmt.Fprintf(&sb, "       > %s\n", rec.Narration)
		}
		if verbose {
			ctx := model.GetLineContext(res.Source, rec.Line)
			if ctx.ErrorMsg != "" {
				fmt.Fprintf(&sb, "       (%s)\n", ctx.ErrorMsg)
				continue
			}
			first := rec.Line - len(ctx.Before)
			for i, l := range ctx.Before {
				fmt.Fprintf(&sb, "         %4d  %s\n", first+i, l)
			}
			fmt.Fprintf(&sb, "       » %4d  %s\n", rec.Line, ctx.Target)
			for i, l := range ctx.After {
				fmt.Fprintf(&sb, "         %4d  %s\n", rec.Line+1+i, l)
			}
		}
	}

	sb.WriteString("\n--- Variables ---\n")
	if len(res.Variables) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, v := range res.Variables {
		fmt.Fprintf(&sb, "%-12s %-20s %-6s line %d\n", v.Name, v.Value, v.Type, v.Line)
	}
	return sb.String()
}

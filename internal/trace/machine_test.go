package trace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeflow/internal/editor"
	"codeflow/internal/model"
)

var sample = []string{
	"x = 10",
	"y = 20",
	"",
	"z = x + y",
	"print(z)",
}

func started(t *testing.T, lines []string) *Machine {
	t.Helper()
	m := NewMachine(nil)
	require.Equal(t, PhaseIdle, m.Phase())
	m.Start(lines)
	return m
}

func TestStartBuildsSteps(t *testing.T) {
	m := started(t, sample)
	assert.Equal(t, PhaseRunning, m.Phase())
	assert.Len(t, m.Steps(), 4)
	assert.Equal(t, 0, m.Current())
	assert.Equal(t, 1, m.CurrentLine())
	assert.False(t, m.IsRunning())
	assert.Empty(t, m.Variables())
}

func TestStepMarksOnlyOneCurrent(t *testing.T) {
	m := started(t, sample)
	require.True(t, m.Step())
	require.True(t, m.Step())

	steps := m.Steps()
	assert.False(t, steps[0].IsCurrent)
	assert.True(t, steps[0].IsExecuted)
	assert.True(t, steps[1].IsCurrent)
	assert.True(t, steps[1].IsExecuted)
	assert.False(t, steps[2].IsExecuted)
	assert.True(t, m.IsRunning())
}

func TestStepRecordsVariables(t *testing.T) {
	m := started(t, sample)
	for m.Step() {
	}

	x, ok := m.Variable("x")
	require.True(t, ok)
	assert.Equal(t, model.IntValue(10), x.Value)
	assert.Equal(t, 1, x.Line)

	z, ok := m.Variable("z")
	require.True(t, ok)
	assert.Equal(t, model.RawValue("x + y"), z.Value)
	assert.Equal(t, "str", z.Type)
	assert.Equal(t, 4, z.Line, "writes are attributed to the snapshot line number")
}

func TestStepSkipsFailedAssignment(t *testing.T) {
	m := started(t, []string{"v = 1-2-3", "w = 2"})
	m.Step()
	assert.Empty(t, m.Variables())
	assert.True(t, m.Steps()[0].IsExecuted)

	m.Step()
	assert.Len(t, m.Variables(), 1)
}

func TestStepPastEndIsNoop(t *testing.T) {
	m := started(t, sample)
	n := len(m.Steps())
	for i := 0; i < n; i++ {
		require.True(t, m.Step())
	}
	assert.Equal(t, PhaseFinished, m.Phase())
	assert.Equal(t, 0, m.CurrentLine())

	before := m.Steps()
	assert.False(t, m.Step())
	assert.Equal(t, n, m.Current())
	assert.Equal(t, before, m.Steps())
	assert.Equal(t, 100.0, m.Progress())
}

func TestEmptySnapshotIsFinished(t *testing.T) {
	m := started(t, []string{"", "  "})
	assert.Equal(t, PhaseFinished, m.Phase())
	assert.False(t, m.Step())
	assert.Zero(t, m.Progress())
}

func TestResetKeepsClassification(t *testing.T) {
	m := started(t, editor.SampleProgram)
	m.SetNarration([]string{"a", "b"})
	tags := func() []model.Tag {
		var out []model.Tag
		for _, s := range m.Steps() {
			out = append(out, s.Tag)
		}
		return out
	}
	want := tags()

	m.Run(time.Unix(0, 0))
	m.Step()
	m.Step()
	m.Reset()

	assert.Equal(t, PhaseRunning, m.Phase())
	assert.Equal(t, 0, m.Current())
	assert.False(t, m.IsAutoPlaying())
	assert.False(t, m.IsRunning())
	assert.Empty(t, m.Variables())
	assert.Equal(t, want, tags())
	for _, s := range m.Steps() {
		assert.False(t, s.IsCurrent)
		assert.False(t, s.IsExecuted)
	}
	assert.True(t, m.NarrationReady())
	assert.Equal(t, []string{"a", "b"}, m.NarrationLines())
}

func TestResetWhileIdle(t *testing.T) {
	m := NewMachine(nil)
	m.Reset()
	assert.Equal(t, PhaseIdle, m.Phase())
}

func TestExitReturnsToIdle(t *testing.T) {
	m := started(t, sample)
	m.Step()
	m.Exit()
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.Empty(t, m.Steps())
	assert.Empty(t, m.Variables())
	assert.False(t, m.Step())
}

func TestRunStepsOnceWhenNotStarted(t *testing.T) {
	m := started(t, sample)
	m.Run(time.Unix(0, 0))
	assert.Equal(t, 1, m.Current())
	assert.True(t, m.IsAutoPlaying())

	m.Run(time.Unix(0, 0))
	assert.Equal(t, 1, m.Current(), "run does not step again once walking")
}

func TestAutoPlayDoesNotCatchUp(t *testing.T) {
	m := started(t, editor.SampleProgram)
	m.SetInterval(500 * time.Millisecond)

	t0 := time.Unix(1000, 0)
	m.Run(t0)
	afterRun := m.Current()

	for i := 1; i <= 12; i++ {
		m.Tick(t0.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	assert.Equal(t, 2, m.Current()-afterRun)
}

func TestTickTakesAtMostOneStep(t *testing.T) {
	m := started(t, editor.SampleProgram)
	m.SetInterval(100 * time.Millisecond)
	t0 := time.Unix(1000, 0)
	m.Run(t0)

	assert.True(t, m.Tick(t0.Add(10*time.Second)))
	assert.Equal(t, 2, m.Current())
}

func TestPauseStopsTicks(t *testing.T) {
	m := started(t, sample)
	t0 := time.Unix(1000, 0)
	m.Run(t0)
	m.Pause()
	m.Pause()
	assert.False(t, m.Tick(t0.Add(5*time.Second)))
	assert.Equal(t, 1, m.Current())
}

func TestAutoPlayStopsWhenFinished(t *testing.T) {
	m := started(t, []string{"a = 1", "b = 2"})
	t0 := time.Unix(1000, 0)
	m.Run(t0)
	assert.True(t, m.Tick(t0.Add(time.Second)))
	assert.Equal(t, PhaseFinished, m.Phase())
	assert.False(t, m.IsAutoPlaying())
	assert.False(t, m.Tick(t0.Add(2*time.Second)))
}

func TestSpeedClamp(t *testing.T) {
	m := NewMachine(nil)
	assert.Equal(t, time.Second, m.Interval())

	for i := 0; i < 30; i++ {
		m.Faster()
	}
	assert.Equal(t, MinInterval, m.Interval())

	for i := 0; i < 30; i++ {
		m.Slower()
	}
	assert.Equal(t, MaxInterval, m.Interval())

	m.Faster()
	assert.Equal(t, 1900*time.Millisecond, m.Interval())
}

func TestNarrationPlaceholders(t *testing.T) {
	m := started(t, sample)
	assert.Equal(t, "", m.Narration())

	m.Step()
	assert.Equal(t, NarrationPending, m.Narration())

	m.SetNarration([]string{"x gets 10"})
	assert.Equal(t, "x gets 10", m.Narration())

	m.Step()
	assert.Equal(t, NarrationUnavailable, m.Narration())
}

// Narration covers non-comment lines only but is looked up by step index,
// so a leading comment shifts every explanation by one. This is the
// behaviour hosts see today.
func TestNarrationIndexIncludesComments(t *testing.T) {
	m := started(t, []string{"# setup", "x = 10", "y = 20"})
	m.SetNarration([]string{"x is 10", "y is 20"})

	m.Step() // the comment
	assert.Equal(t, "x is 10", m.Narration())

	m.Step() // x = 10
	assert.Equal(t, "y is 20", m.Narration())

	m.Step() // y = 20
	assert.Equal(t, NarrationUnavailable, m.Narration())
}

func TestStartDiscardsPreviousNarration(t *testing.T) {
	m := started(t, sample)
	m.SetNarration([]string{"a"})
	m.Start(sample)
	assert.False(t, m.NarrationReady())
}

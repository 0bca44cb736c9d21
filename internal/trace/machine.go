package trace

import (
	"log/slog"
	"time"

	"codeflow/internal/model"
)

// Phase is the state of a Machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	default:
		return "idle"
	}
}

// Playback interval bounds and the increment used by Faster and Slower.
const (
	MinInterval     = 100 * time.Millisecond
	MaxInterval     = 2 * time.Second
	IntervalStep    = 100 * time.Millisecond
	DefaultInterval = time.Second
)

// Narration placeholders.
const (
	NarrationPending     = "Generating explanation..."
	NarrationUnavailable = "No explanation available for this line"
)

// Machine walks the steps of one snapshot.
//
// It never blocks and is not safe for concurrent use; the host calls it from
// a single loop and drives auto-play through Tick.
type Machine struct {
	logger *slog.Logger

	loaded   bool
	steps    []model.Step
	current  int // next step to execute; len(steps) when finished
	last     int // index of the most recently executed step, -1 if none
	vars     *model.VariableTable
	interval time.Duration

	running  bool // the walk has begun since Start or Reset
	autoPlay bool
	lastTick time.Time

	narration      []string
	narrationReady bool
}

// NewMachine returns an idle machine. A nil logger discards output.
func NewMachine(logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{
		logger:   logger,
		last:     -1,
		vars:     model.NewVariableTable(),
		interval: DefaultInterval,
	}
}

// Start classifies a snapshot and begins a new visualization. Any earlier
// run, including its narration, is discarded.
func (m *Machine) Start(snapshot []string) {
	m.steps = BuildSteps(snapshot)
	m.loaded = true
	m.narration = nil
	m.narrationReady = false
	m.rewind()
	m.logger.Info("visualization started", "lines", len(snapshot), "steps", len(m.steps))
}

// Step executes the current step and advances. It returns false when there
// was nothing to do.
func (m *Machine) Step() bool {
	if m.Phase() != PhaseRunning {
		return false
	}

	m.running = true
	for i := range m.steps {
		m.steps[i].IsCurrent = false
	}
	step := &m.steps[m.current]
	step.IsCurrent = true
	step.IsExecuted = true

	if step.Tag == model.TagAssignment {
		name, v, err := Evaluate(step.Text)
		if err != nil {
			m.logger.Debug("assignment skipped", "line", step.LineNumber, "error", err)
		} else {
			m.vars.Set(name, v, step.LineNumber)
		}
	}

	m.last = m.current
	m.current++
	if m.current == len(m.steps) {
		m.autoPlay = false
		m.logger.Info("visualization finished", "steps", len(m.steps))
	}
	return true
}

// Run turns on auto-play. If the walk has not begun, one step is taken
// straight away. now anchors the next automatic step.
func (m *Machine) Run(now time.Time) {
	if m.Phase() == PhaseIdle {
		return
	}
	if !m.running {
		m.Step()
	}
	if m.Phase() == PhaseRunning {
		m.autoPlay = true
		m.lastTick = now
	}
}

// Pause turns off auto-play.
func (m *Machine) Pause() {
	m.autoPlay = false
}

// Tick takes at most one step when auto-play is on and an interval has
// passed since the previous one. Missed intervals are not made up.
func (m *Machine) Tick(now time.Time) bool {
	if !m.autoPlay || !m.running || m.Phase() != PhaseRunning {
		return false
	}
	if m.lastTick.IsZero() {
		m.lastTick = now
		return false
	}
	if now.Sub(m.lastTick) < m.interval {
		return false
	}
	m.lastTick = now
	return m.Step()
}

// Reset restarts the walk of the same steps. Classification and narration
// are kept.
func (m *Machine) Reset() {
	if !m.loaded {
		return
	}
	m.rewind()
}

// Exit returns to idle and drops the snapshot.
func (m *Machine) Exit() {
	m.rewind()
	m.loaded = false
	m.steps = nil
	m.narration = nil
	m.narrationReady = false
}

func (m *Machine) rewind() {
	m.current = 0
	m.last = -1
	m.running = false
	m.autoPlay = false
	m.lastTick = time.Time{}
	m.vars.Clear()
	for i := range m.steps {
		m.steps[i].IsCurrent = false
		m.steps[i].IsExecuted = false
	}
}

// Faster shortens the playback interval by one increment.
func (m *Machine) Faster() {
	m.SetInterval(m.interval - IntervalStep)
}

// Slower lengthens the playback interval by one increment.
func (m *Machine) Slower() {
	m.SetInterval(m.interval + IntervalStep)
}

// SetInterval sets the playback interval, clamped to [MinInterval, MaxInterval].
func (m *Machine) SetInterval(d time.Duration) {
	m.interval = min(max(d, MinInterval), MaxInterval)
}

// SetNarration stores the narration for the current run.
func (m *Machine) SetNarration(lines []string) {
	m.narration = lines
	m.narrationReady = true
}

// Narration returns the text for the most recently executed step, looked up
// by that step's index. Comment steps take an index too while the narration
// only covers non-comment lines, so text drifts when comments are mixed in.
// The empty string means no step has run yet.
func (m *Machine) Narration() string {
	if m.last < 0 {
		return ""
	}
	if !m.narrationReady {
		return NarrationPending
	}
	if m.last < len(m.narration) {
		return m.narration[m.last]
	}
	return NarrationUnavailable
}

func (m *Machine) NarrationReady() bool {
	return m.narrationReady
}

// NarrationLines returns the whole narration sequence.
func (m *Machine) NarrationLines() []string {
	return append([]string(nil), m.narration...)
}

// Phase reports where the machine is.
func (m *Machine) Phase() Phase {
	switch {
	case !m.loaded:
		return PhaseIdle
	case m.current >= len(m.steps):
		return PhaseFinished
	default:
		return PhaseRunning
	}
}

// Steps returns a copy of the steps with their flags.
func (m *Machine) Steps() []model.Step {
	return append([]model.Step(nil), m.steps...)
}

// Current is the index of the next step to execute.
func (m *Machine) Current() int {
	return m.current
}

// CurrentLine is the snapshot line number of the next step, 0 when finished.
func (m *Machine) CurrentLine() int {
	if m.current < len(m.steps) {
		return m.steps[m.current].LineNumber
	}
	return 0
}

// LastExecuted is the index of the most recently executed step, -1 if none.
func (m *Machine) LastExecuted() int {
	return m.last
}

func (m *Machine) Variables() []model.VariableEntry {
	return m.vars.Entries()
}

func (m *Machine) Variable(name string) (model.VariableEntry, bool) {
	return m.vars.Get(name)
}

func (m *Machine) Interval() time.Duration {
	return m.interval
}

func (m *Machine) IsRunning() bool {
	return m.running
}

func (m *Machine) IsAutoPlaying() bool {
	return m.autoPlay
}

// Progress is the executed share of steps in percent.
func (m *Machine) Progress() float64 {
	if len(m.steps) == 0 {
		return 0
	}
	return float64(m.current) / float64(len(m.steps)) * 100
}

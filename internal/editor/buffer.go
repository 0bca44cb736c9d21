// Package editor holds the editable source text and its cursor.
package editor

import "strings"

// Direction is a cursor movement.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// IndentWidth is the number of spaces Indent inserts.
const IndentWidth = 4

// SampleProgram is the buffer content a new editor starts with.
var SampleProgram = []string{
	"# Enter your Python code here:",
	"# Example:",
	"x = 10",
	"y = 20",
	"z = x + y",
	`print(f"Sum: {z}")`,
	"",
	"# You can add more lines...",
	"for i in range(3):",
	`    print(f"Count: {i}")`,
	"    result = i * 2",
	`    print(f"Double: {result}")`,
}

// Cursor is a position in the buffer. Col counts runes.
type Cursor struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Buffer is the editing surface. Lines are kept as rune slices so that
// columns stay valid for non-ASCII input.
//
// Invariant: 0 <= cursor.Line < len(lines), 0 <= cursor.Col <= len(lines[cursor.Line]).
type Buffer struct {
	lines  [][]rune
	cursor Cursor
}

// New returns a buffer holding the sample program with the cursor on the
// first statement.
func New() *Buffer {
	b := NewFromLines(SampleProgram)
	b.SetCursor(2, 0)
	return b
}

// NewFromLines returns a buffer with a copy of lines and the cursor at 0,0.
func NewFromLines(lines []string) *Buffer {
	b := &Buffer{}
	b.setLines(lines)
	return b
}

func (b *Buffer) setLines(lines []string) {
	b.lines = make([][]rune, 0, len(lines))
	for _, l := range lines {
		b.lines = append(b.lines, []rune(l))
	}
	if len(b.lines) == 0 {
		b.lines = [][]rune{{}}
	}
	b.cursor = Cursor{}
}

// SetText replaces the whole buffer. The cursor moves to 0,0.
func (b *Buffer) SetText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	b.setLines(strings.Split(text, "\n"))
}

// Text returns the buffer joined with newlines.
func (b *Buffer) Text() string {
	return strings.Join(b.Lines(), "\n")
}

// Lines returns a copy of the buffer lines. This is the snapshot taken when
// a visualization starts.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return out
}

func (b *Buffer) LineCount() int {
	return len(b.lines)
}

func (b *Buffer) Cursor() Cursor {
	return b.cursor
}

// SetCursor places the cursor, clamped into the buffer.
func (b *Buffer) SetCursor(line, col int) {
	line = clamp(line, 0, len(b.lines)-1)
	col = clamp(col, 0, len(b.lines[line]))
	b.cursor = Cursor{Line: line, Col: col}
}

// InsertChar inserts r at the cursor and moves past it.
func (b *Buffer) InsertChar(r rune) {
	b.insert([]rune{r})
}

// Indent inserts IndentWidth spaces at the cursor.
func (b *Buffer) Indent() {
	b.insert([]rune(strings.Repeat(" ", IndentWidth)))
}

func (b *Buffer) insert(rs []rune) {
	line := b.lines[b.cursor.Line]
	col := b.cursor.Col
	next := make([]rune, 0, len(line)+len(rs))
	next = append(next, line[:col]...)
	next = append(next, rs...)
	next = append(next, line[col:]...)
	b.lines[b.cursor.Line] = next
	b.cursor.Col += len(rs)
}

// InsertNewline splits the current line at the cursor and moves to the
// start of the new line.
func (b *Buffer) InsertNewline() {
	line := b.lines[b.cursor.Line]
	head := append([]rune(nil), line[:b.cursor.Col]...)
	tail := append([]rune(nil), line[b.cursor.Col:]...)

	b.lines[b.cursor.Line] = head
	b.lines = append(b.lines, nil)
	copy(b.lines[b.cursor.Line+2:], b.lines[b.cursor.Line+1:])
	b.lines[b.cursor.Line+1] = tail
	b.cursor = Cursor{Line: b.cursor.Line + 1, Col: 0}
}

// DeleteBackward removes the rune before the cursor. At column 0 it joins
// the line onto the previous one; at 0,0 it does nothing.
func (b *Buffer) DeleteBackward() {
	if b.cursor.Col > 0 {
		line := b.lines[b.cursor.Line]
		col := b.cursor.Col
		b.lines[b.cursor.Line] = append(line[:col-1:col-1], line[col:]...)
		b.cursor.Col--
		return
	}
	if b.cursor.Line == 0 {
		return
	}

	prev := b.cursor.Line - 1
	joinAt := len(b.lines[prev])
	b.lines[prev] = append(b.lines[prev], b.lines[b.cursor.Line]...)
	b.lines = append(b.lines[:b.cursor.Line], b.lines[b.cursor.Line+1:]...)
	b.cursor = Cursor{Line: prev, Col: joinAt}
}

// DeleteForward removes the rune under the cursor. Past end of line it is a
// no-op; lines are never joined from the right.
func (b *Buffer) DeleteForward() {
	line := b.lines[b.cursor.Line]
	col := b.cursor.Col
	if col >= len(line) {
		return
	}
	b.lines[b.cursor.Line] = append(line[:col:col], line[col+1:]...)
}

// MoveCursor moves one position in dir. Left and Right stop at the line
// edges; Up and Down clamp the column to the target line.
func (b *Buffer) MoveCursor(dir Direction) {
	switch dir {
	case Left:
		if b.cursor.Col > 0 {
			b.cursor.Col--
		}
	case Right:
		if b.cursor.Col < len(b.lines[b.cursor.Line]) {
			b.cursor.Col++
		}
	case Up:
		if b.cursor.Line > 0 {
			b.cursor.Line--
			b.cursor.Col = min(b.cursor.Col, len(b.lines[b.cursor.Line]))
		}
	case Down:
		if b.cursor.Line < len(b.lines)-1 {
			b.cursor.Line++
			b.cursor.Col = min(b.cursor.Col, len(b.lines[b.cursor.Line]))
		}
	}
}

// Home moves to the start of the line.
func (b *Buffer) Home() {
	b.cursor.Col = 0
}

// End moves to the end of the line.
func (b *Buffer) End() {
	b.cursor.Col = len(b.lines[b.cursor.Line])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

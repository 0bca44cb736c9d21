package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartsWithSample(t *testing.T) {
	b := New()
	require.Equal(t, SampleProgram, b.Lines())
	assert.Equal(t, Cursor{Line: 2, Col: 0}, b.Cursor())
}

func TestInsertChar(t *testing.T) {
	b := NewFromLines([]string{"ac"})
	b.SetCursor(0, 1)
	b.InsertChar('b')
	assert.Equal(t, []string{"abc"}, b.Lines())
	assert.Equal(t, Cursor{Line: 0, Col: 2}, b.Cursor())

	b.InsertChar('é')
	assert.Equal(t, "abéc", b.Text())
	assert.Equal(t, 3, b.Cursor().Col)
}

func TestIndent(t *testing.T) {
	b := NewFromLines([]string{"x = 1"})
	b.Indent()
	assert.Equal(t, "    x = 1", b.Text())
	assert.Equal(t, 4, b.Cursor().Col)
}

func TestInsertNewlineSplitsLine(t *testing.T) {
	b := NewFromLines([]string{"x = 10", "y"})
	b.SetCursor(0, 1)
	b.InsertNewline()
	assert.Equal(t, []string{"x", " = 10", "y"}, b.Lines())
	assert.Equal(t, Cursor{Line: 1, Col: 0}, b.Cursor())

	b.SetCursor(2, 1)
	b.InsertNewline()
	assert.Equal(t, []string{"x", " = 10", "y", ""}, b.Lines())
	assert.Equal(t, Cursor{Line: 3, Col: 0}, b.Cursor())
}

func TestDeleteBackward(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		line, col int
		want      []string
		cursor    Cursor
	}{
		{"mid line", []string{"abc"}, 0, 2, []string{"ac"}, Cursor{0, 1}},
		{"start of buffer", []string{"abc", "d"}, 0, 0, []string{"abc", "d"}, Cursor{0, 0}},
		{"joins previous line", []string{"ab", "cd"}, 1, 0, []string{"abcd"}, Cursor{0, 2}},
		{"removes empty line", []string{"ab", "", "x"}, 1, 0, []string{"ab", "x"}, Cursor{0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromLines(tt.lines)
			b.SetCursor(tt.line, tt.col)
			b.DeleteBackward()
			assert.Equal(t, tt.want, b.Lines())
			assert.Equal(t, tt.cursor, b.Cursor())
		})
	}
}

func TestDeleteForward(t *testing.T) {
	b := NewFromLines([]string{"abc", "d"})
	b.SetCursor(0, 1)
	b.DeleteForward()
	assert.Equal(t, []string{"ac", "d"}, b.Lines())
	assert.Equal(t, Cursor{0, 1}, b.Cursor())

	b.End()
	b.DeleteForward()
	assert.Equal(t, []string{"ac", "d"}, b.Lines(), "end of line must not join lines")
}

func TestMoveCursor(t *testing.T) {
	b := NewFromLines([]string{"long line", "ab", "longer line"})
	b.SetCursor(0, 7)

	b.MoveCursor(Down)
	assert.Equal(t, Cursor{1, 2}, b.Cursor(), "column clamps to shorter line")

	b.MoveCursor(Down)
	assert.Equal(t, Cursor{2, 2}, b.Cursor())

	b.MoveCursor(Down)
	assert.Equal(t, Cursor{2, 2}, b.Cursor(), "last line stays put")

	b.SetCursor(0, 0)
	b.MoveCursor(Up)
	b.MoveCursor(Left)
	assert.Equal(t, Cursor{0, 0}, b.Cursor())

	b.End()
	b.MoveCursor(Right)
	assert.Equal(t, Cursor{0, 9}, b.Cursor())
}

func TestSetCursorClamps(t *testing.T) {
	b := NewFromLines([]string{"ab", "c"})
	b.SetCursor(10, 10)
	assert.Equal(t, Cursor{1, 1}, b.Cursor())
	b.SetCursor(-1, -1)
	assert.Equal(t, Cursor{0, 0}, b.Cursor())
}

func TestSetText(t *testing.T) {
	b := New()
	b.SetText("a = 1\r\nb = 2")
	assert.Equal(t, []string{"a = 1", "b = 2"}, b.Lines())
	assert.Equal(t, Cursor{}, b.Cursor())

	b.SetText("")
	assert.Equal(t, 1, b.LineCount())
}

func TestLinesIsACopy(t *testing.T) {
	b := NewFromLines([]string{"x = 1"})
	snap := b.Lines()
	b.End()
	b.InsertChar('0')
	assert.Equal(t, "x = 1", snap[0])
	assert.Equal(t, "x = 10", b.Text())
}

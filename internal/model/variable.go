package model

import (
	"encoding/json"
	"strconv"
)

// ValueKind distinguishes the shapes the assignment heuristic can produce.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindFloat
	KindString
	KindRaw // right-hand text stored unevaluated
)

// Value is a guessed variable value.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Str   string
}

func IntValue(n int64) Value { return Value{Kind: KindInt, Int: n} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func RawValue(text string) Value { return Value{Kind: KindRaw, Str: text} }

// TypeName is the type tag shown next to the value.
// Raw fallbacks are reported as strings, the same as quoted literals.
func (v Value) TypeName() string {
	switch v.Kind {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "str"
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		s := strconv.FormatFloat(v.Float, 'f', -1, 64)
		// Keep a decimal point so 3.0 does not read as an int.
		for i := 0; i < len(s); i++ {
			if s[i] == '.' || s[i] == 'e' {
				return s
			}
		}
		return s + ".0"
	default:
		return v.Str
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return json.Marshal(v.Int)
	case KindFloat:
		return json.Marshal(v.Float)
	default:
		return json.Marshal(v.Str)
	}
}

// VariableEntry is one row of the variable table.
type VariableEntry struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
	Type  string `json:"type"`
	Line  int    `json:"line"` // step line number that last set it
}

// VariableTable maps names to entries and remembers first-insertion order.
type VariableTable struct {
	entries map[string]*VariableEntry
	order   []string
}

func NewVariableTable() *VariableTable {
	return &VariableTable{entries: make(map[string]*VariableEntry)}
}

// Set creates or overwrites name. An overwrite keeps the original position.
func (t *VariableTable) Set(name string, v Value, line int) {
	if e, ok := t.entries[name]; ok {
		e.Value = v
		e.Type = v.TypeName()
		e.Line = line
		return
	}
	t.entries[name] = &VariableEntry{Name: name, Value: v, Type: v.TypeName(), Line: line}
	t.order = append(t.order, name)
}

func (t *VariableTable) Get(name string) (VariableEntry, bool) {
	e, ok := t.entries[name]
	if !ok {
		return VariableEntry{}, false
	}
	return *e, true
}

func (t *VariableTable) Len() int {
	return len(t.order)
}

// Entries returns a copy of the rows in insertion order.
func (t *VariableTable) Entries() []VariableEntry {
	out := make([]VariableEntry, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.entries[name])
	}
	return out
}

func (t *VariableTable) Clear() {
	t.entries = make(map[string]*VariableEntry)
	t.order = nil
}

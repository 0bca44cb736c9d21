package model

// Tag is the syntactic shape a source line was classified as.
type Tag int

const (
	TagComment Tag = iota
	TagFunctionDef
	TagForLoop
	TagIfStatement
	TagPrintStatement
	TagAssignment
	TagExpression
)

var tagNames = [...]string{
	TagComment:        "comment",
	TagFunctionDef:    "function_def",
	TagForLoop:        "for_loop",
	TagIfStatement:    "if_statement",
	TagPrintStatement: "print_statement",
	TagAssignment:     "assignment",
	TagExpression:     "expression",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "unknown"
	}
	return tagNames[t]
}

// MarshalText lets tags appear by name in JSON output.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Step is one classified, non-blank line of the snapshot.
type Step struct {
	LineNumber int    `json:"line"` // 1-based line in the snapshot
	Text       string `json:"text"` // raw line, indentation kept
	Indent     int    `json:"indent"`
	Tag        Tag    `json:"tag"`
	IsCurrent  bool   `json:"isCurrent"`
	IsExecuted bool   `json:"isExecuted"`
}

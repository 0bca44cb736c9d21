package trace

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"codeflow/internal/model"
)

// ErrNotAssignment is returned by Evaluate for text without '='.
var ErrNotAssignment = errors.New("no '=' in assignment")

// Evaluate guesses the variable written by an assignment line.
//
// This is a decision table, not an expression evaluator. The right-hand side
// goes through these rules in order and the first one that applies wins:
//
//  1. contains '+' and does not start with '"': two all-digit operands are
//     summed, anything else is kept as raw text
//  2. all digits: int
//  3. all digits once '.' and '-' are removed: float
//  4. starts with a quote: one quote stripped from each end
//  5. raw text
//
// Rule 3 also accepts text such as "1-2-3"; the float
// conversion then fails and Evaluate returns an error.
func Evaluate(text string) (string, model.Value, error) {
	text = strings.TrimSpace(text)
	lhs, rhs, ok := strings.Cut(text, "=")
	if !ok {
		return "", model.Value{}, ErrNotAssignment
	}
	name := strings.TrimSpace(lhs)
	expr := strings.TrimSpace(rhs)

	v, err := evalExpr(expr)
	if err != nil {
		return name, model.Value{}, fmt.Errorf("evaluating %q: %w", expr, err)
	}
	return name, v, nil
}

func evalExpr(expr string) (model.Value, error) {
	switch {
	case strings.Contains(expr, "+") && !strings.HasPrefix(expr, `"`):
		parts := strings.Split(expr, "+")
		if len(parts) != 2 {
			return model.RawValue(expr), nil
		}
		left := strings.TrimSpace(parts[0])
		right := strings.TrimSpace(parts[1])
		if !isDigits(left) || !isDigits(right) {
			return model.RawValue(expr), nil
		}
		a, err := strconv.ParseInt(left, 10, 64)
		if err != nil {
			return model.Value{}, err
		}
		b, err := strconv.ParseInt(right, 10, 64)
		if err != nil {
			return model.Value{}, err
		}
		if a > math.MaxInt64-b {
			return model.Value{}, strconv.ErrRange
		}
		return model.IntValue(a + b), nil

	case isDigits(expr):
		n, err := strconv.ParseInt(expr, 10, 64)
		if err != nil {
			return model.Value{}, err
		}
		return model.IntValue(n), nil

	case isDigits(strings.NewReplacer(".", "", "-", "").Replace(expr)):
		f, err := strconv.ParseFloat(expr, 64)
		if err != nil {
			return model.Value{}, err
		}
		return model.FloatValue(f), nil

	case strings.HasPrefix(expr, `"`) || strings.HasPrefix(expr, "'"):
		s := expr[1:]
		if strings.HasSuffix(s, `"`) || strings.HasSuffix(s, "'") {
			s = s[:len(s)-1]
		}
		return model.StringValue(s), nil

	default:
		return model.RawValue(expr), nil
	}
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

package narrate

import (
	"fmt"
	"strings"
)

const promptTemplate = `Analyze this Python code and provide detailed, step-by-step explanations for each line of execution.
Explain what happens at each step in a simple, organized, and detailed way.

Code:
%s

Please provide explanations like:
- "Here variable x is assigned the value 10"
- "Variable y is assigned the value 20"
- "Variable z is calculated by adding x and y, resulting in 30"
- "The print statement outputs the formatted string with the sum"
- "The for loop starts, initializing i to 0"
- "Inside the loop, i is 0, so 'Count: 0' is printed"
- etc.

Make each explanation clear, simple, and educational. Focus on what each line does and how variables change.`

// Prompt builds the instruction sent with the program lines.
func Prompt(lines []Line) string {
	code := make([]string, 0, len(lines))
	for _, l := range lines {
		code = append(code, fmt.Sprintf("Line %d: %s", l.Number, l.Text))
	}
	return fmt.Sprintf(promptTemplate, strings.Join(code, "\n"))
}

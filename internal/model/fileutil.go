package model

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadSourceLines reads a program file into lines for the editor.
// A trailing newline does not produce an extra empty line.
func ReadSourceLines(filePath string) ([]string, error) {
	// Expand tilde in file path
	if strings.HasPrefix(filePath, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			filePath = strings.Replace(filePath, "~", home, 1)
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not read file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var lines []string
	for scanner.Scan() {
		// Editor columns are runes, drop stray carriage returns from CRLF files.
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return lines, nil
}

// LineContext is a snapshot line with up to two neighbours on each side.
type LineContext struct {
	Before     []string // oldest first
	Target     string
	After      []string
	LineNumber int
	ErrorMsg   string
}

// GetLineContext returns the 1-based lineNumber of lines with its neighbours.
func GetLineContext(lines []string, lineNumber int) LineContext {
	result := LineContext{LineNumber: lineNumber}
	if lineNumber < 1 || lineNumber > len(lines) {
		result.ErrorMsg = fmt.Sprintf("Line %d out of range (source has %d lines)", lineNumber, len(lines))
		return result
	}

	idx := lineNumber - 1
	result.Target = lines[idx]
	for i := max(0, idx-2); i < idx; i++ {
		result.Before = append(result.Before, lines[i])
	}
	for i := idx + 1; i < len(lines) && i <= idx+2; i++ {
		result.After = append(result.After, lines[i])
	}
	return result
}

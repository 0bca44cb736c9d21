package model

import (
	_ "embed"
	"strings"
)

//go:embed help.md
var helpMD string

// HelpText is the user guide shown by the terminal and web front ends.
func HelpText() string {
	return strings.ReplaceAll(helpMD, "{{VERSION}}", Version)
}

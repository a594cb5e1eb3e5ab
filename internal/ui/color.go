// Package ui renders the terminal report of a bookmark sync: one colored
// status line per project plus validation findings.
package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind selects the symbol and color of a status line.
type Kind int

const (
	// KindSuccess marks a synced project or a passed check.
	KindSuccess Kind = iota
	// KindError marks a failed project or a validation error.
	KindError
	// KindWarning marks malformed lines and validation warnings.
	KindWarning
	// KindSkipped marks a project without a local bookmark file.
	KindSkipped
	// KindPending marks a project that a dry run would sync.
	KindPending
)

type style struct {
	symbol string
	paint  func(a ...any) string
}

var styles = map[Kind]style{
	KindSuccess: {"✓", color.New(color.FgGreen).SprintFunc()},
	KindError:   {"✗", color.New(color.FgRed).SprintFunc()},
	KindWarning: {"⚠", color.New(color.FgYellow).SprintFunc()},
	KindSkipped: {"-", color.New(color.Faint).SprintFunc()},
	KindPending: {"○", color.New(color.FgCyan).SprintFunc()},
}

var (
	bold       = color.New(color.Bold).SprintFunc()
	dim        = color.New(color.Faint).SprintFunc()
	titleCaser = cases.Title(language.English)
)

// Symbol returns the plain status symbol of k.
func Symbol(k Kind) string {
	return styles[k].symbol
}

// Status returns the colored symbol of k followed by msg, if any.
func Status(k Kind, msg string) string {
	s := styles[k]
	if msg == "" {
		return s.paint(s.symbol)
	}
	return s.paint(s.symbol) + " " + msg
}

// Label colors text with the color of k, without a symbol.
func Label(k Kind, text string) string {
	return styles[k].paint(text)
}

// Bold emphasizes a project name.
func Bold(text string) string {
	return bold(text)
}

// Dim renders secondary details such as file paths.
func Dim(text string) string {
	return dim(text)
}

// Title upper-cases the first letter of a state name ("skipped" -> "Skipped").
func Title(s string) string {
	return titleCaser.String(s)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// ConfigureColors turns colors off for --no-color, NO_COLOR, or output that
// is not a terminal, and on otherwise.
func ConfigureColors(noColor bool, out *os.File) {
	_, envSet := os.LookupEnv("NO_COLOR")
	SetColors(!noColor && !envSet && IsTerminal(out))
}

// SetColors switches colored output on or off.
func SetColors(enabled bool) {
	color.NoColor = !enabled
}

// ColorsEnabled reports whether output is colored.
func ColorsEnabled() bool {
	return !color.NoColor
}

// Package cmdutils holds terminal output helpers shared by the CLI commands.
package cmdutils

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/deskpilot/deskpilot/internal/schema"
)

const Logo = "📎"

var (
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e")).Italic(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	unsetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
)

// PrintHeader writes the assistant's name line that precedes an answer.
func PrintHeader(w io.Writer) {
	fmt.Fprintf(w, "\n%s %s\n", Logo, nameStyle.Render("deskpilot"))
}

// PrintResponse writes a complete answer with its header.
func PrintResponse(w io.Writer, text string) {
	if text == "" {
		return
	}
	PrintHeader(w)
	fmt.Fprintf(w, "%s\n\n", text)
}

// PrintToolHint writes the `↳ tool("arg")` progress line.
func PrintToolHint(w io.Writer, hint string) {
	fmt.Fprintf(w, "  %s\n", hintStyle.Render("↳ "+hint))
}

// PrintFailure writes a failed turn as a notice naming the failure kind.
func PrintFailure(w io.Writer, err error) {
	fmt.Fprintf(w, "\n%s %s\n\n", errorStyle.Render("✗ "+schema.ErrorKind(err)+":"), err.Error())
}

// Mark renders a check for set values and a cross otherwise.
func Mark(ok bool) string {
	if ok {
		return okStyle.Render("✓")
	}
	return unsetStyle.Render("✗")
}

// NotSet renders the placeholder for missing settings.
func NotSet() string {
	return unsetStyle.Render("(not set)")
}

package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm asks a yes/no question on out and reads the answer from in.
// An empty answer selects def; end of input selects false.
func Confirm(in io.Reader, out io.Writer, question string, def bool) bool {
	choices := "[y/N]"
	if def {
		choices = "[Y/n]"
	}

	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	reader := bufio.NewReader(in)

	for {
		fmt.Fprint(out, promptStyle.Render(question+" "+choices+" "))

		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			fmt.Fprintln(out)
			return false
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "":
			return def
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}

		if err != nil {
			fmt.Fprintln(out)
			return false
		}
		fmt.Fprintln(out, lipgloss.NewStyle().Foreground(MutedColor).Render("  Please answer y or n."))
	}
}

package screens

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/xmlconfig/internal/version"
)

// Application branding constants
const (
	AppName = "XMLCONFIG"
	RepoURL = "github.com/muurk/xmlconfig"
)

// Layout constants for responsive terminal width
const (
	MinTerminalWidth  = 60 // Minimum supported terminal width
	DefaultWidth      = 80 // Used before the first tea.WindowSizeMsg
	DefaultHeight     = 24
	DefaultModalWidth = 64
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = lipgloss.Color("#7D56F4") // Purple (same as primary)
	HighlightColor = lipgloss.Color("#43BF6D") // Green (same as secondary)
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	MenuItemStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(TextColor)

	SelectedMenuItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(HighlightColor).
				Bold(true)

	DisabledItemStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Strikethrough(true)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	BlurredLabelStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningTextStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	SuccessTextStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	// Modal box for dialogs
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	ErrorModalStyle = ModalStyle.
			BorderForeground(ErrorColor)

	ButtonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(TextColor).
			Background(SubtleColor)

	ActiveButtonStyle = ButtonStyle.
				Background(PrimaryColor).
				Bold(true)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderMenuItem renders a menu item with selection indicator
func RenderMenuItem(text string, selected bool) string {
	if selected {
		return SelectedMenuItemStyle.Render("→ " + text)
	}
	return MenuItemStyle.Render(text)
}

// RenderButtons renders a row of buttons with the active one highlighted
func RenderButtons(labels []string, active int) string {
	buttons := make([]string, 0, len(labels)*2)
	for i, label := range labels {
		style := ButtonStyle
		if i == active {
			style = ActiveButtonStyle
		}
		if i > 0 {
			buttons = append(buttons, "  ")
		}
		buttons = append(buttons, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

// buildHeaderContent creates header content with app name, version and the
// file being edited
func buildHeaderContent(subject string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + version.Version)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(subject)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// screenSize falls back to defaults until the terminal size is known
func screenSize(width, height int) (int, int) {
	if width < MinTerminalWidth {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return width, height
}

// RenderApplicationContainer wraps a screen's content with the application
// header and a footer holding the context-sensitive help line. Every
// full-screen view uses it:
//
//	func (m Model) View() string {
//	    return RenderApplicationContainer(subject, m.buildContent(), m.help.View(m.keys), m.width, m.height)
//	}
func RenderApplicationContainer(subject, content, footerText string, terminalWidth, terminalHeight int) string {
	terminalWidth, terminalHeight = screenSize(terminalWidth, terminalHeight)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4). // Leave room for outer border
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth-4).
		Padding(0, 1)

	innerContent := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(buildHeaderContent(subject)),
		contentStyle.Render(content),
		footerStyle.Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(innerContent)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// SafeModalWidth returns the smaller of requestedWidth and what fits the terminal
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}

// RenderModal centers already styled modal content on a dimmed screen
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	terminalWidth, terminalHeight = screenSize(terminalWidth, terminalHeight)
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel is a yes/no question.
type ConfirmModel struct {
	Title    string
	Question string

	yes      bool // cursor on "Yes"
	answered bool
	answer   bool
}

// NewConfirm creates a question with the cursor on def.
func NewConfirm(title, question string, def bool) ConfirmModel {
	return ConfirmModel{Title: title, Question: question, yes: def}
}

// Update handles input; y/n answer directly, esc answers no
func (m ConfirmModel) Update(msg tea.Msg) (ConfirmModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.answered {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "right", "h", "l", "tab", "shift+tab":
		m.yes = !m.yes
	case "y", "Y":
		m.answered, m.answer = true, true
	case "n", "N", "esc":
		m.answered, m.answer = true, false
	case "enter", " ":
		m.answered, m.answer = true, m.yes
	}
	return m, nil
}

// Answered reports whether the user made a choice
func (m ConfirmModel) Answered() bool { return m.answered }

// Answer returns the choice; only meaningful once answered
func (m ConfirmModel) Answer() bool { return m.answer }

// View renders the question box
func (m ConfirmModel) View(width int) string {
	active := 1
	if m.yes {
		active = 0
	}

	var b strings.Builder
	if m.Title != "" {
		b.WriteString(RenderTitle(m.Title))
		b.WriteString("\n")
	}
	b.WriteString(m.Question)
	b.WriteString("\n\n")
	b.WriteString(RenderButtons([]string{"Yes", "No"}, active))

	return ModalStyle.Width(SafeModalWidth(DefaultModalWidth, width)).Render(b.String())
}

// MessageKind selects the styling of a message box
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageError
)

// MessageModel is an informational box closed with any confirming key.
type MessageModel struct {
	Title string
	Text  string
	Kind  MessageKind

	closed bool
}

// NewMessage creates an info message
func NewMessage(title, text string) MessageModel {
	return MessageModel{Title: title, Text: text, Kind: MessageInfo}
}

// NewErrorMessage creates an error message
func NewErrorMessage(title, text string) MessageModel {
	return MessageModel{Title: title, Text: text, Kind: MessageError}
}

// Update closes the message on enter, space or esc
func (m MessageModel) Update(msg tea.Msg) (MessageModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", " ", "esc", "q":
			m.closed = true
		}
	}
	return m, nil
}

// Closed reports whether the message was dismissed
func (m MessageModel) Closed() bool { return m.closed }

// View renders the message box
func (m MessageModel) View(width int) string {
	style := ModalStyle
	title := m.Title
	if m.Kind == MessageError {
		style = ErrorModalStyle
		title = ErrorTextStyle.Render("✗ " + title)
	} else {
		title = RenderTitle(title)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.Text,
		"",
		RenderButtons([]string{"OK"}, 0),
	)
	return style.Width(SafeModalWidth(DefaultModalWidth, width)).Render(content)
}

package screens

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FilePickerModel picks an XML file to import.
type FilePickerModel struct {
	title   string
	subject string
	picker  filepicker.Model
	done    bool
	path    string
	errMsg  string

	width  int
	height int
	keys   pickerKeyMap
	help   help.Model
}

// NewFilePicker creates a picker for .xml files starting in dir.
func NewFilePicker(title, subject, dir string) FilePickerModel {
	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = []string{".xml"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowHidden = false
	// esc cancels the picker instead of going up a directory
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "back"),
	)

	return FilePickerModel{
		title:   title,
		subject: subject,
		picker:  fp,
		keys:    newPickerKeyMap(),
		help:    help.New(),
	}
}

// Init reads the start directory
func (m FilePickerModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Done reports whether a file was chosen or the picker was cancelled
func (m FilePickerModel) Done() bool { return m.done }

// Path returns the chosen file, empty when cancelled
func (m FilePickerModel) Path() string { return m.path }

// Update handles input
func (m FilePickerModel) Update(msg tea.Msg) (FilePickerModel, tea.Cmd) {
	if m.done {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Cancel) {
			m.done = true
			m.path = ""
			return m, nil
		}
		m.errMsg = ""
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		if IsHelpFile(path) {
			m.errMsg = fmt.Sprintf("%s is a help file and cannot be imported", filepath.Base(path))
			return m, cmd
		}
		m.done = true
		m.path = path
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.errMsg = fmt.Sprintf("%s is not an XML file", filepath.Base(path))
	}
	return m, cmd
}

// View renders the picker
func (m FilePickerModel) View() string {
	parts := []string{
		RenderTitle(m.title),
		SubtitleStyle.Render(m.picker.CurrentDirectory),
		"",
		m.picker.View(),
	}
	if m.errMsg != "" {
		parts = append(parts, ErrorTextStyle.Render("✗ "+m.errMsg))
	}
	return RenderApplicationContainer(m.subject, lipgloss.JoinVertical(lipgloss.Left, parts...), m.help.View(m.keys), m.width, m.height)
}

// IsHelpFile reports whether path names a help document rather than a config file
func IsHelpFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(base, ".xml") && strings.Contains(strings.TrimSuffix(base, ".xml"), "help")
}

// LocationModel asks for the path an export is written to.
type LocationModel struct {
	title   string
	subject string
	input   textinput.Model
	done    bool
	path    string
	errMsg  string

	width  int
	height int
}

// NewLocation creates a location prompt prefilled with initial.
func NewLocation(title, subject, initial string) LocationModel {
	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()

	return LocationModel{title: title, subject: subject, input: ti}
}

// Init starts the cursor blinking
func (m LocationModel) Init() tea.Cmd { return textinput.Blink }

// Done reports whether a location was entered or the prompt was cancelled
func (m LocationModel) Done() bool { return m.done }

// Path returns the entered location, empty when cancelled
func (m LocationModel) Path() string { return m.path }

// Update handles input
func (m LocationModel) Update(msg tea.Msg) (LocationModel, tea.Cmd) {
	if m.done {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.done = true
			m.path = ""
			return m, nil
		case "enter":
			path := ExpandHome(strings.TrimSpace(m.input.Value()))
			if path == "" {
				m.errMsg = "Please enter a file name"
				return m, nil
			}
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				m.errMsg = fmt.Sprintf("%s is a directory", path)
				return m, nil
			}
			m.done = true
			m.path = path
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt
func (m LocationModel) View() string {
	parts := []string{
		RenderTitle(m.title),
		m.input.View(),
	}
	if m.errMsg != "" {
		parts = append(parts, "", ErrorTextStyle.Render("✗ "+m.errMsg))
	}
	return RenderApplicationContainer(m.subject, lipgloss.JoinVertical(lipgloss.Left, parts...), "enter: export • esc: cancel", m.width, m.height)
}

// ExpandHome replaces a leading "~/" with the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

// editorConfirm identifies the question the editor is waiting on
type editorConfirm int

const (
	confirmNone editorConfirm = iota
	confirmDiscardEdit
	confirmOverwriteKey
)

// EditorOptions configure an editor screen.
type EditorOptions struct {
	Nouns   xmlconfig.Nouns
	Subject string // Shown in the header, usually the canonical file
	// Exists reports whether a key is taken; used to ask before overwriting
	// another object. May be nil.
	Exists func(key string) bool
}

// EditorModel edits one config object through a Form.
type EditorModel[T xmlconfig.Object] struct {
	form     Form[T]
	opts     EditorOptions
	fields   []Field
	inputs   []textinput.Model
	initial  []string
	origKey  string
	origName string
	updating bool
	focus    int
	errMsg   string

	confirm    ConfirmModel
	confirming editorConfirm
	pending    T

	done   bool
	result xmlconfig.EditResult[T]

	width  int
	height int
	keys   editorKeyMap
	help   help.Model
}

// NewEditor creates an editor for existing, or for a new object when
// updating is false.
func NewEditor[T xmlconfig.Object](form Form[T], existing T, updating bool, opts EditorOptions) EditorModel[T] {
	if opts.Nouns == (xmlconfig.Nouns{}) {
		opts.Nouns = xmlconfig.DefaultNouns
	}

	m := EditorModel[T]{
		form:     form,
		opts:     opts,
		fields:   form.Fields(existing, updating),
		updating: updating,
		keys:     newEditorKeyMap(),
		help:     help.New(),
	}
	if updating {
		m.origKey = existing.Key()
		m.origName = displayName(existing)
	}

	for _, f := range m.fields {
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		ti.CharLimit = f.CharLimit
		if ti.CharLimit == 0 {
			ti.CharLimit = 256
		}
		ti.Width = 48
		ti.SetValue(f.Value)
		m.inputs = append(m.inputs, ti)
		m.initial = append(m.initial, f.Value)
	}
	if len(m.inputs) > 0 && !m.isChoice(0) {
		m.inputs[0].Focus()
	}
	return m
}

// Init starts the cursor blinking
func (m EditorModel[T]) Init() tea.Cmd {
	return textinput.Blink
}

// Done reports whether the editor was saved or cancelled
func (m EditorModel[T]) Done() bool { return m.done }

// Result returns the editor outcome; only meaningful once done
func (m EditorModel[T]) Result() xmlconfig.EditResult[T] { return m.result }

// Values returns the current field values in form order
func (m EditorModel[T]) Values() []string {
	values := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		values[i] = in.Value()
	}
	return values
}

// Err returns the message of the last failed save attempt
func (m EditorModel[T]) Err() string { return m.errMsg }

func (m EditorModel[T]) isChoice(i int) bool {
	return i < len(m.fields) && len(m.fields[i].Choices) > 0
}

func (m EditorModel[T]) changed() bool {
	for i, in := range m.inputs {
		if in.Value() != m.initial[i] {
			return true
		}
	}
	return false
}

// Update handles input for the form and its questions
func (m EditorModel[T]) Update(msg tea.Msg) (EditorModel[T], tea.Cmd) {
	if m.done {
		return m, nil
	}
	if m.confirming != confirmNone {
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m.cancel()
		case key.Matches(msg, m.keys.Save):
			return m.save()
		case msg.String() == "enter":
			if m.focus == len(m.inputs)-1 {
				return m.save()
			}
			return m.moveFocus(1)
		case key.Matches(msg, m.keys.Next):
			return m.moveFocus(1)
		case key.Matches(msg, m.keys.Prev):
			return m.moveFocus(-1)
		case m.isChoice(m.focus) && key.Matches(msg, m.keys.Cycle):
			if msg.String() == "left" {
				m.cycle(-1)
			} else {
				m.cycle(1)
			}
			return m, nil
		}
	}

	if len(m.inputs) == 0 || m.isChoice(m.focus) {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m EditorModel[T]) updateConfirm(msg tea.Msg) (EditorModel[T], tea.Cmd) {
	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.Update(msg)
	if !m.confirm.Answered() {
		return m, cmd
	}

	asked := m.confirming
	m.confirming = confirmNone
	if !m.confirm.Answer() {
		return m, cmd
	}

	switch asked {
	case confirmDiscardEdit:
		m.finish(xmlconfig.Cancelled[T]())
	case confirmOverwriteKey:
		m.finish(xmlconfig.Committed(m.pending))
	}
	return m, cmd
}

func (m EditorModel[T]) moveFocus(delta int) (EditorModel[T], tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	if m.isChoice(m.focus) {
		return m, nil
	}
	return m, m.inputs[m.focus].Focus()
}

func (m *EditorModel[T]) cycle(delta int) {
	choices := m.fields[m.focus].Choices
	current := 0
	for i, c := range choices {
		if c == m.inputs[m.focus].Value() {
			current = i
			break
		}
	}
	next := (current + delta + len(choices)) % len(choices)
	m.inputs[m.focus].SetValue(choices[next])
}

func (m EditorModel[T]) cancel() (EditorModel[T], tea.Cmd) {
	if !m.changed() {
		m.finish(xmlconfig.Cancelled[T]())
		return m, nil
	}

	name := m.origName
	if name == "" {
		name = "new " + m.opts.Nouns.Singular
	}
	m.confirm = NewConfirm("Close without saving?", fmt.Sprintf("Really close without saving %q?", name), true)
	m.confirming = confirmDiscardEdit
	return m, nil
}

func (m EditorModel[T]) save() (EditorModel[T], tea.Cmd) {
	m.errMsg = ""
	obj, err := m.form.Build(m.Values())
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	if v, ok := any(obj).(xmlconfig.Validator); ok {
		if problem := v.Validate(); problem != "" {
			m.errMsg = problem
			return m, nil
		}
	}

	// Storing under another object's key replaces that object
	if obj.Key() != m.origKey && m.opts.Exists != nil && m.opts.Exists(obj.Key()) {
		m.pending = obj
		m.confirm = NewConfirm("Overwrite?",
			fmt.Sprintf("%s %q already exists. Do you want to overwrite?", capitalize(m.opts.Nouns.Singular), displayName(obj)),
			true)
		m.confirming = confirmOverwriteKey
		return m, nil
	}

	m.finish(xmlconfig.Committed(obj))
	return m, nil
}

func (m *EditorModel[T]) finish(res xmlconfig.EditResult[T]) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.done = true
	m.result = res
}

func (m EditorModel[T]) title() string {
	if m.updating {
		return fmt.Sprintf("Edit %s %q", m.opts.Nouns.Singular, m.origName)
	}
	return "Add " + m.opts.Nouns.Singular
}

// View renders the form, or the pending question on top of it
func (m EditorModel[T]) View() string {
	if m.confirming != confirmNone {
		return RenderModal(m.confirm.View(m.width), m.width, m.height)
	}
	return RenderApplicationContainer(m.opts.Subject, m.buildContent(), m.help.View(m.keys), m.width, m.height)
}

func (m EditorModel[T]) buildContent() string {
	var b strings.Builder
	b.WriteString(RenderTitle(m.title()))
	b.WriteString("\n")

	labelWidth := 0
	for _, f := range m.fields {
		labelWidth = max(labelWidth, len(f.Label))
	}

	for i, f := range m.fields {
		label := fmt.Sprintf("%-*s", labelWidth, f.Label)
		if i == m.focus {
			label = FocusedLabelStyle.Render("→ " + label)
		} else {
			label = BlurredLabelStyle.Render("  " + label)
		}

		value := m.inputs[i].View()
		if m.isChoice(i) {
			value = "‹ " + m.inputs[i].Value() + " ›"
			if i == m.focus {
				value = FocusedLabelStyle.Render(value)
			}
		}
		b.WriteString(label + "  " + value + "\n")
	}

	if m.focus < len(m.fields) && m.fields[m.focus].Help != "" {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render(m.fields[m.focus].Help))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(ErrorTextStyle.Render("✗ " + m.errMsg))
		b.WriteString("\n")
	}
	return b.String()
}

// displayName returns the object's name, falling back to its key
func displayName[T xmlconfig.Object](obj T) string {
	if n, ok := any(obj).(xmlconfig.Named); ok {
		return n.Name()
	}
	return obj.Key()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

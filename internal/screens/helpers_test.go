package screens

import (
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

// note is a minimal config object for screen tests.
type note struct {
	id   string
	text string
	on   bool
}

func (n *note) Key() string   { return n.id }
func (n *note) Name() string  { return n.id }
func (n *note) Enabled() bool { return n.on }

func (n *note) Validate() string {
	if n.id == "" {
		return "name must not be empty"
	}
	return ""
}

type noteForm struct{}

func (noteForm) Fields(n *note, updating bool) []Field {
	if n == nil {
		n = &note{on: true}
	}
	return []Field{
		{Label: "Name", Value: n.id},
		{Label: "Text", Value: n.text},
		{Label: "Enabled", Value: xmlconfig.DefaultBoolStrings.Format(n.on), Choices: []string{"yes", "no"}},
	}
}

func (noteForm) Build(values []string) (*note, error) {
	on, err := xmlconfig.DefaultBoolStrings.Parse(values[2])
	if err != nil {
		return nil, err
	}
	return &note{id: values[0], text: values[1], on: on}, nil
}

type noteXML struct {
	XMLName xml.Name `xml:"note"`
	ID      string   `xml:"id,attr"`
	On      string   `xml:"on,attr"`
	Text    string   `xml:",chardata"`
}

type notesXML struct {
	XMLName xml.Name  `xml:"notes"`
	Notes   []noteXML `xml:"note"`
}

type noteCodec struct{}

func (noteCodec) Encode(objects []*note) ([]byte, error) {
	var doc notesXML
	for _, n := range objects {
		doc.Notes = append(doc.Notes, noteXML{ID: n.id, On: xmlconfig.DefaultBoolStrings.Format(n.on), Text: n.text})
	}
	return xmlconfig.MarshalDocument(doc)
}

func (noteCodec) Decode(el xmlconfig.Element) (*note, error) {
	var x noteXML
	if err := el.Decode(&x); err != nil {
		return nil, err
	}
	if x.ID == "" {
		return nil, errors.New("missing id")
	}
	on, _ := el.Bool("on", true, xmlconfig.DefaultBoolStrings)
	return &note{id: x.ID, text: x.Text, on: on}, nil
}

var noteNouns = xmlconfig.Nouns{
	Singular:        "note",
	SingularArticle: "the note",
	Plural:          "notes",
	PluralArticle:   "the notes",
}

// newNoteSupport returns a support whose file holds the given notes.
func newNoteSupport(t *testing.T, notes ...*note) *xmlconfig.Support[*note] {
	t.Helper()
	s := xmlconfig.New(xmlconfig.Options[*note]{
		Path:  filepath.Join(t.TempDir(), "notes.xml"),
		Tag:   "note",
		Codec: noteCodec{},
		Nouns: noteNouns,
	})
	if len(notes) > 0 {
		if err := s.WriteXML(xmlconfig.WriteOptions[*note]{Objects: notes}); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
		s.Invalidate()
	}
	return s
}

func writeNotes(t *testing.T, path string, notes ...*note) {
	t.Helper()
	data, err := noteCodec{}.Encode(notes)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

var (
	enterKey = keyOf(tea.KeyEnter)
	escKey   = keyOf(tea.KeyEsc)
	tabKey   = keyOf(tea.KeyTab)
	saveKey  = keyOf(tea.KeyCtrlS)
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

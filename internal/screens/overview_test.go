package screens

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/xmlconfig/internal/xmlconfig"
)

// press feeds msgs to the overview and returns the resulting model.
func press(t *testing.T, m OverviewModel[*note], msgs ...tea.Msg) (OverviewModel[*note], tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var model tea.Model
		model, cmd = m.Update(msg)
		next, ok := model.(OverviewModel[*note])
		if !ok {
			t.Fatalf("Update() returned %T, want OverviewModel", model)
		}
		m = next
	}
	return m, cmd
}

func fileKeys(t *testing.T, s *xmlconfig.Support[*note], path string) []string {
	t.Helper()
	objects, err := s.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile(%s) error = %v", path, err)
	}
	var keys []string
	for _, n := range objects {
		keys = append(keys, n.id)
	}
	return keys
}

func TestOverviewHoldsWriteLock(t *testing.T) {
	s := newNoteSupport(t, &note{id: "one", on: true})

	m := NewOverview(s, noteForm{}, OverviewOptions{})
	if !s.WriteForbidden() {
		t.Error("Expected writes to be forbidden while the overview is open")
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 note loaded, got %d", s.Len())
	}

	m, cmd := press(t, m, escKey)
	if !m.Closed() || m.Saved() {
		t.Errorf("Closed() = %v, Saved() = %v, want true, false", m.Closed(), m.Saved())
	}
	if s.WriteForbidden() {
		t.Error("Expected write lock to be released on close")
	}
	if cmd == nil {
		t.Error("Expected a quit command on close")
	}
}

func TestOverviewMissingFile(t *testing.T) {
	s := newNoteSupport(t)

	m := NewOverview(s, noteForm{}, OverviewOptions{})
	if m.Status() != "" {
		t.Errorf("Expected no status for a missing file, got %q", m.Status())
	}
	if !strings.Contains(m.View(), "No notes yet") {
		t.Error("Expected empty list hint in view")
	}
}

func TestOverviewAddKeepsChangeInMemory(t *testing.T) {
	s := newNoteSupport(t, &note{id: "one", on: true})
	m := NewOverview(s, noteForm{}, OverviewOptions{})

	m, _ = press(t, m, runes("a"), runes("two"), saveKey)

	if !s.Exists("two") {
		t.Fatal("Expected new note in registry")
	}
	if !s.Dirty() {
		t.Error("Expected registry to be dirty after add")
	}
	if cur, ok := m.Current(); !ok || cur.id != "two" {
		t.Errorf("Expected new note highlighted, got %v", cur)
	}
	if got := fileKeys(t, s, s.Path()); len(got) != 1 {
		t.Errorf("Expected file untouched until save, got %v", got)
	}
}

func TestOverviewEditRenames(t *testing.T) {
	s := newNoteSupport(t, &note{id: "one", on: true})
	m := NewOverview(s, noteForm{}, OverviewOptions{})

	m, _ = press(t, m, enterKey, runes("x"), saveKey)

	if s.Exists("one") || !s.Exists("onex") {
		t.Errorf("Expected one renamed to onex, got %v", s.Keys())
	}
	if m.Closed() {
		t.Error("Expected overview to stay open after edit")
	}
}

func TestOverviewDeleteAndSave(t *testing.T) {
	s := newNoteSupport(t, &note{id: "one", on: true}, &note{id: "two", on: true})
	m := NewOverview(s, noteForm{}, OverviewOptions{})

	m, _ = press(t, m, runes("d"), runes("y"))
	if s.Exists("one") {
		t.Fatal("Expected first note deleted")
	}
	if !s.Dirty() {
		t.Error("Expected registry to be dirty after delete")
	}

	m, _ = press(t, m, runes("s"))
	if !m.Closed() || !m.Saved() {
		t.Errorf("Closed() = %v, Saved() = %v, want true, true", m.Closed(), m.Saved())
	}
	if got := fileKeys(t, s, s.Path()); len(got) != 1 || got[0] != "two" {
		t.Errorf("Expected file to hold [two], got %v", got)
	}
	if s.Dirty() {
		t.Error("Expected dirty flag cleared by save")
	}
}

func TestOverviewDeleteDeclined(t *testing.T) {
	s := newNoteSupport(t, &note{id: "one", on: true})
	m := NewOverview(s, noteForm{}, OverviewOptions{})

	_, _ = press(t, m, runes("d"), runes("n"))
	if !s.Exists("one") || s.Dirty() {
		t.Error("Expected declined delete to change nothing")
	}
}

func TestOverviewCloseDiscardsChanges(t *testing.T) {
	s := newNoteSupport(t, &note{id: "one", on: true})
	m := NewOverview(s, noteForm{}, OverviewOptions{})

	m, _ = press(t, m, runes("d"), runes("y"), escKey)
	if m.Closed() {
		t.Fatal("Expected a question before closing with unsaved changes")
	}

	m, _ = press(t, m, runes("y"))
	if !m.Closed() || m.Saved() {
		t.Errorf("Closed() = %v, Saved() = %v, want true, false", m.Closed(), m.Saved())
	}
	if !s.Exists("one") {
		t.Error("Expected deleted note restored from file")
	}
	if s.Dirty() {
		t.Error("Expected no pending changes after discard")
	}
}

func TestOverviewFileChanged(t *testing.T) {
	s := newNoteSupport(t, &note{id: "one", on: true})
	m := NewOverview(s, noteForm{}, OverviewOptions{})

	m, _ = press(t, m, FileChangedMsg{Path: filepath.Join(t.TempDir(), "other.xml")})
	if strings.Contains(m.View(), "changed on disk") {
		t.Error("Expected changes to other files to be ignored")
	}

	// Events for an unchanged file, such as our own saves, are ignored
	m, _ = press(t, m, FileChangedMsg{Path: s.Path()})
	if strings.Contains(m.View(), "changed on disk") {
		t.Error("Expected event for an unchanged file to be ignored")
	}

	writeNotes(t, s.Path(), &note{id: "one", on: true}, &note{id: "two", on: true})
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(s.Path(), past, past); err != nil {
		t.Fatal(err)
	}
	m, _ = press(t, m, FileChangedMsg{Path: s.Path()})
	if !strings.Contains(m.View(), "changed on disk") {
		t.Error("Expected changed-on-disk warning")
	}

	m, _ = press(t, m, runes("r"))
	if strings.Contains(m.View(), "changed on disk") {
		t.Error("Expected warning cleared by reload")
	}
	if !s.Exists("two") {
		t.Errorf("Expected reload to pick up the new note, got %v", s.Keys())
	}
}

// The watcher reports absolute paths even when the file was opened by a
// relative one
func TestOverviewFileChangedRelativePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	abs := filepath.Join(dir, "notes.xml")
	writeNotes(t, abs, &note{id: "one", on: true})

	s := xmlconfig.New(xmlconfig.Options[*note]{
		Path:  "notes.xml",
		Tag:   "note",
		Codec: noteCodec{},
		Nouns: noteNouns,
	})
	m := NewOverview(s, noteForm{}, OverviewOptions{})

	writeNotes(t, abs, &note{id: "one", on: true}, &note{id: "two", on: true})
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(abs, past, past); err != nil {
		t.Fatal(err)
	}

	m, _ = press(t, m, FileChangedMsg{Path: abs})
	if !strings.Contains(m.View(), "changed on disk") {
		t.Error("Expected changed-on-disk warning for a relatively opened file")
	}
}

func TestOverviewImport(t *testing.T) {
	s := newNoteSupport(t, &note{id: "one", on: true}, &note{id: "two", text: "old", on: true})
	m := NewOverview(s, noteForm{}, OverviewOptions{})

	src := filepath.Join(t.TempDir(), "import.xml")
	writeNotes(t, src, &note{id: "two", text: "new", on: true}, &note{id: "three", on: true})

	model, _ := m.loadImport(src)
	m = model.(OverviewModel[*note])
	if m.mode != modeSelector {
		t.Fatalf("Expected selector after loading import, got mode %d", m.mode)
	}

	// accept all, keep existing, do not overwrite two
	m, _ = press(t, m, enterKey, runes("y"), runes("n"))

	if s.Len() != 3 {
		t.Errorf("Expected 3 notes after import, got %v", s.Keys())
	}
	if two, _ := s.Get("two"); two.text != "old" {
		t.Errorf("Expected two kept, got text %q", two.text)
	}
	if !s.Dirty() {
		t.Error("Expected registry to be dirty after import")
	}
	if m.mode != modeMessage || !strings.Contains(m.message.Text, "1 note loaded") {
		t.Errorf("Expected import summary, got %q", m.message.Text)
	}
}

func TestOverviewImportReplace(t *testing.T) {
	s := newNoteSupport(t, &note{id: "one", on: true})
	m := NewOverview(s, noteForm{}, OverviewOptions{})

	src := filepath.Join(t.TempDir(), "import.xml")
	writeNotes(t, src, &note{id: "three", on: true})

	model, _ := m.loadImport(src)
	m = model.(OverviewModel[*note])
	_, _ = press(t, m, enterKey, runes("n"))

	if got := s.Keys(); len(got) != 1 || got[0] != "three" {
		t.Errorf("Expected registry replaced by import, got %v", got)
	}
}

func TestOverviewImportEmptyFile(t *testing.T) {
	s := newNoteSupport(t, &note{id: "one", on: true})
	m := NewOverview(s, noteForm{}, OverviewOptions{})

	src := filepath.Join(t.TempDir(), "empty.xml")
	if err := os.WriteFile(src, nil, 0644); err != nil {
		t.Fatal(err)
	}

	model, _ := m.loadImport(src)
	m = model.(OverviewModel[*note])
	if m.mode != modeMessage || !strings.Contains(m.message.Text, "no (new) entries") {
		t.Errorf("Expected no-entries message, got mode %d", m.mode)
	}
}

func TestOverviewExport(t *testing.T) {
	s := newNoteSupport(t, &note{id: "one", on: true}, &note{id: "two", on: false})
	now := time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local)

	var remembered string
	m := NewOverview(s, noteForm{}, OverviewOptions{
		OnLastDirChanged: func(dir string) { remembered = dir },
		Now:              func() time.Time { return now },
	})

	// menu, export, accept selection, accept proposed location
	m, _ = press(t, m, runes("m"), runes("1"), enterKey, enterKey)

	dir := filepath.Dir(s.Path())
	target := filepath.Join(dir, xmlconfig.ExportFileName(s.Path(), now))
	if got := fileKeys(t, s, target); len(got) != 2 {
		t.Errorf("Expected 2 notes exported to %s, got %v", target, got)
	}
	if remembered != dir {
		t.Errorf("Expected last directory %q remembered, got %q", dir, remembered)
	}
	if !s.WriteForbidden() {
		t.Error("Expected overview to keep the write lock after export")
	}
	if m.mode != modeMessage || !strings.Contains(m.message.Text, "2 notes saved") {
		t.Errorf("Expected export summary, got %q", m.message.Text)
	}
}

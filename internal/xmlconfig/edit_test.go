package xmlconfig

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// fakeEditor records the request and lets the test finish it later.
type fakeEditor struct {
	existing *item
	updating bool
	done     func(EditResult[*item])
}

func (f *fakeEditor) OpenEditor(existing *item, updating bool, done func(EditResult[*item])) {
	f.existing = existing
	f.updating = updating
	f.done = done
}

func TestEditAddWritesToDisk(t *testing.T) {
	type addedCall struct {
		key                    string
		overwrite, writeToDisk bool
	}
	var added []addedCall
	s, _ := newTestSupport(t, Hooks[*item]{
		OnAdded: func(obj *item, overwrite, writeToDisk bool) {
			added = append(added, addedCall{obj.id, overwrite, writeToDisk})
		},
	})
	writeFile(t, s.Path(), threeItems)
	s.ReadXML(ReadOptions[*item]{})
	s.SetWriteForbidden(true)

	session := s.BeginEdit(EditRequest[*item]{WriteToDisk: true})
	outcome := session.Finish(Committed(newItem("d", "Delta")))

	if outcome.Cancelled || !outcome.Added || outcome.Err != nil {
		t.Fatalf("Unexpected outcome %+v", outcome)
	}
	if !slices.Equal(added, []addedCall{{"d", false, true}}) {
		t.Errorf("OnAdded calls = %+v", added)
	}

	saved, err := s.ParseFile(s.Path())
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if !slices.Equal(keysOf(saved), []string{"a", "b", "c", "d"}) {
		t.Errorf("Saved keys = %v, want [a b c d]", keysOf(saved))
	}
	if s.Dirty() {
		t.Error("Expected registry to be clean after writing to disk")
	}
}

func TestEditRenameReplacesOldKey(t *testing.T) {
	var overwritten [][2]string
	s, _ := newTestSupport(t, Hooks[*item]{
		OnOverwritten: func(obj, old *item) {
			overwritten = append(overwritten, [2]string{obj.id, old.id})
		},
	})
	old := newItem("a", "Alpha")
	s.Add(old, false)
	s.Add(newItem("b", "Bravo"), false)

	session := s.BeginEdit(EditRequest[*item]{Existing: old, Updating: true})
	if !session.Updating() {
		t.Fatal("Expected session to update")
	}
	outcome := session.Finish(Committed(newItem("a2", "Alpha 2")))

	if !outcome.Added {
		t.Fatalf("Expected renamed object to be stored, got %+v", outcome)
	}
	if !slices.Equal(s.Keys(), []string{"a2", "b"}) {
		t.Errorf("Keys = %v, want [a2 b]", s.Keys())
	}
	if !slices.Equal(overwritten, [][2]string{{"a2", "a"}}) {
		t.Errorf("OnOverwritten calls = %v", overwritten)
	}
	if !s.Dirty() {
		t.Error("Expected in-memory commit to mark the registry dirty")
	}
}

func TestEditSameKeyUpdatesInPlace(t *testing.T) {
	s, _ := newTestSupport(t, Hooks[*item]{})
	old := newItem("a", "Alpha")
	s.Add(old, false)

	session := s.BeginEdit(EditRequest[*item]{Existing: old, Updating: true})
	session.Finish(Committed(&item{id: "a", label: "Changed", on: false}))

	got, _ := s.Get("a")
	if got.label != "Changed" || got.on {
		t.Errorf("Expected a to be replaced, got %+v", *got)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 object, got %d", s.Len())
	}
}

func TestEditCancelled(t *testing.T) {
	var calls int
	s, _ := newTestSupport(t, Hooks[*item]{
		OnAdded: func(*item, bool, bool) { calls++ },
	})
	old := newItem("a", "Alpha")
	s.Add(old, false)

	session := s.BeginEdit(EditRequest[*item]{Existing: old, Updating: true, WriteToDisk: true})
	outcome := session.Finish(Cancelled[*item]())

	if !outcome.Cancelled {
		t.Error("Expected outcome to be cancelled")
	}
	if calls != 0 {
		t.Errorf("Expected no OnAdded calls, got %d", calls)
	}
	if !slices.Equal(s.Keys(), []string{"a"}) {
		t.Errorf("Expected registry unchanged, got %v", s.Keys())
	}
}

func TestEditFinishTwice(t *testing.T) {
	s, _ := newTestSupport(t, Hooks[*item]{})
	session := s.BeginEdit(EditRequest[*item]{})

	session.Finish(Committed(newItem("a", "Alpha")))
	outcome := session.Finish(Committed(newItem("b", "Bravo")))

	if !outcome.Cancelled {
		t.Error("Expected second Finish to be ignored")
	}
	if s.Exists("b") {
		t.Error("Expected b not to be stored")
	}
}

func TestBeginEditWithoutExistingIsAnAdd(t *testing.T) {
	s, _ := newTestSupport(t, Hooks[*item]{})
	session := s.BeginEdit(EditRequest[*item]{Updating: true})

	if session.Updating() {
		t.Error("Expected update without an object to become an add")
	}
	if _, ok := session.Existing(); ok {
		t.Error("Expected no existing object")
	}
}

func TestBeginEditFlushesPendingChanges(t *testing.T) {
	s, _ := newTestSupport(t, Hooks[*item]{})
	s.Add(newItem("x", "Extra"), false)
	s.MarkDirty(true)
	s.SetWriteForbidden(true)

	s.BeginEdit(EditRequest[*item]{WriteToDisk: true})

	if s.Dirty() {
		t.Error("Expected pending changes to be flushed")
	}
	saved, err := s.ParseFile(s.Path())
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if !slices.Equal(keysOf(saved), []string{"x"}) {
		t.Errorf("Saved keys = %v, want [x]", keysOf(saved))
	}
}

func TestBeginEditReloadsChangedFile(t *testing.T) {
	s, _ := newTestSupport(t, Hooks[*item]{})
	mtime := time.Now().Add(-time.Hour).Truncate(time.Second)
	writeFile(t, s.Path(), threeItems)
	setModTime(t, s.Path(), mtime)
	s.ReadXML(ReadOptions[*item]{})

	writeFile(t, s.Path(), `<items><item id="z"><label>Zulu</label></item></items>`)
	setModTime(t, s.Path(), mtime.Add(time.Minute))

	s.BeginEdit(EditRequest[*item]{WriteToDisk: true})

	if !slices.Equal(s.Keys(), []string{"z"}) {
		t.Errorf("Expected registry reloaded from disk, got %v", s.Keys())
	}
}

func TestAddObjectWithoutEditor(t *testing.T) {
	s, _ := newTestSupport(t, Hooks[*item]{})

	var got CommitOutcome[*item]
	s.AddObject(nil, EditRequest[*item]{Existing: newItem("a", "Alpha")}, func(o CommitOutcome[*item]) {
		got = o
	})

	if !got.Added || !s.Exists("a") {
		t.Errorf("Expected object committed directly, got %+v", got)
	}
}

func TestAddObjectThroughEditor(t *testing.T) {
	s, _ := newTestSupport(t, Hooks[*item]{})
	old := newItem("a", "Alpha")
	s.Add(old, false)

	editor := &fakeEditor{}
	var got *CommitOutcome[*item]
	s.AddObject(editor, EditRequest[*item]{Existing: old, Updating: true}, func(o CommitOutcome[*item]) {
		got = &o
	})

	if editor.existing != old || !editor.updating {
		t.Fatalf("Editor opened with %+v, updating=%v", editor.existing, editor.updating)
	}
	if got != nil {
		t.Fatal("Expected no outcome before the editor finishes")
	}

	editor.done(Committed(newItem("a", "Renamed")))

	if got == nil || !got.Added {
		t.Fatalf("Expected committed outcome, got %+v", got)
	}
	if a, _ := s.Get("a"); a.label != "Renamed" {
		t.Errorf("Expected label Renamed, got %q", a.label)
	}
}

func TestEditWriteFailureReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	writeFile(t, blocker, "x")

	// The canonical file lives below a regular file, so writing fails
	s := New(Options[*item]{
		Path:  filepath.Join(blocker, "items.xml"),
		Tag:   "item",
		Codec: itemCodec{},
	})

	outcome := s.BeginEdit(EditRequest[*item]{WriteToDisk: true}).Finish(Committed(newItem("a", "Alpha")))
	if outcome.Err == nil {
		t.Error("Expected write error to be reported")
	}
	if !outcome.Added {
		t.Error("Expected object to be stored in memory despite the write error")
	}
}

func TestEditKeepsMalformedFile(t *testing.T) {
	s, logs := newTestSupport(t, Hooks[*item]{})
	writeFile(t, s.Path(), `<items><item id="a">`)
	before := checksum(t, s.Path())

	outcome := s.BeginEdit(EditRequest[*item]{WriteToDisk: true}).Finish(Committed(newItem("b", "Bravo")))

	if !errors.Is(outcome.Err, ErrDocument) {
		t.Errorf("Expected ErrDocument, got %v", outcome.Err)
	}
	if checksum(t, s.Path()) != before {
		t.Error("Expected malformed file to be left untouched")
	}
	if !outcome.Added || !s.Exists("b") {
		t.Errorf("Expected edit kept in memory, got %+v", outcome)
	}
	if !s.Dirty() {
		t.Error("Expected registry marked dirty")
	}
	if logs.FilterMessage("Canonical file could not be loaded, keeping the edit in memory").Len() != 1 {
		t.Error("Expected the refused write to be logged")
	}
}

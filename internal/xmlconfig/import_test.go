package xmlconfig

import (
	"slices"
	"testing"
)

func importFixture(t *testing.T) *Support[*item] {
	t.Helper()
	s, _ := newTestSupport(t, Hooks[*item]{})
	s.Add(newItem("a", "Alpha"), false)
	s.Add(newItem("b", "Bravo"), false)
	return s
}

func incoming() []*item {
	return []*item{newItem("b", "Bravo (imported)"), newItem("c", "Charlie")}
}

func TestImportIntoEmptyRegistry(t *testing.T) {
	s, _ := newTestSupport(t, Hooks[*item]{})

	session := s.BeginImport(incoming(), "import.xml")
	if session.Step() != StepReady {
		t.Fatalf("Expected no questions for an empty registry, got step %v", session.Step())
	}
	if count := session.Apply(); count != 2 {
		t.Errorf("Expected 2 imported, got %d", count)
	}
	if !s.Dirty() {
		t.Error("Expected import to mark the registry dirty")
	}
	if session.Step() != StepDone {
		t.Errorf("Expected step done, got %v", session.Step())
	}
}

func TestImportCollisionDeclined(t *testing.T) {
	s := importFixture(t)

	session := s.BeginImport(incoming(), "import.xml")
	if session.Step() != StepAskKeep {
		t.Fatalf("Expected keep question, got %v", session.Step())
	}
	if step := session.AnswerKeep(true); step != StepAskOverwrite {
		t.Fatalf("Expected overwrite question, got %v", step)
	}
	if !slices.Equal(session.Collisions(), []string{"b"}) {
		t.Errorf("Collisions() = %v, want [b]", session.Collisions())
	}
	session.AnswerOverwrite(false)

	if count := session.Apply(); count != 1 {
		t.Errorf("Expected 1 imported, got %d", count)
	}
	if b, _ := s.Get("b"); b.label != "Bravo" {
		t.Errorf("Expected existing b kept, got %q", b.label)
	}
	if !slices.Equal(s.Keys(), []string{"a", "b", "c"}) {
		t.Errorf("Keys = %v, want [a b c]", s.Keys())
	}
}

func TestImportCollisionAccepted(t *testing.T) {
	s := importFixture(t)

	count := s.Import(incoming(), "import.xml", MergeChoice{KeepExisting: true, OverwriteExisting: true})

	if count != 2 {
		t.Errorf("Expected 2 imported, got %d", count)
	}
	if b, _ := s.Get("b"); b.label != "Bravo (imported)" {
		t.Errorf("Expected b replaced, got %q", b.label)
	}
	if !s.Exists("a") {
		t.Error("Expected a kept")
	}
}

func TestImportWithoutCollisionsSkipsSecondQuestion(t *testing.T) {
	s := importFixture(t)

	session := s.BeginImport([]*item{newItem("z", "Zulu")}, "import.xml")
	if step := session.AnswerKeep(true); step != StepReady {
		t.Errorf("Expected ready without collisions, got %v", step)
	}
}

func TestImportReplaceAll(t *testing.T) {
	s := importFixture(t)

	count := s.Import(incoming(), "import.xml", MergeChoice{KeepExisting: false})

	if count != 2 {
		t.Errorf("Expected 2 imported, got %d", count)
	}
	if !slices.Equal(s.Keys(), []string{"b", "c"}) {
		t.Errorf("Keys = %v, want [b c]", s.Keys())
	}
}

func TestImportIsIdempotent(t *testing.T) {
	choices := []MergeChoice{
		{KeepExisting: false},
		{KeepExisting: true, OverwriteExisting: false},
		{KeepExisting: true, OverwriteExisting: true},
	}

	for _, choice := range choices {
		s := importFixture(t)
		s.Import(incoming(), "import.xml", choice)
		first := snapshot(s)
		s.Import(incoming(), "import.xml", choice)
		if second := snapshot(s); !slices.Equal(first, second) {
			t.Errorf("Choice %+v: second import changed registry from %v to %v", choice, first, second)
		}
	}
}

func TestImportApplyBeforeReady(t *testing.T) {
	s := importFixture(t)

	session := s.BeginImport(incoming(), "import.xml")
	if count := session.Apply(); count != 0 {
		t.Errorf("Expected nothing applied, got %d", count)
	}
	if s.Exists("c") {
		t.Error("Expected registry unchanged")
	}
	if s.Dirty() {
		t.Error("Expected registry clean")
	}
}

func TestImportClonesInput(t *testing.T) {
	s, _ := newTestSupport(t, Hooks[*item]{})
	objects := incoming()

	session := s.BeginImport(objects, "import.xml")
	objects[0] = newItem("mutated", "Mutated")

	if session.Objects()[0].id != "b" {
		t.Error("Expected session to keep its own copy of the list")
	}
}

func snapshot(s *Support[*item]) []string {
	var out []string
	for _, obj := range s.Values() {
		out = append(out, obj.id+"="+obj.label)
	}
	return out
}

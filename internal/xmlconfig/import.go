package xmlconfig

import (
	"slices"

	"go.uber.org/zap"
)

// ImportStep is the next decision an import session is waiting for.
type ImportStep int

const (
	// StepAskKeep waits for AnswerKeep: keep the existing objects?
	StepAskKeep ImportStep = iota
	// StepAskOverwrite waits for AnswerOverwrite: replace colliding objects?
	StepAskOverwrite
	// StepReady means Apply can run
	StepReady
	// StepDone means Apply already ran
	StepDone
)

// String returns a human-readable name for the step
func (s ImportStep) String() string {
	switch s {
	case StepAskKeep:
		return "ask-keep"
	case StepAskOverwrite:
		return "ask-overwrite"
	case StepReady:
		return "ready"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// MergeChoice is the outcome of the import questions.
type MergeChoice struct {
	KeepExisting      bool
	OverwriteExisting bool
}

// ImportSession merges a foreign object list into the registry.
//
// An empty registry imports unconditionally. Otherwise the user is asked
// whether to keep the existing objects; when keeping and some keys collide,
// the user is asked whether colliding objects should be replaced (non-colliding
// imports are always added).
type ImportSession[T Object] struct {
	support    *Support[T]
	objects    []T
	source     string
	step       ImportStep
	choice     MergeChoice
	collisions []string
	count      int
}

// BeginImport starts merging objects read from source.
func (s *Support[T]) BeginImport(objects []T, source string) *ImportSession[T] {
	session := &ImportSession[T]{
		support: s,
		objects: slices.Clone(objects),
		source:  source,
		step:    StepAskKeep,
	}
	if s.Len() == 0 {
		session.step = StepReady
	}
	return session
}

// Step returns the decision the session is waiting for.
func (i *ImportSession[T]) Step() ImportStep { return i.step }

// Objects returns the objects that will be merged.
func (i *ImportSession[T]) Objects() []T { return i.objects }

// Source returns the file the objects were read from.
func (i *ImportSession[T]) Source() string { return i.source }

// Choice returns the decisions taken so far.
func (i *ImportSession[T]) Choice() MergeChoice { return i.choice }

// Collisions returns the keys present both in the import and the registry.
// Only populated after AnswerKeep(true).
func (i *ImportSession[T]) Collisions() []string { return i.collisions }

// Count returns how many objects Apply stored.
func (i *ImportSession[T]) Count() int { return i.count }

// AnswerKeep records whether existing objects are kept.
func (i *ImportSession[T]) AnswerKeep(keep bool) ImportStep {
	if i.step != StepAskKeep {
		return i.step
	}

	i.choice.KeepExisting = keep
	i.step = StepReady
	if keep {
		i.collisions = i.support.Collisions(i.objects)
		if len(i.collisions) > 0 {
			i.step = StepAskOverwrite
		}
	}
	return i.step
}

// AnswerOverwrite records whether colliding objects are replaced.
func (i *ImportSession[T]) AnswerOverwrite(overwrite bool) ImportStep {
	if i.step != StepAskOverwrite {
		return i.step
	}
	i.choice.OverwriteExisting = overwrite
	i.step = StepReady
	return i.step
}

// Apply merges the objects according to the recorded choice and returns the
// number stored. It does nothing unless the session is ready.
func (i *ImportSession[T]) Apply() int {
	if i.step != StepReady {
		i.support.log.Warn("Import applied before all questions were answered",
			zap.Stringer("step", i.step),
		)
		return 0
	}

	s := i.support
	if !i.choice.KeepExisting {
		s.Clear()
	}
	i.count = s.Merge(i.objects, i.choice.OverwriteExisting)
	if i.count > 0 || !i.choice.KeepExisting {
		s.MarkDirty(true)
	}
	i.step = StepDone

	s.log.Debug("Import applied",
		zap.String("source", i.source),
		zap.Int("count", i.count),
		zap.Bool("keep_existing", i.choice.KeepExisting),
		zap.Bool("overwrite_existing", i.choice.OverwriteExisting),
	)
	return i.count
}

// Import merges objects in one go using choice for any question asked.
func (s *Support[T]) Import(objects []T, source string, choice MergeChoice) int {
	session := s.BeginImport(objects, source)
	if session.Step() == StepAskKeep {
		session.AnswerKeep(choice.KeepExisting)
	}
	if session.Step() == StepAskOverwrite {
		session.AnswerOverwrite(choice.OverwriteExisting)
	}
	return session.Apply()
}

// Collisions returns the keys of objects that are already in the registry,
// in input order and without duplicates.
func (s *Support[T]) Collisions(objects []T) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, obj := range objects {
		if isNil(obj) {
			continue
		}
		key := obj.Key()
		if s.Exists(key) && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

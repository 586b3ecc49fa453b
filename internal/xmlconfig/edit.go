package xmlconfig

import "go.uber.org/zap"

// EditResult is what an editor hands back: a committed candidate or a cancellation.
type EditResult[T Object] struct {
	Object    T
	Committed bool
}

// Committed wraps a candidate object produced by an editor.
func Committed[T Object](obj T) EditResult[T] {
	return EditResult[T]{Object: obj, Committed: true}
}

// Cancelled reports that the user left the editor without saving.
func Cancelled[T Object]() EditResult[T] {
	return EditResult[T]{}
}

// Editor opens an editing screen for existing (zero value when adding) and
// calls done exactly once with the result. done may run after OpenEditor returns.
type Editor[T Object] interface {
	OpenEditor(existing T, updating bool, done func(EditResult[T]))
}

// Selector lets the user pick a subset of available, starting with preselected,
// and calls done with the chosen objects (nil when cancelled).
type Selector[T Object] interface {
	OpenSelector(available, preselected []T, done func([]T))
}

// EditRequest describes an add or edit operation.
type EditRequest[T Object] struct {
	// Existing is the object being edited; zero value when adding.
	Existing T
	// Updating marks an edit of Existing; a changed key then replaces it.
	Updating bool
	// WriteToDisk saves the canonical file as soon as the edit is committed.
	WriteToDisk bool
}

// CommitOutcome reports what happened when an edit session finished.
type CommitOutcome[T Object] struct {
	Object    T
	Added     bool  // stored in the registry
	Cancelled bool  // editor was left without saving
	Err       error // reload or write failure when WriteToDisk was requested
}

// EditSession is one pass through the add/edit protocol: BeginEdit, then
// an editor produces a result, then Finish commits or discards it.
type EditSession[T Object] struct {
	support  *Support[T]
	req      EditRequest[T]
	oldKey   string
	loadErr  error // canonical file could not be reloaded; Finish will not overwrite it
	finished bool
}

// BeginEdit starts an add or edit. When the result is going to be written to
// disk, pending changes are flushed and the canonical file is reloaded first so
// the edit applies to the current file contents. A canonical file that cannot
// be read or parsed is left alone: the session then commits in memory only.
func (s *Support[T]) BeginEdit(req EditRequest[T]) *EditSession[T] {
	session := &EditSession[T]{support: s, req: req}
	if req.WriteToDisk {
		if err := s.FlushIfDirty(true); err != nil {
			s.log.Error("Failed to save pending changes before editing", zap.Error(err))
		}
		// Missing file and unchanged file are both fine here
		if n, err := s.ReadXML(ReadOptions[T]{}); n == ReadFailed {
			session.loadErr = err
		}
	}

	if req.Updating && !isNil(req.Existing) {
		session.oldKey = req.Existing.Key()
	} else {
		session.req.Updating = false
	}
	return session
}

// Existing returns the object being edited, if any.
func (e *EditSession[T]) Existing() (T, bool) {
	if !e.req.Updating {
		var zero T
		return zero, false
	}
	return e.req.Existing, true
}

// Updating reports whether the session edits an existing object.
func (e *EditSession[T]) Updating() bool {
	return e.req.Updating
}

// Finish commits or discards the editor's result. Cancelled results leave the
// registry and file untouched. A session can only be finished once.
func (e *EditSession[T]) Finish(res EditResult[T]) CommitOutcome[T] {
	s := e.support
	if e.finished {
		s.log.Warn("Edit session already finished")
		return CommitOutcome[T]{Cancelled: true}
	}
	e.finished = true

	if !res.Committed || isNil(res.Object) {
		s.log.Debug("Edit cancelled")
		return CommitOutcome[T]{Cancelled: true}
	}

	obj := res.Object
	if e.req.Updating && e.oldKey != obj.Key() {
		if old, ok := s.Get(e.oldKey); ok {
			s.hooks.overwritten(obj, old)
		}
		s.Remove(e.oldKey)
		s.log.Debug("Object renamed",
			zap.String("old_key", e.oldKey),
			zap.String("key", obj.Key()),
		)
	}

	outcome := CommitOutcome[T]{Object: obj}
	outcome.Added = s.Add(obj, true)
	if outcome.Added {
		s.hooks.added(obj, e.req.Updating, e.req.WriteToDisk)
	}

	switch {
	case e.req.WriteToDisk && e.loadErr != nil:
		s.log.Error("Canonical file could not be loaded, keeping the edit in memory",
			zap.String("path", s.path),
			zap.Error(e.loadErr),
		)
		outcome.Err = e.loadErr
		if outcome.Added {
			s.MarkDirty(true)
		}
	case e.req.WriteToDisk:
		// The editor's own save is not blocked by an open overview
		outcome.Err = s.WriteXML(WriteOptions[T]{Force: true})
	case outcome.Added:
		s.MarkDirty(true)
	}

	return outcome
}

// AddObject runs the whole add/edit protocol through editor and reports the
// outcome to done (which may be nil). Without an editor req.Existing is
// committed as is.
func (s *Support[T]) AddObject(editor Editor[T], req EditRequest[T], done func(CommitOutcome[T])) {
	session := s.BeginEdit(req)
	finish := func(res EditResult[T]) {
		outcome := session.Finish(res)
		if done != nil {
			done(outcome)
		}
	}

	if editor == nil {
		finish(Committed(req.Existing))
		return
	}
	editor.OpenEditor(req.Existing, session.Updating(), finish)
}

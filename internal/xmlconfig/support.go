package xmlconfig

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ReadFailed is the count returned by ReadXML on I/O and document errors.
const ReadFailed = -1

// Options configure a Support instance.
type Options[T Object] struct {
	Path   string      // Canonical XML file
	Tag    string      // Element name of one entry
	Codec  Codec[T]    // Entry encoder/decoder
	Logger *zap.Logger // Diagnostic sink (nil: silent)
	Hooks  Hooks[T]    // Optional callbacks
	Nouns  Nouns       // Names used in user-facing messages
}

// Support keeps a registry of config objects in sync with one XML file.
//
// The file is re-parsed only when its modification time changes, writes to it
// can be locked while an overview session owns it, and in-memory changes can be
// marked dirty and flushed later.
type Support[T Object] struct {
	*Registry[T]

	path  string
	tag   string
	codec Codec[T]
	hooks Hooks[T]
	nouns Nouns
	log   *zap.Logger

	lastModTime    time.Time // zero: never read
	dirty          bool
	writeForbidden bool
}

// ReadOptions control a single ReadXML call. The zero value reloads the
// canonical file, replacing the registry contents.
type ReadOptions[T Object] struct {
	// Path to read; empty means the canonical file.
	Path string
	// Into receives every successfully decoded object, if set.
	Into *[]T
	// KeepExisting merges into the registry instead of replacing it.
	KeepExisting bool
	// Overwrite lets decoded objects replace stored objects with the same key.
	Overwrite bool
	// ParseOnly decodes the file without touching the registry.
	ParseOnly bool
}

// WriteOptions control a single WriteXML call.
type WriteOptions[T Object] struct {
	// Path to write; empty means the canonical file.
	Path string
	// Objects to write; nil means every object in the registry.
	Objects []T
	// Force ignores the write-forbidden lock.
	Force bool
}

// New creates a Support bound to the canonical file in opts.
func New[T Object](opts Options[T]) *Support[T] {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	nouns := opts.Nouns
	if nouns == (Nouns{}) {
		nouns = DefaultNouns
	}

	return &Support[T]{
		Registry: NewRegistry(log, opts.Hooks),
		path:     absPath(opts.Path),
		tag:      opts.Tag,
		codec:    opts.Codec,
		hooks:    opts.Hooks,
		nouns:    nouns,
		log:      log,
	}
}

// Path returns the canonical file as an absolute path.
func (s *Support[T]) Path() string { return s.path }

// Tag returns the entry element name.
func (s *Support[T]) Tag() string { return s.tag }

// Nouns returns the names used in user-facing messages.
func (s *Support[T]) Nouns() Nouns { return s.nouns }

// Logger returns the diagnostic sink.
func (s *Support[T]) Logger() *zap.Logger { return s.log }

// resolve returns the file to use and whether it is the canonical one.
// Relative paths are compared by their absolute form.
func (s *Support[T]) resolve(path string) (string, bool) {
	if path == "" {
		return s.path, true
	}
	if absPath(path) == s.path {
		return s.path, true
	}
	return path, false
}

// absPath returns the cleaned absolute form of path, or the cleaned path
// itself if the working directory is unknown.
func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// ReadXML loads objects from an XML file.
//
// It returns the number of objects stored in the registry (or decoded, with
// ParseOnly). A missing or empty file yields 0 and ErrNoData. An unchanged
// canonical file yields 0 and no error without parsing. Unreadable files and
// malformed documents yield ReadFailed and leave the registry untouched.
// Entries the codec rejects are logged and skipped. ParseOnly reads always
// parse and do not count as loading the canonical file.
func (s *Support[T]) ReadXML(opts ReadOptions[T]) (int, error) {
	path, canonical := s.resolve(opts.Path)
	s.log.Debug("Reading configuration file", zap.String("path", path))

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("No configuration file present", zap.String("path", path))
			return 0, newError(KindNoData, path, "no configuration file present", err)
		}
		s.log.Error("Failed to stat configuration file", zap.String("path", path), zap.Error(err))
		return ReadFailed, newError(KindIO, path, "failed to stat file", err)
	}
	if info.Size() == 0 {
		s.log.Warn("Configuration file is empty", zap.String("path", path))
		return 0, newError(KindNoData, path, "configuration file is empty", nil)
	}

	// The registry tracks the canonical file; parse it only if it changed
	// since it was last loaded
	tracked := canonical && !opts.ParseOnly
	if tracked && !s.lastModTime.IsZero() && info.ModTime().Equal(s.lastModTime) {
		s.log.Debug("No changes in configuration file, skipping parse", zap.String("path", path))
		return 0, nil
	}

	if s.codec == nil {
		s.log.Error("No codec configured, cannot load objects", zap.String("tag", s.tag))
		return ReadFailed, newError(KindCodec, path, "no codec configured", nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Error("Failed to read configuration file", zap.String("path", path), zap.Error(err))
		return ReadFailed, newError(KindIO, path, "failed to read file", err)
	}

	elements, err := ParseDocument(data, s.tag)
	if err != nil {
		s.log.Error("Failed to parse configuration file", zap.String("path", path), zap.Error(err))
		return ReadFailed, newError(KindDocument, path, "malformed document", err)
	}

	if tracked {
		s.lastModTime = info.ModTime()
	}

	parsed := s.decodeAll(path, elements)
	if opts.Into != nil {
		*opts.Into = append(*opts.Into, parsed...)
	}
	if opts.ParseOnly {
		return len(parsed), nil
	}

	if !opts.KeepExisting {
		s.Clear()
	}
	return s.Merge(parsed, opts.Overwrite), nil
}

// ParseFile decodes every entry of path without touching the registry.
func (s *Support[T]) ParseFile(path string) ([]T, error) {
	var objects []T
	if _, err := s.ReadXML(ReadOptions[T]{Path: path, Into: &objects, ParseOnly: true}); err != nil {
		return nil, err
	}
	return objects, nil
}

// decodeAll decodes elements, logging and skipping the ones the codec rejects.
func (s *Support[T]) decodeAll(path string, elements []Element) []T {
	parsed := make([]T, 0, len(elements))
	for i, el := range elements {
		obj, err := s.codec.Decode(el)
		if err != nil {
			s.log.Error("Skipping malformed entry",
				zap.String("path", path),
				zap.String("tag", s.tag),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		if isNil(obj) {
			s.log.Error("Codec returned no object for entry",
				zap.String("path", path),
				zap.Int("index", i),
			)
			continue
		}
		parsed = append(parsed, obj)
	}
	s.log.Debug("Entries parsed from configuration file",
		zap.String("path", path),
		zap.Int("count", len(parsed)),
		zap.Int("skipped", len(elements)-len(parsed)),
	)
	return parsed
}

// Merge adds objects to the registry and returns how many were stored.
func (s *Support[T]) Merge(objects []T, overwrite bool) int {
	count := 0
	for _, obj := range objects {
		if isNil(obj) {
			continue
		}
		if s.Add(obj, overwrite) {
			count++
		}
	}
	s.log.Debug("Entries loaded", zap.Int("count", count), zap.Bool("overwrite", overwrite))
	return count
}

// WriteXML serializes objects to an XML file.
//
// Writing the canonical file is refused with ErrWriteRefused while the
// write-forbidden lock is held, unless opts.Force is set. A successful write of
// the canonical file clears the dirty flag.
func (s *Support[T]) WriteXML(opts WriteOptions[T]) error {
	path, canonical := s.resolve(opts.Path)

	if canonical && s.writeForbidden && !opts.Force {
		s.log.Warn("Writing is forbidden while an edit session is open", zap.String("path", path))
		return newError(KindWriteRefused, path, "writing is forbidden while an edit session is open", nil)
	}

	if s.codec == nil {
		s.log.Error("No codec configured, cannot save objects", zap.String("tag", s.tag))
		return newError(KindCodec, path, "no codec configured", nil)
	}

	objects := opts.Objects
	if objects == nil {
		objects = s.Values()
	}

	data, err := s.codec.Encode(objects)
	if err != nil {
		s.log.Error("Failed to encode objects", zap.String("path", path), zap.Error(err))
		return newError(KindCodec, path, "failed to encode objects", err)
	}
	if len(data) == 0 {
		s.log.Error("Codec produced an empty document", zap.String("path", path))
		return newError(KindCodec, path, "codec produced an empty document", nil)
	}

	if err := writeFileAtomic(path, data); err != nil {
		s.log.Error("Failed to write configuration file", zap.String("path", path), zap.Error(err))
		return newError(KindIO, path, "failed to write file", err)
	}

	if canonical {
		s.dirty = false
		// Our own write must not look like an external change
		if info, err := os.Stat(path); err == nil {
			s.lastModTime = info.ModTime()
		}
	}

	s.log.Debug("Configuration file written",
		zap.String("path", path),
		zap.Int("count", len(objects)),
	)
	return nil
}

// writeFileAtomic writes to a temporary file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Invalidate forgets the canonical file's modification time so the next
// ReadXML parses it unconditionally.
func (s *Support[T]) Invalidate() {
	s.lastModTime = time.Time{}
}

// Stale reports whether the next ReadXML of the canonical file would parse
// it, that is whether the file changed since this Support last loaded or
// wrote it. A missing file is stale only if it was loaded before.
func (s *Support[T]) Stale() bool {
	info, err := os.Stat(s.path)
	if err != nil {
		return !s.lastModTime.IsZero()
	}
	return !info.ModTime().Equal(s.lastModTime)
}

// Discard throws away in-memory changes and reloads the canonical file.
// If the file holds no data the registry is emptied.
func (s *Support[T]) Discard() error {
	s.Invalidate()
	s.dirty = false
	_, err := s.ReadXML(ReadOptions[T]{})
	if errors.Is(err, ErrNoData) {
		s.Clear()
		return nil
	}
	return err
}

// MarkDirty records whether the registry differs from the canonical file.
func (s *Support[T]) MarkDirty(dirty bool) {
	s.dirty = dirty
}

// Dirty reports whether the registry has unsaved changes.
func (s *Support[T]) Dirty() bool {
	return s.dirty
}

// FlushIfDirty writes the canonical file if the registry was marked dirty.
func (s *Support[T]) FlushIfDirty(force bool) error {
	if !s.dirty {
		return nil
	}
	return s.WriteXML(WriteOptions[T]{Force: force})
}

// SetWriteForbidden locks or unlocks writes to the canonical file.
// The overview screen holds the lock while it is open.
func (s *Support[T]) SetWriteForbidden(forbidden bool) {
	s.writeForbidden = forbidden
}

// WriteForbidden reports whether writes to the canonical file are locked.
func (s *Support[T]) WriteForbidden() bool {
	return s.writeForbidden
}

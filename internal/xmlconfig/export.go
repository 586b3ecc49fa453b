package xmlconfig

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ExportFileName suggests a file name for an export of the canonical file,
// e.g. "bookmarks_20251125_103045.xml".
func ExportFileName(canonical string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(canonical), ".xml")
	return fmt.Sprintf("%s_%s.xml", base, now.Format("20060102_150405"))
}

// Select asks selector to pick from all objects (all preselected) and passes
// the choice to done. Without a selector every object is chosen.
func (s *Support[T]) Select(selector Selector[T], done func([]T)) {
	all := s.SortedByName()
	if selector == nil {
		done(all)
		return
	}
	selector.OpenSelector(all, all, done)
}

// Export writes objects to path and returns how many were written.
// An empty selection writes nothing and returns ErrEmptySelection.
func (s *Support[T]) Export(path string, objects []T) (int, error) {
	if len(objects) == 0 {
		s.log.Warn("Nothing selected for export", zap.String("path", path))
		return 0, newError(KindSelection, path, "no objects selected", nil)
	}
	if err := s.WriteXML(WriteOptions[T]{Path: path, Objects: objects}); err != nil {
		return 0, err
	}
	return len(objects), nil
}

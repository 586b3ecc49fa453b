package xmlconfig

import (
	"fmt"
	"reflect"
)

// Object is a persisted config object. The key must be unique within a registry.
type Object interface {
	Key() string
}

// Named is implemented by objects that can be listed by display name.
type Named interface {
	Name() string
}

// Enableable is implemented by objects that can be switched on and off.
// The selector uses it to filter disabled objects.
type Enableable interface {
	Enabled() bool
}

// Validator is implemented by objects that can check their own fields
// before they are committed. A non-empty message is shown to the user.
type Validator interface {
	Validate() string
}

// Hooks are optional callbacks fired by the registry and the commit protocol.
// Nil fields are skipped.
type Hooks[T Object] struct {
	// OnLoaded is called after an object was stored in the registry.
	OnLoaded func(obj T, overwrite bool)
	// OnAdded is called after an add or edit was committed successfully.
	OnAdded func(obj T, overwrite, writeToDisk bool)
	// OnOverwritten is called before an edited object replaces one stored
	// under a different key.
	OnOverwritten func(obj, old T)
}

func (h Hooks[T]) loaded(obj T, overwrite bool) {
	if h.OnLoaded != nil {
		h.OnLoaded(obj, overwrite)
	}
}

func (h Hooks[T]) added(obj T, overwrite, writeToDisk bool) {
	if h.OnAdded != nil {
		h.OnAdded(obj, overwrite, writeToDisk)
	}
}

func (h Hooks[T]) overwritten(obj, old T) {
	if h.OnOverwritten != nil {
		h.OnOverwritten(obj, old)
	}
}

// Nouns names the object type in user-facing messages.
type Nouns struct {
	Singular        string // e.g. "bookmark"
	SingularArticle string // e.g. "the bookmark"
	Plural          string // e.g. "bookmarks"
	PluralArticle   string // e.g. "the bookmarks"
}

// DefaultNouns is used when Options.Nouns is left empty.
var DefaultNouns = Nouns{
	Singular:        "entry",
	SingularArticle: "the entry",
	Plural:          "entries",
	PluralArticle:   "the entries",
}

// Count returns "1 bookmark" or "3 bookmarks".
func (n Nouns) Count(count int) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, n.Singular)
	}
	return fmt.Sprintf("%d %s", count, n.Plural)
}

// isNil reports whether obj is a nil interface or a nil pointer.
func isNil[T Object](obj T) bool {
	v := reflect.ValueOf(any(obj))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}

package xmlconfig

import (
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Registry holds config objects in memory, keyed by Object.Key.
// It is not safe for concurrent use; all access happens from the UI event loop.
type Registry[T Object] struct {
	objects map[string]T
	hooks   Hooks[T]
	log     *zap.Logger
}

// NewRegistry creates an empty registry.
// A nil logger is replaced by a no-op logger.
func NewRegistry[T Object](log *zap.Logger, hooks Hooks[T]) *Registry[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry[T]{
		objects: make(map[string]T),
		hooks:   hooks,
		log:     log,
	}
}

// Add stores obj unless its key is already taken and overwrite is false.
// Returns true if the object was stored. Nil objects are ignored.
func (r *Registry[T]) Add(obj T, overwrite bool) bool {
	if isNil(obj) {
		r.log.Error("Refusing to add nil object")
		return false
	}

	key := obj.Key()
	if _, exists := r.objects[key]; exists && !overwrite {
		return false
	}

	r.objects[key] = obj
	r.hooks.loaded(obj, overwrite)
	return true
}

// Remove deletes the object stored under key. Missing keys are ignored.
func (r *Registry[T]) Remove(key string) {
	delete(r.objects, key)
}

// Exists reports whether an object is stored under key.
func (r *Registry[T]) Exists(key string) bool {
	_, ok := r.objects[key]
	return ok
}

// Get returns the object stored under key.
func (r *Registry[T]) Get(key string) (T, bool) {
	obj, ok := r.objects[key]
	return obj, ok
}

// Clear removes all objects.
func (r *Registry[T]) Clear() {
	clear(r.objects)
}

// Len returns the number of stored objects.
func (r *Registry[T]) Len() int {
	return len(r.objects)
}

// Keys returns all keys in ascending order.
func (r *Registry[T]) Keys() []string {
	return slices.Sorted(maps.Keys(r.objects))
}

// Values returns all objects ordered by key, so serialized output is stable.
func (r *Registry[T]) Values() []T {
	keys := r.Keys()
	values := make([]T, 0, len(keys))
	for _, key := range keys {
		values = append(values, r.objects[key])
	}
	return values
}

// SortedByName returns the objects ordered by case-insensitive name.
// Objects with equal names keep key order. Objects that do not implement
// Named are left out and reported in the log; the call never fails.
func (r *Registry[T]) SortedByName() []T {
	return SortByName(r.log, r.Values())
}

// SortByName orders objects by case-insensitive name without touching the input.
func SortByName[T Object](log *zap.Logger, objects []T) []T {
	if log == nil {
		log = zap.NewNop()
	}

	type named struct {
		obj  T
		name string
	}

	sorted := make([]named, 0, len(objects))
	var unnamed []string
	for _, obj := range objects {
		if isNil(obj) {
			continue
		}
		n, ok := any(obj).(Named)
		if !ok {
			unnamed = append(unnamed, obj.Key())
			continue
		}
		sorted = append(sorted, named{obj: obj, name: strings.ToLower(n.Name())})
	}

	if len(unnamed) > 0 {
		log.Error("Objects without a name cannot be listed",
			zap.Int("count", len(unnamed)),
			zap.Strings("keys", unnamed),
		)
	}

	slices.SortStableFunc(sorted, func(a, b named) int {
		return strings.Compare(a.name, b.name)
	})

	result := make([]T, len(sorted))
	for i, n := range sorted {
		result[i] = n.obj
	}
	return result
}

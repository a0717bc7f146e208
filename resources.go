package archecs

import "reflect"

// Resources is a type-keyed singleton store for world-global values that
// are not entities or components: configuration blobs, shared caches, a
// random source, and the like. Grounded on the teacher's Resources
// (resources.go), adapted from a slot/freelist store (sized for a fixed
// resource-id space) to a plain per-type map, since a World here has no
// bounded resource-id budget to reuse.
type Resources struct {
	items map[reflect.Type]any
}

// NewResources creates an empty Resources store.
func NewResources() *Resources {
	return &Resources{items: make(map[reflect.Type]any)}
}

// SetResource stores value as the singleton instance of its concrete type,
// replacing any previous value of that type.
func SetResource[T any](r *Resources, value T) {
	r.items[reflect.TypeOf(value)] = value
}

// GetResource returns the stored value of type T and true, or the zero
// value and false if none has been set.
func GetResource[T any](r *Resources) (T, bool) {
	var zero T
	t := reflect.TypeOf(zero)
	v, ok := r.items[t]
	if !ok {
		return zero, false
	}
	return v.(T), true
}

// RemoveResource deletes the stored value of type T, if any.
func RemoveResource[T any](r *Resources) {
	var zero T
	delete(r.items, reflect.TypeOf(zero))
}

// Len returns the number of distinct resource types currently stored.
func (r *Resources) Len() int { return len(r.items) }

package archecs

import (
	"fmt"
	"reflect"
	"unsafe"
)

// ComponentMeta describes one registered component type: its layout,
// lifecycle vtable, storage class, and display name. Grounded on the
// teacher's compSpec/componentRegistry (world.go) plus the original's
// ComponentDesc/ComponentMeta (Component/ComponentMeta.h) for the vtable
// shape spec.md §4.2 asks for.
type ComponentMeta struct {
	Name    string
	Type    reflect.Type
	Size    uintptr
	Align   uintptr
	Storage StorageClass

	// construct default-constructs the element at dst. Required to back
	// TypedArray.Resize growth; absent for types with no zero value
	// semantics issue in Go (every Go type has a usable zero value, so
	// this is always populated).
	construct func(dst unsafe.Pointer)
	// moveConstruct constructs dst by moving *src, leaving src's logical
	// contents behind (Go's GC makes "leaving behind" a no-op: the value
	// is simply copied, and the source slot is about to be overwritten
	// or dropped by the caller).
	moveConstruct func(dst, src unsafe.Pointer)
	// destruct is a no-op placeholder satisfying the vtable contract of
	// spec.md §4.2; Go has no user destructors, but the hook exists so a
	// component type holding OS/manually-released resources can model
	// one exactly like the original's TypeOps::destruct.
	destruct func(ptr unsafe.Pointer)
}

// NewComponentMeta builds a ComponentMeta for T by reflection, installing a
// vtable of byte-copy move/construct operations. Standard-layout,
// trivially-relocatable semantics are assumed per spec.md §4.3: the
// registry "refuses no types".
func NewComponentMeta[T any](id ComponentID, storage StorageClass) *ComponentMeta {
	var zero T
	t := reflect.TypeOf(zero)
	size := unsafe.Sizeof(zero)
	align := uintptr(1)
	if t != nil {
		align = uintptr(t.Align())
	}

	return &ComponentMeta{
		Name:    typeName(t),
		Type:    t,
		Size:    size,
		Align:   align,
		Storage: storage,
		construct: func(dst unsafe.Pointer) {
			if size == 0 {
				return
			}
			*(*T)(dst) = zero
		},
		moveConstruct: func(dst, src unsafe.Pointer) {
			if size == 0 {
				return
			}
			*(*T)(dst) = *(*T)(src)
		},
		destruct: func(unsafe.Pointer) {},
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// ComponentRegistry assigns a stable, dense ComponentID to each component
// type registered against it. One registry lives per World — spec.md §9
// explicitly forbids sharing registrations across Worlds, since two
// Worlds registering the same Go type in a different order must not be
// forced to agree on an id.
type ComponentRegistry struct {
	byType map[reflect.Type]ComponentID
	metas  []*ComponentMeta
}

// NewComponentRegistry creates an empty, per-World ComponentRegistry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{byType: make(map[reflect.Type]ComponentID, 32)}
}

// Register assigns (or returns the existing) ComponentID for T with the
// given storage class. Idempotent: a type's storage class is fixed by its
// first registration and subsequent calls ignore the storage argument,
// matching spec.md §3 ("decided at registration time and never changes").
func Register[T any](r *ComponentRegistry, storage StorageClass) ComponentID {
	var zero T
	t := reflect.TypeOf(zero)
	if id, ok := r.byType[t]; ok {
		return id
	}
	id := ComponentID(len(r.metas))
	meta := NewComponentMeta[T](id, storage)
	r.byType[t] = id
	r.metas = append(r.metas, meta)
	return id
}

// TryLookup returns the ComponentID for T and true if it has already been
// registered, or NullComponentID and false otherwise. Never fails,
// never panics (spec.md §4.3).
func TryLookup[T any](r *ComponentRegistry) (ComponentID, bool) {
	var zero T
	t := reflect.TypeOf(zero)
	id, ok := r.byType[t]
	if !ok {
		return NullComponentID, false
	}
	return id, true
}

// Meta returns the ComponentMeta for id, or nil if id is out of range.
func (r *ComponentRegistry) Meta(id ComponentID) *ComponentMeta {
	if int(id) < 0 || int(id) >= len(r.metas) {
		return nil
	}
	return r.metas[id]
}

// Len returns the number of distinct component types registered so far.
func (r *ComponentRegistry) Len() int { return len(r.metas) }

// mustMeta is the internal precondition-checked accessor used by callers
// that have already validated id came from this registry.
func (r *ComponentRegistry) mustMeta(id ComponentID) *ComponentMeta {
	m := r.Meta(id)
	if m == nil {
		panic(fmt.Sprintf("archecs: component id %d is out of range", id))
	}
	return m
}

// registerDynamic is the reflect-driven counterpart to
// Register[T], used by DynamicBundle (bundle.go) where the component type
// is known only at runtime as a boxed any. Grounded on the same reflect
// vtable shape NewComponentMeta builds, specialized away from a type
// parameter.
func registerDynamic(r *ComponentRegistry, v any) ComponentID {
	t := reflect.TypeOf(v)
	if id, ok := r.byType[t]; ok {
		return id
	}
	id := ComponentID(len(r.metas))
	r.byType[t] = id
	r.metas = append(r.metas, newComponentMetaReflect(t))
	return id
}

func newComponentMetaReflect(t reflect.Type) *ComponentMeta {
	size := t.Size()
	return &ComponentMeta{
		Name:    typeName(t),
		Type:    t,
		Size:    size,
		Align:   uintptr(t.Align()),
		Storage: StorageTable,
		construct: func(dst unsafe.Pointer) {
			if size == 0 {
				return
			}
			reflect.NewAt(t, dst).Elem().Set(reflect.Zero(t))
		},
		moveConstruct: func(dst, src unsafe.Pointer) {
			if size == 0 {
				return
			}
			reflect.NewAt(t, dst).Elem().Set(reflect.NewAt(t, src).Elem())
		},
		destruct: func(unsafe.Pointer) {},
	}
}

// valuePointerOf returns a pointer to an addressable heap copy of v's
// underlying value, suitable as a TypedArray move-source.
func valuePointerOf(v any) unsafe.Pointer {
	rv := reflect.ValueOf(v)
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	return unsafe.Pointer(ptr.Pointer())
}

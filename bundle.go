package archecs

import (
	"fmt"
	"unsafe"
)

// BundleMeta describes one registered bundle: the fixed, duplicate-free set
// of component ids it carries and a slot to stage their values before a
// write into an archetype's columns. Grounded on the original's
// ComponentBundle/BundleMeta (Bundle/Bundle.h, Bundle/BundleMeta.h), which
// rejects a bundle declared with the same component twice.
type BundleMeta struct {
	ids    []ComponentID
	values []unsafe.Pointer
}

func newBundleMeta(ids []ComponentID) *BundleMeta {
	seen := make(map[ComponentID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			panic(fmt.Sprintf("archecs: bundle declares component %d more than once", id))
		}
		seen[id] = true
	}
	return &BundleMeta{ids: ids, values: make([]unsafe.Pointer, len(ids))}
}

// ComponentIDs returns the bundle's component id list, in declaration
// order.
func (b *BundleMeta) ComponentIDs() []ComponentID { return b.ids }

// BundleRegistry assigns a stable BundleID to each distinct component-id
// set requested through RegisterBundle, so repeated identical bundle
// declarations share one archetype-edge cache slot. Grounded on the
// original's BundleManager (Bundle/BundleManager.h), keyed there by the
// bundle's type id; keyed here by a hash of its ordered id list since Go bundles
// are not always backed by a single named type (see the dynamic path).
type BundleRegistry struct {
	byHash map[uint64]BundleID
	metas  []*BundleMeta
}

// NewBundleRegistry creates an empty, per-World BundleRegistry.
func NewBundleRegistry() *BundleRegistry {
	return &BundleRegistry{byHash: make(map[uint64]BundleID, 16)}
}

// RegisterBundle interns a bundle for the exact, order-preserving id list
// given, returning its BundleID. Two registrations with the same ids in a
// different order are treated as distinct bundles, since bundle value
// writes are positional against ids.
func RegisterBundle(r *BundleRegistry, ids []ComponentID) BundleID {
	h := bundleHash(ids)
	if id, ok := r.byHash[h]; ok {
		return id
	}
	id := BundleID(len(r.metas))
	r.metas = append(r.metas, newBundleMeta(append([]ComponentID(nil), ids...)))
	r.byHash[h] = id
	return id
}

// Meta returns the BundleMeta for id.
func (r *BundleRegistry) Meta(id BundleID) *BundleMeta { return r.metas[id] }

func bundleHash(ids []ComponentID) uint64 {
	sig := ComponentSignature{TableIDs: append([]ComponentID(nil), ids...)}
	return sig.Hash()
}

// Bundle is the interface every typed or dynamic bundle value satisfies:
// enough for World to stage and write its component values without
// knowing the concrete arity. Grounded on the original's ComponentBundle
// CRTP-free equivalent, expressed here as a Go interface rather than
// fixed-arity templates.
type Bundle interface {
	// componentIDs returns the bundle's component ids, registering them
	// against reg if this is the bundle's first use there.
	componentIDs(reg *ComponentRegistry) []ComponentID
	// valuePointers returns a pointer to each component value, positional
	// against componentIDs' return.
	valuePointers() []unsafe.Pointer
}

// Bundle1 is a single-component bundle. Go's generics have no variadic
// type parameters, so bundles above a small fixed arity either use one of
// Bundle2..Bundle4 below or fall back to the reflect-based DynamicBundle.
// Grounded on the teacher's hand-generated Builder2..BuilderN family
// (builder_generated.go), narrowed here to the arities actually needed.
type Bundle1[A any] struct {
	A A
}

func (b *Bundle1[A]) componentIDs(reg *ComponentRegistry) []ComponentID {
	return []ComponentID{Register[A](reg, StorageTable)}
}

func (b *Bundle1[A]) valuePointers() []unsafe.Pointer {
	return []unsafe.Pointer{unsafe.Pointer(&b.A)}
}

// Bundle2 is a two-component bundle.
type Bundle2[A, B any] struct {
	A A
	B B
}

func (b *Bundle2[A, B]) componentIDs(reg *ComponentRegistry) []ComponentID {
	return []ComponentID{
		Register[A](reg, StorageTable),
		Register[B](reg, StorageTable),
	}
}

func (b *Bundle2[A, B]) valuePointers() []unsafe.Pointer {
	return []unsafe.Pointer{unsafe.Pointer(&b.A), unsafe.Pointer(&b.B)}
}

// Bundle3 is a three-component bundle.
type Bundle3[A, B, C any] struct {
	A A
	B B
	C C
}

func (b *Bundle3[A, B, C]) componentIDs(reg *ComponentRegistry) []ComponentID {
	return []ComponentID{
		Register[A](reg, StorageTable),
		Register[B](reg, StorageTable),
		Register[C](reg, StorageTable),
	}
}

func (b *Bundle3[A, B, C]) valuePointers() []unsafe.Pointer {
	return []unsafe.Pointer{unsafe.Pointer(&b.A), unsafe.Pointer(&b.B), unsafe.Pointer(&b.C)}
}

// Bundle4 is a four-component bundle.
type Bundle4[A, B, C, D any] struct {
	A A
	B B
	C C
	D D
}

func (b *Bundle4[A, B, C, D]) componentIDs(reg *ComponentRegistry) []ComponentID {
	return []ComponentID{
		Register[A](reg, StorageTable),
		Register[B](reg, StorageTable),
		Register[C](reg, StorageTable),
		Register[D](reg, StorageTable),
	}
}

func (b *Bundle4[A, B, C, D]) valuePointers() []unsafe.Pointer {
	return []unsafe.Pointer{
		unsafe.Pointer(&b.A), unsafe.Pointer(&b.B),
		unsafe.Pointer(&b.C), unsafe.Pointer(&b.D),
	}
}

// DynamicBundle is the reflect-based fallback for bundles whose arity
// exceeds Bundle4, or that are assembled at runtime from a variable number
// of component values. Grounded on the original's reflect-free but
// fully-variadic ComponentBundle<Cs...> (Bundle/Bundle.h); Go's lack of
// variadic generics forces the type-level version down to a handful of
// arities, so this path exists to keep bundles uncapped.
type DynamicBundle struct {
	values []any
	ptrs   []unsafe.Pointer
}

// NewBundle builds a DynamicBundle from component values of any arity. Each
// value's concrete type becomes one component in the bundle, duplicate
// types rejected the same as the fixed-arity bundles.
func NewBundle(values ...any) *DynamicBundle {
	return &DynamicBundle{values: values}
}

func (b *DynamicBundle) componentIDs(reg *ComponentRegistry) []ComponentID {
	ids := make([]ComponentID, len(b.values))
	b.ptrs = make([]unsafe.Pointer, len(b.values))
	seen := make(map[ComponentID]bool, len(b.values))
	for i, v := range b.values {
		id := registerDynamic(reg, v)
		if seen[id] {
			panic(fmt.Sprintf("archecs: dynamic bundle declares component %d more than once", id))
		}
		seen[id] = true
		ids[i] = id
		b.ptrs[i] = valuePointerOf(v)
	}
	return ids
}

func (b *DynamicBundle) valuePointers() []unsafe.Pointer { return b.ptrs }

package archecs

import (
	"fmt"
	"reflect"
	"unsafe"
)

// zstDummy is the shared, never-written address returned for zero-sized
// ("tag") component elements. Spec.md §4.1: "pointers returned for ZST
// elements are a shared dummy address — never dereferenced as storage but
// valid for identity comparisons." Grounded on the original's
// TypeErasedArray::zst_dummy<T>() (Storage/TypeErasedArray.h).
var zstDummy byte

// TypedArray is a contiguous, type-erased array of one component type,
// governed entirely by a ComponentMeta's layout and lifecycle vtable.
// Grounded on the teacher's reflect.MakeSlice-backed chunk columns
// (world.go newChunk) generalized into its own growable, unchunked unit
// (see SPEC_FULL.md §8.2 for why columns are one contiguous array rather
// than chunked).
type TypedArray struct {
	meta     *ComponentMeta
	slice    reflect.Value // live []T backing array, GC-tracked as T
	base     unsafe.Pointer
	size     int
	capacity int
}

// NewTypedArray allocates aligned backing for initialCapacity elements of
// the type described by meta. Zero-sized types never allocate.
func NewTypedArray(meta *ComponentMeta, initialCapacity int) *TypedArray {
	a := &TypedArray{meta: meta}
	if meta.Size == 0 {
		a.capacity = initialCapacity
		return a
	}
	if initialCapacity <= 0 {
		initialCapacity = 8
	}
	a.allocate(initialCapacity)
	return a
}

func (a *TypedArray) allocate(capacity int) {
	sv := reflect.MakeSlice(reflect.SliceOf(a.meta.Type), capacity, capacity)
	a.slice = sv
	a.base = sv.UnsafePointer()
	a.capacity = capacity
}

// Len returns the number of live elements.
func (a *TypedArray) Len() int { return a.size }

// Cap returns the current backing capacity.
func (a *TypedArray) Cap() int { return a.capacity }

// Data returns the base address of the backing storage, or nil for
// zero-sized components (spec.md §4.1 boundary case B3/S1).
func (a *TypedArray) Data() unsafe.Pointer {
	if a.meta.Size == 0 {
		return nil
	}
	return a.base
}

func (a *TypedArray) ensureCapacity(n int) {
	if a.meta.Size == 0 {
		if n > a.capacity {
			a.capacity = n
		}
		return
	}
	if n <= a.capacity {
		return
	}
	newCap := a.capacity * 2
	if newCap < 8 {
		newCap = 8
	}
	if newCap < n {
		newCap = n
	}
	oldBase := a.base
	a.allocate(newCap)
	for i := 0; i < a.size; i++ {
		a.meta.moveConstruct(a.elemPtrUnchecked(i), unsafe.Pointer(uintptr(oldBase)+uintptr(i)*a.meta.Size))
	}
}

func (a *TypedArray) elemPtrUnchecked(i int) unsafe.Pointer {
	if a.meta.Size == 0 {
		return unsafe.Pointer(&zstDummy)
	}
	return unsafe.Pointer(uintptr(a.base) + uintptr(i)*a.meta.Size)
}

func (a *TypedArray) checkIndex(i int) {
	if i < 0 || i >= a.size {
		panic(fmt.Sprintf("archecs: TypedArray index %d out of bounds (size %d)", i, a.size))
	}
}

// Get returns a pointer to the i-th element. Precondition: i < Len().
func (a *TypedArray) Get(i int) unsafe.Pointer {
	a.checkIndex(i)
	return a.elemPtrUnchecked(i)
}

// Slice returns the base pointer of a run of n elements starting at i and
// the element stride, for callers that want to reinterpret it as a typed
// Go slice via unsafe.Slice. Precondition: i+n <= Len().
func (a *TypedArray) Slice(i, n int) (base unsafe.Pointer, stride uintptr) {
	if i < 0 || n < 0 || i+n > a.size {
		panic(fmt.Sprintf("archecs: TypedArray slice [%d:%d) out of bounds (size %d)", i, i+n, a.size))
	}
	return a.elemPtrUnchecked(i), a.meta.Size
}

// PushMove constructs a new trailing element by moving from *src, growing
// capacity by doubling (minimum 8) if full, and returns the new element's
// index.
func (a *TypedArray) PushMove(src unsafe.Pointer) int {
	a.ensureCapacity(a.size + 1)
	idx := a.size
	dst := a.elemPtrUnchecked(idx)
	if a.meta.Size > 0 {
		a.meta.moveConstruct(dst, src)
	}
	a.size++
	return idx
}

// PushCopy constructs a new trailing element by copying from *src. Go
// values have no distinct copy-constructor from their move-constructor
// (value assignment always copies), so this is semantically identical to
// PushMove; it exists to keep the TypedArray surface symmetric with
// spec.md §4.1's push_move/push_copy pair.
func (a *TypedArray) PushCopy(src unsafe.Pointer) int {
	return a.PushMove(src)
}

// ReplaceMove move-assigns *src into slot i. Precondition: i < Len().
func (a *TypedArray) ReplaceMove(i int, src unsafe.Pointer) {
	a.checkIndex(i)
	if a.meta.Size == 0 {
		return
	}
	a.meta.moveConstruct(a.elemPtrUnchecked(i), src)
}

// SwapRemove removes element i: if i is not the last element, the last
// element is move-assigned into slot i; either way the trailing slot is
// destructed and size decrements. This is the only authorized mid-array
// removal (spec.md §4.1).
func (a *TypedArray) SwapRemove(i int) {
	a.checkIndex(i)
	last := a.size - 1
	if i != last && a.meta.Size > 0 {
		a.meta.moveConstruct(a.elemPtrUnchecked(i), a.elemPtrUnchecked(last))
	}
	if a.meta.Size > 0 {
		a.meta.destruct(a.elemPtrUnchecked(last))
	}
	a.size--
}

// Resize grows the array by default-constructing new trailing elements,
// or shrinks it by destructing the tail.
func (a *TypedArray) Resize(n int) {
	if n == a.size {
		return
	}
	if n < a.size {
		if a.meta.Size > 0 {
			for i := n; i < a.size; i++ {
				a.meta.destruct(a.elemPtrUnchecked(i))
			}
		}
		a.size = n
		return
	}
	a.ensureCapacity(n)
	if a.meta.Size > 0 {
		for i := a.size; i < n; i++ {
			a.meta.construct(a.elemPtrUnchecked(i))
		}
	}
	a.size = n
}

// Column reinterprets arr's backing storage as a typed Go slice of length
// Len(). The caller is responsible for T matching arr's registered
// component type; callers that went through World's generic helpers
// always satisfy this by construction.
func Column[T any](arr *TypedArray) []T {
	if arr.meta.Size == 0 || arr.size == 0 {
		return nil
	}
	return unsafe.Slice((*T)(arr.base), arr.size)
}

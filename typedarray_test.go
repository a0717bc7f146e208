package archecs

import (
	"testing"
	"unsafe"
)

func unsafePointerOf[T any](v *T) unsafe.Pointer { return unsafe.Pointer(v) }

type vec2 struct{ X, Y float32 }

type marker struct{}

func TestTypedArrayPushAndGet(t *testing.T) {
	reg := NewComponentRegistry()
	id := Register[vec2](reg, StorageTable)
	arr := NewTypedArray(reg.Meta(id), 2)

	v := vec2{X: 1, Y: 2}
	arr.PushMove(unsafePointerOf(&v))
	if arr.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", arr.Len())
	}
	got := (*vec2)(arr.Get(0))
	if *got != v {
		t.Fatalf("Get(0) = %+v; want %+v", *got, v)
	}
}

func TestTypedArrayGrowsByDoubling(t *testing.T) {
	reg := NewComponentRegistry()
	id := Register[vec2](reg, StorageTable)
	arr := NewTypedArray(reg.Meta(id), 1)
	for i := 0; i < 10; i++ {
		v := vec2{X: float32(i)}
		arr.PushMove(unsafePointerOf(&v))
	}
	if arr.Len() != 10 {
		t.Fatalf("Len() = %d; want 10", arr.Len())
	}
	if arr.Cap() < 10 {
		t.Fatalf("Cap() = %d; want >= 10", arr.Cap())
	}
}

func TestTypedArraySwapRemove(t *testing.T) {
	reg := NewComponentRegistry()
	id := Register[vec2](reg, StorageTable)
	arr := NewTypedArray(reg.Meta(id), 4)
	for i := 0; i < 3; i++ {
		v := vec2{X: float32(i)}
		arr.PushMove(unsafePointerOf(&v))
	}
	arr.SwapRemove(0)
	if arr.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", arr.Len())
	}
	got := (*vec2)(arr.Get(0))
	if got.X != 2 {
		t.Fatalf("Get(0).X = %v; want 2 (last element swapped in)", got.X)
	}
}

func TestTypedArraySwapRemoveLastIsNoMove(t *testing.T) {
	reg := NewComponentRegistry()
	id := Register[vec2](reg, StorageTable)
	arr := NewTypedArray(reg.Meta(id), 4)
	for i := 0; i < 2; i++ {
		v := vec2{X: float32(i)}
		arr.PushMove(unsafePointerOf(&v))
	}
	arr.SwapRemove(1)
	if arr.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", arr.Len())
	}
	got := (*vec2)(arr.Get(0))
	if got.X != 0 {
		t.Fatalf("Get(0).X = %v; want 0 (untouched)", got.X)
	}
}

func TestTypedArrayZeroSizedComponent(t *testing.T) {
	reg := NewComponentRegistry()
	id := Register[marker](reg, StorageTable)
	arr := NewTypedArray(reg.Meta(id), 0)
	for i := 0; i < 5; i++ {
		var m marker
		arr.PushMove(unsafePointerOf(&m))
	}
	if arr.Len() != 5 {
		t.Fatalf("Len() = %d; want 5", arr.Len())
	}
	if arr.Data() != nil {
		t.Fatal("Data() != nil for zero-sized component")
	}
}

func TestColumnReinterpretsBackingArray(t *testing.T) {
	reg := NewComponentRegistry()
	id := Register[vec2](reg, StorageTable)
	arr := NewTypedArray(reg.Meta(id), 4)
	for i := 0; i < 3; i++ {
		v := vec2{X: float32(i), Y: float32(i) * 2}
		arr.PushMove(unsafePointerOf(&v))
	}
	col := Column[vec2](arr)
	if len(col) != 3 {
		t.Fatalf("len(col) = %d; want 3", len(col))
	}
	if col[2].X != 2 || col[2].Y != 4 {
		t.Fatalf("col[2] = %+v; want {2 4}", col[2])
	}
}

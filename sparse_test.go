package archecs

import "testing"

func TestSparseArrayInsertGetRemove(t *testing.T) {
	a := NewSparseArray[EntityIndex, string](4)
	a.Insert(0, "a")
	a.Insert(5, "b")
	a.Insert(9, "c")

	if got, ok := a.Get(5); !ok || got != "b" {
		t.Fatalf("Get(5) = %q, %v; want b, true", got, ok)
	}
	if a.Len() != 3 {
		t.Fatalf("Len() = %d; want 3", a.Len())
	}
	if !a.Contains(9) {
		t.Fatal("Contains(9) = false; want true")
	}

	old, ok := a.Remove(5)
	if !ok || old != "b" {
		t.Fatalf("Remove(5) = %q, %v; want b, true", old, ok)
	}
	if a.Contains(5) {
		t.Fatal("Contains(5) = true after remove")
	}
	if a.Len() != 2 {
		t.Fatalf("Len() after remove = %d; want 2", a.Len())
	}
}

func TestSparseArrayTrimsTrailingEmptyPages(t *testing.T) {
	a := NewSparseArray[EntityIndex, int](4)
	a.Insert(10, 1) // page 2
	if a.PageCount() != 3 {
		t.Fatalf("PageCount() = %d; want 3", a.PageCount())
	}
	a.Remove(10)
	if a.PageCount() != 0 {
		t.Fatalf("PageCount() after remove = %d; want 0 (trailing pages trimmed)", a.PageCount())
	}
}

func TestSparseSetSwapRemoveFixesUpMovedKey(t *testing.T) {
	s := NewSparseSet[EntityIndex, string](4)
	s.Insert(1, "one")
	s.Insert(2, "two")
	s.Insert(3, "three")

	// Remove the middle key; the last key (3) should be swapped into its
	// dense slot, and its sparse pointer must follow.
	if _, ok := s.Remove(2); !ok {
		t.Fatal("Remove(2) = false; want true")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", s.Len())
	}
	got, ok := s.Get(3)
	if !ok || got != "three" {
		t.Fatalf("Get(3) after swap-remove = %q, %v; want three, true", got, ok)
	}
	if s.Contains(2) {
		t.Fatal("Contains(2) = true after removal")
	}
}

func TestSparseSetRemoveLastPerformsNoSwap(t *testing.T) {
	s := NewSparseSet[EntityIndex, int](4)
	s.Insert(1, 10)
	s.Insert(2, 20)
	if _, ok := s.Remove(2); !ok {
		t.Fatal("Remove(2) = false; want true")
	}
	if got, ok := s.Get(1); !ok || got != 10 {
		t.Fatalf("Get(1) = %d, %v; want 10, true", got, ok)
	}
}

package archecs

import "testing"

type posComp struct{ X, Y float32 }
type velComp struct{ X, Y float32 }
type tagComp struct{}

func TestComponentSignatureSortsAndDeduplicates(t *testing.T) {
	reg := NewComponentRegistry()
	pos := Register[posComp](reg, StorageTable)
	vel := Register[velComp](reg, StorageSparse)

	sig := NewComponentSignature(reg, []ComponentID{vel, pos, pos, vel})
	if len(sig.TableIDs) != 1 || sig.TableIDs[0] != pos {
		t.Fatalf("TableIDs = %v; want [%d]", sig.TableIDs, pos)
	}
	if len(sig.SparseIDs) != 1 || sig.SparseIDs[0] != vel {
		t.Fatalf("SparseIDs = %v; want [%d]", sig.SparseIDs, vel)
	}
}

func TestComponentSignatureHashIsOrderIndependent(t *testing.T) {
	reg := NewComponentRegistry()
	a := Register[posComp](reg, StorageTable)
	b := Register[velComp](reg, StorageTable)

	sig1 := NewComponentSignature(reg, []ComponentID{a, b})
	sig2 := NewComponentSignature(reg, []ComponentID{b, a})

	if sig1.Hash() != sig2.Hash() {
		t.Fatal("Hash() differs for the same id set built in different orders")
	}
	if !sig1.Equal(sig2) {
		t.Fatal("Equal() = false for the same id set built in different orders")
	}
}

func TestComponentSignatureWithAndWithoutID(t *testing.T) {
	reg := NewComponentRegistry()
	a := Register[posComp](reg, StorageTable)
	b := Register[velComp](reg, StorageTable)

	sig := NewComponentSignature(reg, []ComponentID{a})
	sig = sig.WithTable(b)
	if !sig.Has(b) {
		t.Fatal("Has(b) = false after WithTable(b)")
	}
	sig = sig.WithoutID(a)
	if sig.Has(a) {
		t.Fatal("Has(a) = true after WithoutID(a)")
	}
	if sig.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", sig.Len())
	}
}

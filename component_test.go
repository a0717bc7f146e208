package archecs

import "testing"

func TestRegisterIsIdempotent(t *testing.T) {
	reg := NewComponentRegistry()
	id1 := Register[posComp](reg, StorageTable)
	id2 := Register[posComp](reg, StorageSparse) // storage class ignored on re-registration
	if id1 != id2 {
		t.Fatalf("id1 = %d, id2 = %d; want equal", id1, id2)
	}
	if reg.Meta(id1).Storage != StorageTable {
		t.Fatal("Storage changed on re-registration; first registration should win")
	}
}

func TestTryLookupUnregisteredReturnsFalse(t *testing.T) {
	reg := NewComponentRegistry()
	if _, ok := TryLookup[posComp](reg); ok {
		t.Fatal("TryLookup found an unregistered type")
	}
	Register[posComp](reg, StorageTable)
	if _, ok := TryLookup[posComp](reg); !ok {
		t.Fatal("TryLookup missed a registered type")
	}
}

func TestZeroSizedComponentMeta(t *testing.T) {
	reg := NewComponentRegistry()
	id := Register[tagComp](reg, StorageTable)
	if reg.Meta(id).Size != 0 {
		t.Fatalf("Size = %d; want 0", reg.Meta(id).Size)
	}
}

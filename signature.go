package archecs

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// ComponentSignature is the sorted, duplicate-free pair of component id
// lists that uniquely identifies a Table's column set or an Archetype's
// full component set: table-stored ids and sparse-stored ids are kept
// separate because only the first determines which Table an archetype
// points at. Grounded on the original's ComponentSignature
// (Component/ComponentSignature.h), which keeps exactly this split.
type ComponentSignature struct {
	TableIDs  []ComponentID
	SparseIDs []ComponentID
}

// NewComponentSignature builds a signature from an unordered, possibly
// duplicate-containing id list plus a registry to classify each id's
// storage class. Ids are split by storage class, deduplicated, and sorted
// ascending so that two signatures built from the same set in any order
// compare and hash identically (spec.md §4.4 "signatures canonicalize").
func NewComponentSignature(reg *ComponentRegistry, ids []ComponentID) ComponentSignature {
	seen := make(map[ComponentID]bool, len(ids))
	var sig ComponentSignature
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if reg.mustMeta(id).Storage == StorageSparse {
			sig.SparseIDs = append(sig.SparseIDs, id)
		} else {
			sig.TableIDs = append(sig.TableIDs, id)
		}
	}
	sort.Slice(sig.TableIDs, func(i, j int) bool { return sig.TableIDs[i] < sig.TableIDs[j] })
	sort.Slice(sig.SparseIDs, func(i, j int) bool { return sig.SparseIDs[i] < sig.SparseIDs[j] })
	return sig
}

// WithTable returns a copy of sig with id inserted into TableIDs, kept
// sorted and deduplicated.
func (sig ComponentSignature) WithTable(id ComponentID) ComponentSignature {
	return ComponentSignature{
		TableIDs:  insertSorted(sig.TableIDs, id),
		SparseIDs: sig.SparseIDs,
	}
}

// WithSparse returns a copy of sig with id inserted into SparseIDs, kept
// sorted and deduplicated.
func (sig ComponentSignature) WithSparse(id ComponentID) ComponentSignature {
	return ComponentSignature{
		TableIDs:  sig.TableIDs,
		SparseIDs: insertSorted(sig.SparseIDs, id),
	}
}

// WithoutID returns a copy of sig with id removed from whichever list
// contains it.
func (sig ComponentSignature) WithoutID(id ComponentID) ComponentSignature {
	return ComponentSignature{
		TableIDs:  removeSorted(sig.TableIDs, id),
		SparseIDs: removeSorted(sig.SparseIDs, id),
	}
}

// Has reports whether id appears in either list.
func (sig ComponentSignature) Has(id ComponentID) bool {
	return containsSorted(sig.TableIDs, id) || containsSorted(sig.SparseIDs, id)
}

// Len returns the total number of distinct component ids in sig.
func (sig ComponentSignature) Len() int { return len(sig.TableIDs) + len(sig.SparseIDs) }

// TableKey returns just the table-stored half of sig, the interning key a
// TableRegistry groups archetypes by (spec.md §4.5: "archetypes with the
// same table-stored set share one Table").
func (sig ComponentSignature) TableKey() ComponentSignature {
	return ComponentSignature{TableIDs: sig.TableIDs}
}

// Equal reports whether sig and other contain exactly the same ids in the
// same two lists. Both are assumed canonical (sorted, deduplicated).
func (sig ComponentSignature) Equal(other ComponentSignature) bool {
	return idSliceEqual(sig.TableIDs, other.TableIDs) && idSliceEqual(sig.SparseIDs, other.SparseIDs)
}

// Hash returns a stable 64-bit digest of sig, used as the intern-table key
// by TableRegistry and the archetype index. Grounded on the pack's use of
// cespare/xxhash for exactly this kind of structural-key hashing.
func (sig ComponentSignature) Hash() uint64 {
	var buf [8]byte
	h := xxhash.New()
	for _, id := range sig.TableIDs {
		putUint64(buf[:], uint64(id))
		h.Write(buf[:])
	}
	h.Write([]byte{0xff}) // separator between the two id lists
	for _, id := range sig.SparseIDs {
		putUint64(buf[:], uint64(id))
		h.Write(buf[:])
	}
	return h.Sum64()
}

func putUint64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}

func idSliceEqual(a, b []ComponentID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsSorted(ids []ComponentID, id ComponentID) bool {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	return i < len(ids) && ids[i] == id
}

func insertSorted(ids []ComponentID, id ComponentID) []ComponentID {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return ids
	}
	out := make([]ComponentID, len(ids)+1)
	copy(out, ids[:i])
	out[i] = id
	copy(out[i+1:], ids[i:])
	return out
}

func removeSorted(ids []ComponentID, id ComponentID) []ComponentID {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i >= len(ids) || ids[i] != id {
		return ids
	}
	out := make([]ComponentID, len(ids)-1)
	copy(out, ids[:i])
	copy(out[i:], ids[i+1:])
	return out
}

package archecs

import "unsafe"

// SparseColumn is the type-erased storage for one sparse-stored component:
// a dense TypedArray of values plus a SparseArray mapping an entity's index
// to its row in that array, with the row's owning entity tracked so a
// swap-remove can fix up the displaced row's sparse pointer. Grounded on
// the original's Storage::sparse_sets (Storage/Storage.h) composing
// SparseSet<EntityIndex, T> per component, adapted here to stay type-erased
// the way TypedArray already is.
type SparseColumn struct {
	meta     *ComponentMeta
	index    *SparseArray[EntityIndex, int]
	entities []EntityIndex
	data     *TypedArray
}

// NewSparseColumn creates an empty SparseColumn for the component described
// by meta.
func NewSparseColumn(meta *ComponentMeta) *SparseColumn {
	return &SparseColumn{
		meta:  meta,
		index: NewSparseArray[EntityIndex, int](defaultPageSize),
		data:  NewTypedArray(meta, 8),
	}
}

// Len returns the number of entities currently holding this component.
func (c *SparseColumn) Len() int { return c.data.Len() }

// Contains reports whether idx currently holds this component.
func (c *SparseColumn) Contains(idx EntityIndex) bool { return c.index.Contains(idx) }

// Get returns a pointer to idx's value, or nil if idx does not hold this
// component.
func (c *SparseColumn) Get(idx EntityIndex) unsafe.Pointer {
	row, ok := c.index.Get(idx)
	if !ok {
		return nil
	}
	return c.data.Get(row)
}

// Insert attaches the component to idx, move-constructing it from *src. If
// idx already holds the component, its existing value is replaced in
// place via move-assignment (spec.md O1: add-of-present replaces).
func (c *SparseColumn) Insert(idx EntityIndex, src unsafe.Pointer) {
	if row, ok := c.index.Get(idx); ok {
		c.data.ReplaceMove(row, src)
		return
	}
	row := c.data.PushMove(src)
	c.entities = append(c.entities, idx)
	c.index.Insert(idx, row)
}

// Remove detaches the component from idx, if present, swap-removing its
// row out of the dense array and fixing up the displaced entity's sparse
// pointer. Returns false if idx did not hold the component.
func (c *SparseColumn) Remove(idx EntityIndex) bool {
	row, ok := c.index.Remove(idx)
	if !ok {
		return false
	}
	last := len(c.entities) - 1
	if row != last {
		moved := c.entities[last]
		c.entities[row] = moved
		c.index.Insert(moved, row)
	}
	c.entities = c.entities[:last]
	c.data.SwapRemove(row)
	return true
}

// Meta returns the ComponentMeta this column stores.
func (c *SparseColumn) Meta() *ComponentMeta { return c.meta }

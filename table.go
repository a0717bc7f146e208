package archecs

// Table is a group of columns shared by every archetype whose table-stored
// component set is identical: one TypedArray per component id, plus the
// dense entity list that makes a row's owner recoverable and a
// swap-remove's displaced row fixable up. Grounded on the teacher's chunk
// (world.go newChunk/expand) generalized from a fixed-size ring buffer of
// pages into a single growable TypedArray per column, and on the
// original's TableManager (Storage/TableManager.h) for the table/column
// split itself.
type Table struct {
	id       TableID
	tableIDs []ComponentID // sorted, == signature's table-stored half
	columns  map[ComponentID]*TypedArray
	entities []Entity
}

func newTable(id TableID, reg *ComponentRegistry, tableIDs []ComponentID) *Table {
	t := &Table{
		id:       id,
		tableIDs: tableIDs,
		columns:  make(map[ComponentID]*TypedArray, len(tableIDs)),
	}
	for _, cid := range tableIDs {
		t.columns[cid] = NewTypedArray(reg.mustMeta(cid), 8)
	}
	return t
}

// Len returns the number of entities currently in the table.
func (t *Table) Len() int { return len(t.entities) }

// Column returns the TypedArray backing component id, or nil if this table
// does not carry that component.
func (t *Table) Column(id ComponentID) *TypedArray { return t.columns[id] }

// EntityAt returns the entity occupying row.
func (t *Table) EntityAt(row TableRow) Entity { return t.entities[row] }

// ComponentIDs returns the table's sorted component id list. Owned by the
// Table; callers must not mutate it.
func (t *Table) ComponentIDs() []ComponentID { return t.tableIDs }

// PushRow appends a new row for e, default-constructing every column's
// slot. Callers fill in the real values afterward via each column's
// ReplaceMove, mirroring the original Storage::write_bundle's
// "migrate-then-write" ordering (Storage/Storage.h).
func (t *Table) PushRow(e Entity) TableRow {
	row := TableRow(len(t.entities))
	t.entities = append(t.entities, e)
	for _, cid := range t.tableIDs {
		col := t.columns[cid]
		col.Resize(col.Len() + 1)
	}
	return row
}

// SwapRemoveRow removes row from every column and from the entity list via
// swap-remove. If a different row was moved into row's old slot, it
// returns that row's entity and true so the caller can fix up its
// EntityLocation.
func (t *Table) SwapRemoveRow(row TableRow) (moved Entity, didMove bool) {
	last := TableRow(len(t.entities) - 1)
	for _, cid := range t.tableIDs {
		t.columns[cid].SwapRemove(int(row))
	}
	if row != last {
		t.entities[row] = t.entities[last]
		didMove = true
		moved = t.entities[row]
	}
	t.entities = t.entities[:last]
	return moved, didMove
}

// TableRegistry interns Table instances by their table-stored component
// signature, so two archetypes that differ only in sparse-stored
// components share one Table. Grounded on the original's TableManager
// (Storage/TableManager.h), which performs exactly this interning.
type TableRegistry struct {
	reg    *ComponentRegistry
	byHash map[uint64]TableID
	tables []*Table
}

// NewTableRegistry creates a TableRegistry with the reserved empty table
// (EmptyTableID) already interned.
func NewTableRegistry(reg *ComponentRegistry) *TableRegistry {
	tr := &TableRegistry{
		reg:    reg,
		byHash: make(map[uint64]TableID, 16),
	}
	empty := newTable(EmptyTableID, reg, nil)
	tr.tables = append(tr.tables, empty)
	tr.byHash[ComponentSignature{}.Hash()] = EmptyTableID
	return tr
}

// GetOrCreate returns the TableID for the given sorted, deduplicated
// table-stored component id list, creating a new Table if no existing one
// matches.
func (tr *TableRegistry) GetOrCreate(tableIDs []ComponentID) TableID {
	key := ComponentSignature{TableIDs: tableIDs}
	h := key.Hash()
	if id, ok := tr.byHash[h]; ok {
		return id
	}
	id := TableID(len(tr.tables))
	t := newTable(id, tr.reg, tableIDs)
	tr.tables = append(tr.tables, t)
	tr.byHash[h] = id
	return id
}

// Table returns the Table for id.
func (tr *TableRegistry) Table(id TableID) *Table { return tr.tables[id] }

// Len returns the number of distinct tables interned so far.
func (tr *TableRegistry) Len() int { return len(tr.tables) }

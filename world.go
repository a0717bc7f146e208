package archecs

import (
	"unsafe"

	"go.uber.org/zap"
)

// World owns every per-instance registry an ECS needs: entities,
// components, bundles, tables, archetypes, sparse columns, plus the
// ambient Resources store and EventBus. Nothing here is global — two
// Worlds never share a registry — matching spec.md §9's isolation
// requirement. Grounded on the teacher's World (world.go), restructured
// around the archetype/table/sparse-set split this package implements.
type World struct {
	config     WorldConfig
	logger     *zap.Logger
	components *ComponentRegistry
	bundles    *BundleRegistry
	tables     *TableRegistry
	archetypes *ArchetypeRegistry
	entities   *EntityRegistry
	sparse     map[ComponentID]*SparseColumn
	resources  *Resources
	events     *EventBus
	index      *ComponentIndex
}

// NewWorld creates a World using DefaultWorldConfig and a no-op logger.
func NewWorld() *World {
	return NewWorldWithConfig(DefaultWorldConfig())
}

// NewWorldWithConfig creates a World sized by cfg.
func NewWorldWithConfig(cfg WorldConfig) *World {
	components := NewComponentRegistry()
	tables := NewTableRegistry(components)
	archetypes := NewArchetypeRegistry(components, tables)
	index := NewComponentIndex()
	w := &World{
		config:     cfg,
		logger:     zap.NewNop(),
		components: components,
		bundles:    NewBundleRegistry(),
		tables:     tables,
		archetypes: archetypes,
		entities:   NewEntityRegistry(cfg.InitialEntityCapacity),
		sparse:     make(map[ComponentID]*SparseColumn),
		resources:  NewResources(),
		events:     NewEventBus(),
		index:      index,
	}
	index.indexArchetype(archetypes.Archetype(EmptyArchetypeID), tables)
	archetypes.OnCreate(func(a *Archetype) {
		index.indexArchetype(a, tables)
		Publish(w.events, ArchetypeCreated{ArchetypeID: a.id, Signature: a.signature})
	})
	return w
}

// WithLogger installs logger as the World's structured logger, returning
// the World so construction can chain (matching the teacher's fluent
// With*-style World setup). A nil logger installs zap.NewNop().
func (w *World) WithLogger(logger *zap.Logger) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	w.logger = logger
	return w
}

// Resources returns the World's singleton resource store.
func (w *World) Resources() *Resources { return w.resources }

// Events returns the World's event bus.
func (w *World) Events() *EventBus { return w.events }

// Components returns the World's component registry, for callers that
// need to pre-register a type's storage class before first use.
func (w *World) Components() *ComponentRegistry { return w.components }

// ComponentIndex returns the World's secondary component→archetype index,
// the surface external query/iteration code is meant to consume
// (spec.md §6).
func (w *World) ComponentIndex() *ComponentIndex { return w.index }

// Archetype returns the archetype for id, for query code that has already
// resolved an ArchetypeID via ComponentIndex.
func (w *World) Archetype(id ArchetypeID) *Archetype { return w.archetypes.Archetype(id) }

// Table returns the table for id, for query code that has already
// resolved a TableID via an Archetype.
func (w *World) Table(id TableID) *Table { return w.tables.Table(id) }

// SparseColumnFor returns the sparse storage for component id, creating it
// empty on first reference, for query code iterating a sparse component.
func (w *World) SparseColumnFor(id ComponentID) *SparseColumn { return w.sparseColumnFor(id) }

// Len returns the number of currently live entities.
func (w *World) Len() int { return w.entities.Len() }

// IsValid reports whether e still names a live entity.
func (w *World) IsValid(e Entity) bool { return w.entities.IsValid(e) }

// GetLocation returns e's current EntityLocation and true, or a zero value
// and false if e is stale.
func (w *World) GetLocation(e Entity) (EntityLocation, bool) { return w.entities.Location(e) }

// CreateEntity allocates a new entity with no components, placed in the
// reserved empty archetype.
func (w *World) CreateEntity() Entity {
	e := w.entities.Create()
	empty := w.archetypes.Archetype(EmptyArchetypeID)
	row := empty.pushEntity(e)
	w.entities.SetLocation(e, EntityLocation{
		ArchetypeID:  EmptyArchetypeID,
		ArchetypeRow: row,
		TableID:      EmptyTableID,
		TableRow:     NullTableRow,
	})
	w.logger.Debug("entity created", zap.Stringer("entity", e))
	Publish(w.events, EntityCreated{Entity: e})
	return e
}

// CreateEntityWithBundle allocates a new entity and immediately attaches
// bundle's components to it.
func (w *World) CreateEntityWithBundle(bundle Bundle) Entity {
	e := w.CreateEntity()
	_ = w.AddBundle(e, bundle)
	return e
}

// DestroyEntity removes e from its archetype and table, detaches every
// sparse-stored component it holds, and recycles its identity. Returns
// false if e was already stale.
func (w *World) DestroyEntity(e Entity) bool {
	loc, ok := w.entities.Location(e)
	if !ok {
		return false
	}
	arch := w.archetypes.Archetype(loc.ArchetypeID)
	for _, id := range arch.signature.SparseIDs {
		w.sparseColumnFor(id).Remove(e.Index)
	}
	if loc.TableID != EmptyTableID {
		table := w.tables.Table(loc.TableID)
		if moved, did := table.SwapRemoveRow(loc.TableRow); did {
			w.fixupTableRow(moved, loc.TableRow)
		}
	}
	if moved, did := arch.swapRemoveEntity(loc.ArchetypeRow); did {
		w.fixupArchetypeRow(moved, loc.ArchetypeRow)
	}
	w.entities.Destroy(e)
	w.logger.Debug("entity destroyed", zap.Stringer("entity", e))
	Publish(w.events, EntityDestroyed{Entity: e})
	return true
}

// AddBundle attaches every component in bundle to e, replacing the value
// of any component e already carries (spec.md O1). Returns
// ErrInvalidEntity if e is stale.
func (w *World) AddBundle(e Entity, bundle Bundle) error {
	loc, ok := w.entities.Location(e)
	if !ok {
		return ErrInvalidEntity
	}
	ids := bundle.componentIDs(w.components)
	ptrs := bundle.valuePointers()
	bundleID := RegisterBundle(w.bundles, ids)
	destID := w.archetypes.destinationAdd(loc.ArchetypeID, bundleID, ids)
	w.migrate(e, loc, destID, ids, ptrs, nil)
	return nil
}

// RemoveComponents detaches every component in ids from e, if present.
// Removing a component e does not carry is a harmless no-op for that id.
// Returns ErrInvalidEntity if e is stale.
func (w *World) RemoveComponents(e Entity, ids ...ComponentID) error {
	loc, ok := w.entities.Location(e)
	if !ok {
		return ErrInvalidEntity
	}
	bundleID := RegisterBundle(w.bundles, ids)
	destID := w.archetypes.destinationRemove(loc.ArchetypeID, bundleID, ids)
	w.migrate(e, loc, destID, nil, nil, ids)
	return nil
}

// HasComponent reports whether e currently carries component id. Returns
// false for a stale entity.
func (w *World) HasComponent(e Entity, id ComponentID) bool {
	loc, ok := w.entities.Location(e)
	if !ok {
		return false
	}
	return w.archetypes.Archetype(loc.ArchetypeID).HasComponent(id)
}

// GetComponent returns a pointer to e's value of component id, or nil if e
// is stale or does not carry it.
func (w *World) GetComponent(e Entity, id ComponentID) unsafe.Pointer {
	loc, ok := w.entities.Location(e)
	if !ok {
		return nil
	}
	meta := w.components.Meta(id)
	if meta == nil {
		return nil
	}
	if meta.Storage == StorageSparse {
		return w.sparseColumnFor(id).Get(e.Index)
	}
	if loc.TableID == EmptyTableID {
		return nil
	}
	col := w.tables.Table(loc.TableID).Column(id)
	if col == nil {
		return nil
	}
	return col.Get(int(loc.TableRow))
}

// GetComponentT returns a typed pointer to e's value of component T, and
// true, or nil and false if e is stale, doesn't carry T, or T was never
// registered against this World.
func GetComponentT[T any](w *World, e Entity) (*T, bool) {
	id, ok := TryLookup[T](w.components)
	if !ok {
		return nil, false
	}
	ptr := w.GetComponent(e, id)
	if ptr == nil {
		return nil, false
	}
	return (*T)(ptr), true
}

func (w *World) sparseColumnFor(id ComponentID) *SparseColumn {
	col, ok := w.sparse[id]
	if !ok {
		col = NewSparseColumn(w.components.mustMeta(id))
		col.index = NewSparseArray[EntityIndex, int](w.config.SparsePageSize)
		w.sparse[id] = col
	}
	return col
}

func (w *World) fixupTableRow(e Entity, row TableRow) {
	loc, ok := w.entities.Location(e)
	if !ok {
		return
	}
	loc.TableRow = row
	w.entities.SetLocation(e, loc)
}

func (w *World) fixupArchetypeRow(e Entity, row ArchetypeRow) {
	loc, ok := w.entities.Location(e)
	if !ok {
		return
	}
	loc.ArchetypeRow = row
	w.entities.SetLocation(e, loc)
}

// migrate is the single mechanism behind AddBundle, RemoveComponents, and
// CreateEntityWithBundle: it moves e from its current archetype/table into
// destArchID's, copying forward every retained table-stored value,
// writing every value in writeIDs/writePtrs (table-stored or sparse), and
// detaching every id in removeIDs from sparse storage. Grounded on the
// original's Storage::write_bundle "migrate, then write" ordering
// (Storage/Storage.h) and Archetype::add_bundle_to_archetype /
// remove_bundle_from_archetype (Archetype/Archetype.h).
func (w *World) migrate(
	e Entity,
	oldLoc EntityLocation,
	destArchID ArchetypeID,
	writeIDs []ComponentID,
	writePtrs []unsafe.Pointer,
	removeIDs []ComponentID,
) {
	for _, id := range removeIDs {
		if w.components.mustMeta(id).Storage == StorageSparse {
			w.sparseColumnFor(id).Remove(e.Index)
		}
	}

	srcArch := w.archetypes.Archetype(oldLoc.ArchetypeID)

	if destArchID == oldLoc.ArchetypeID {
		destTable := w.tables.Table(srcArch.tableID)
		for i, id := range writeIDs {
			if w.components.mustMeta(id).Storage == StorageSparse {
				w.sparseColumnFor(id).Insert(e.Index, writePtrs[i])
			} else {
				destTable.Column(id).ReplaceMove(int(oldLoc.TableRow), writePtrs[i])
			}
		}
		return
	}

	destArch := w.archetypes.Archetype(destArchID)
	newTableRow := oldLoc.TableRow
	var destTable *Table

	if destArch.tableID == srcArch.tableID {
		if destArch.tableID != EmptyTableID {
			destTable = w.tables.Table(destArch.tableID)
		}
	} else {
		newTableRow = NullTableRow
		if destArch.tableID != EmptyTableID {
			destTable = w.tables.Table(destArch.tableID)
			newTableRow = destTable.PushRow(e)
			if srcArch.tableID != EmptyTableID {
				srcTable := w.tables.Table(srcArch.tableID)
				for _, id := range destTable.ComponentIDs() {
					if srcCol := srcTable.Column(id); srcCol != nil {
						destTable.Column(id).ReplaceMove(int(newTableRow), srcCol.Get(int(oldLoc.TableRow)))
					}
				}
			}
		}
		if srcArch.tableID != EmptyTableID {
			srcTable := w.tables.Table(srcArch.tableID)
			if moved, did := srcTable.SwapRemoveRow(oldLoc.TableRow); did {
				w.fixupTableRow(moved, oldLoc.TableRow)
			}
		}
	}

	for i, id := range writeIDs {
		if w.components.mustMeta(id).Storage == StorageSparse {
			w.sparseColumnFor(id).Insert(e.Index, writePtrs[i])
		} else {
			destTable.Column(id).ReplaceMove(int(newTableRow), writePtrs[i])
		}
	}

	newArchRow := destArch.pushEntity(e)
	if moved, did := srcArch.swapRemoveEntity(oldLoc.ArchetypeRow); did {
		w.fixupArchetypeRow(moved, oldLoc.ArchetypeRow)
	}

	w.entities.SetLocation(e, EntityLocation{
		ArchetypeID:  destArchID,
		ArchetypeRow: newArchRow,
		TableID:      destArch.tableID,
		TableRow:     newTableRow,
	})
}

package ecs

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// invariantViolation panics with a bark-traced error. It marks a
// condition the type system cannot express and that indicates a bug in
// this package itself — never a caller mistake, which is always a
// returned error (see errors.go).
func invariantViolation(format string, args ...any) {
	panic(bark.AddTrace(fmt.Errorf(format, args...)))
}

// World orchestrates archetype discovery, component-store allocation,
// and archetype-transition policy for one independent ECS universe (base
// spec §3). A World exclusively owns its archetypes, stores, pools, and
// entity table; entity handles are non-owning references into it.
type World struct {
	name  string
	alive bool

	table      *entityTable
	archetypes []*archetype
	sigIndex   *IntKeyMap[[]archetypeID]

	stores map[ComponentTypeId]componentStoreHandle
	pools  map[ComponentTypeId]taskPoolHandle

	lockDepth      int
	dirty          map[EntityID]struct{}
	pendingDestroy map[EntityID]struct{}
}

// WorldInfo is the read-only snapshot returned by World.Info.
type WorldInfo struct {
	EntityCount        int
	FreeCount          int
	ArchetypeCount     int
	ComponentTypeCount int
}

// ArchetypeView is a read-only snapshot of one archetype, used by
// World.Archetypes (SPEC_FULL supplemented feature: introspection beyond
// Info).
type ArchetypeView struct {
	Signature   BitSignature
	EntityCount int
}

func newWorld(name string, cfg Config) *World {
	w := &World{
		name:           name,
		alive:          true,
		table:          newEntityTable(cfg.InitialEntities),
		archetypes:     make([]*archetype, 0, cfg.InitialArchetypes),
		sigIndex:       NewIntKeyMap[[]archetypeID](cfg.InitialArchetypes),
		stores:         make(map[ComponentTypeId]componentStoreHandle, cfg.InitialComponentTypes),
		pools:          make(map[ComponentTypeId]taskPoolHandle),
		dirty:          make(map[EntityID]struct{}),
		pendingDestroy: make(map[EntityID]struct{}),
	}
	empty := newArchetype(0, BitSignature{})
	w.archetypes = append(w.archetypes, empty)
	w.sigIndex.Set(empty.signature.Hash(), []archetypeID{0})
	return w
}

// Info reports live/free entity counts and archetype/component-type
// totals (base spec §6).
func (w *World) Info() WorldInfo {
	live := 0
	for i := range w.table.records {
		if w.table.records[i].archetype >= 0 {
			live++
		}
	}
	return WorldInfo{
		EntityCount:        live,
		FreeCount:          len(w.table.freeList),
		ArchetypeCount:     len(w.archetypes),
		ComponentTypeCount: len(w.stores),
	}
}

// Archetypes returns a read-only snapshot of every archetype this World
// has ever created, including the always-present empty archetype at
// index 0.
func (w *World) Archetypes() []ArchetypeView {
	views := make([]ArchetypeView, len(w.archetypes))
	for i, a := range w.archetypes {
		views[i] = ArchetypeView{Signature: a.signature.Clone(), EntityCount: a.count()}
	}
	return views
}

// ComponentTypeName returns the registered Go type name for id, if any
// component of that type has been observed by the process.
func (w *World) ComponentTypeName(id ComponentTypeId) (string, bool) {
	return componentTypeName(id)
}

// CreateEntity allocates a new entity bound to the empty archetype.
func (w *World) CreateEntity() (Entity, error) {
	if !w.alive {
		return Entity{}, WorldDestroyedError{Name: w.name}
	}
	id, gen := w.table.create()
	w.table.records[id].archetype = 0
	w.archetypes[0].addEntity(id)
	return Entity{id: id, generation: gen, world: w}, nil
}

// NewEntities bulk-creates n entities and attaches comps to each one, in
// order, mirroring the teacher's Storage.NewEntities(n, components...)
// (SPEC_FULL supplemented feature). Every entity ends up in whichever
// archetype matches the union of comps' types, the same as calling
// CreateEntity followed by one Set per component.
func (w *World) NewEntities(n int, comps ...ComponentType) ([]Entity, error) {
	if !w.alive {
		return nil, WorldDestroyedError{Name: w.name}
	}
	if n <= 0 {
		return nil, fmt.Errorf("ecs: entity count must be positive, got %d", n)
	}
	out := make([]Entity, n)
	empty := w.archetypes[0]
	for i := 0; i < n; i++ {
		id, gen := w.table.create()
		w.table.records[id].archetype = 0
		empty.addEntity(id)
		e := Entity{id: id, generation: gen, world: w}
		for _, c := range comps {
			if err := c.attach(w, e); err != nil {
				return nil, err
			}
		}
		out[i] = e
	}
	return out, nil
}

// Entity looks up a live entity by table index, reconstructing its
// current generation.
func (w *World) Entity(id EntityID) (Entity, error) {
	if int(id) >= len(w.table.records) {
		return Entity{}, StaleEntityError{}
	}
	rec := &w.table.records[id]
	if rec.archetype < 0 {
		return Entity{}, StaleEntityError{}
	}
	return Entity{id: id, generation: rec.generation, world: w}, nil
}

// Reserve pre-grows the entity table, archetype list, component-store
// map, and signature index without creating any entities (SPEC_FULL
// supplemented feature).
func (w *World) Reserve(componentTypeCount, archetypeCount, entityCount int) {
	if entityCount > cap(w.table.records) {
		grown := make([]entityRecord, len(w.table.records), entityCount)
		copy(grown, w.table.records)
		w.table.records = grown
	}
	if archetypeCount > cap(w.archetypes) {
		grown := make([]*archetype, len(w.archetypes), archetypeCount)
		copy(grown, w.archetypes)
		w.archetypes = grown
	}
	if componentTypeCount > len(w.stores) {
		grown := make(map[ComponentTypeId]componentStoreHandle, componentTypeCount)
		for k, v := range w.stores {
			grown[k] = v
		}
		w.stores = grown
	}
	if archetypeCount > w.sigIndex.Len() {
		rebuilt := NewIntKeyMap[[]archetypeID](archetypeCount)
		for _, a := range w.archetypes {
			hash := a.signature.Hash()
			existing, _ := rebuilt.Get(hash)
			rebuilt.Set(hash, append(existing, a.id))
		}
		w.sigIndex = rebuilt
	}
}

// isAlive is the non-error-returning predicate behind Entity.IsAlive.
func (w *World) isAlive(e Entity) bool {
	if e.world != w {
		return false
	}
	return w.table.isAlive(e.id, e.generation)
}

// validate is the shared guard at the top of every mutating entry point:
// it enforces the base spec §7 error taxonomy (destroyed world, wrong
// world, stale entity) before any state is touched.
func (w *World) validate(e Entity) error {
	if !w.alive {
		return WorldDestroyedError{Name: w.name}
	}
	if e.world != w {
		return WrongWorldError{}
	}
	if int(e.id) >= len(w.table.records) {
		return StaleEntityError{Entity: e}
	}
	rec := &w.table.records[e.id]
	if rec.generation != e.generation || rec.archetype < 0 {
		return StaleEntityError{Entity: e}
	}
	return nil
}

// destroy is the validated entry point behind Entity.Destroy. Component
// values are removed from their stores immediately; only the archetype
// membership move is deferred while the world is locked (base spec §5).
func (w *World) destroy(e Entity) error {
	if err := w.validate(e); err != nil {
		return err
	}
	rec := &w.table.records[e.id]
	rec.signature.ForEachSet(func(bit int) {
		if store, ok := w.stores[ComponentTypeId(bit)]; ok {
			store.removeEntity(e.id)
		}
	})
	rec.signature = BitSignature{}
	w.pendingDestroy[e.id] = struct{}{}
	if w.lockDepth > 0 {
		w.dirty[e.id] = struct{}{}
		return nil
	}
	w.destroyEntityNow(e.id)
	return nil
}

// destroyEntityNow detaches id from its archetype and returns the slot
// to the free list. It assumes component stores and the signature were
// already cleared by the caller (either eagerly at mutation time, or
// just above in destroy).
func (w *World) destroyEntityNow(id EntityID) {
	rec := &w.table.records[id]
	if rec.archetype < 0 {
		invariantViolation("ecs: entity %d destroyed twice", id)
	}
	w.archetypes[rec.archetype].removeEntity(id)
	w.table.destroy(id)
	delete(w.pendingDestroy, id)
	delete(w.dirty, id)
}

// resolveArchetype finds or creates the archetype matching sig exactly.
// The signature hash indexes into sigIndex; every hash hit is verified
// against the candidate's actual signature by equality before being
// trusted, so a 64-bit hash collision across two distinct signatures
// cannot silently alias them (base spec §4.3, §4.6, §9).
func (w *World) resolveArchetype(sig BitSignature) archetypeID {
	hash := sig.Hash()
	if candidates, ok := w.sigIndex.Get(hash); ok {
		for _, id := range candidates {
			if w.archetypes[id].signature.Equal(sig) {
				return id
			}
		}
	}
	id := archetypeID(len(w.archetypes))
	w.archetypes = append(w.archetypes, newArchetype(id, sig.Clone()))
	existing, _ := w.sigIndex.Get(hash)
	w.sigIndex.Set(hash, append(existing, id))
	return id
}

// applyTransition resolves id's new archetype membership for newSig, or
// recycles id if newSig is now empty. Removing an entity's last
// component is the same observable outcome as explicitly destroying it
// (base spec §4.6, §8): there is no archetype for "entity with no
// components" other than the permanently-empty archetype, and the spec
// requires count == 0 to recycle the entity rather than park it there.
// This is the single path both the immediate (unlocked) and deferred
// (flushDirty) transitions route through, so the two can never disagree.
func (w *World) applyTransition(id EntityID, newSig BitSignature) {
	if newSig.Count() == 0 {
		w.destroyEntityNow(id)
		return
	}
	w.moveEntity(id, newSig)
}

// moveEntity transfers id from its current archetype to whichever
// archetype matches newSig, resolving/creating that archetype as needed.
// newSig must be non-empty; callers with a possibly-empty signature must
// go through applyTransition instead.
func (w *World) moveEntity(id EntityID, newSig BitSignature) {
	rec := &w.table.records[id]
	oldID := rec.archetype
	newID := w.resolveArchetype(newSig)
	if oldID == newID {
		return
	}
	if oldID >= 0 {
		w.archetypes[oldID].removeEntity(id)
	}
	w.archetypes[newID].addEntity(id)
	rec.archetype = newID
}

// flushDirty replays every entity-archetype transition deferred while
// the world lock was held, in ascending entity-id order. Called exactly
// once, when the outermost query iterator's unlock brings lockDepth back
// to 0 (base spec §5).
func (w *World) flushDirty() {
	if len(w.dirty) == 0 {
		return
	}
	ids := make([]EntityID, 0, len(w.dirty))
	for id := range w.dirty {
		ids = append(ids, id)
	}
	insertionSortEntityIDs(ids)
	for _, id := range ids {
		delete(w.dirty, id)
		if _, pending := w.pendingDestroy[id]; pending {
			w.destroyEntityNow(id)
			continue
		}
		rec := &w.table.records[id]
		if rec.archetype < 0 {
			continue
		}
		w.applyTransition(id, rec.signature)
	}
}

// insertionSortEntityIDs sorts a small id slice ascending. Dirty sets are
// expected to stay small relative to world size, so a simple insertion
// sort avoids pulling in sort.Slice's reflection overhead for the
// common case of a handful of structural changes per tick.
func insertionSortEntityIDs(ids []EntityID) {
	for i := 1; i < len(ids); i++ {
		v := ids[i]
		j := i - 1
		for j >= 0 && ids[j] > v {
			ids[j+1] = ids[j]
			j--
		}
		ids[j+1] = v
	}
}

// teardown releases everything a destroyed World owned.
func (w *World) teardown() {
	w.archetypes = nil
	w.stores = nil
	w.pools = nil
	w.table = nil
	w.dirty = nil
	w.pendingDestroy = nil
	w.sigIndex = nil
}

package ecs

import "testing"

type wtPosition struct{ X, Y float64 }
type wtVelocity struct{ X, Y float64 }

func TestWorldInfoTracksArchetypeGrowth(t *testing.T) {
	w := newWorld("info", DefaultConfig())
	e, err := w.CreateEntity()
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	info := w.Info()
	if info.EntityCount != 1 || info.ArchetypeCount != 1 {
		t.Fatalf("Info() = %+v, want 1 entity, 1 archetype (empty)", info)
	}

	if err := Set(w, e, wtPosition{X: 1}); err != nil {
		t.Fatalf("Set(Position) error = %v", err)
	}
	if err := Set(w, e, wtVelocity{X: 2}); err != nil {
		t.Fatalf("Set(Velocity) error = %v", err)
	}

	info = w.Info()
	if info.EntityCount != 1 {
		t.Fatalf("EntityCount = %d, want 1", info.EntityCount)
	}
	if info.ArchetypeCount != 3 {
		t.Fatalf("ArchetypeCount = %d, want 3 (empty, +Position, +Position+Velocity)", info.ArchetypeCount)
	}
	if info.ComponentTypeCount != 2 {
		t.Fatalf("ComponentTypeCount = %d, want 2", info.ComponentTypeCount)
	}
}

func TestWorldSetMovesEntityBetweenArchetypes(t *testing.T) {
	w := newWorld("move", DefaultConfig())
	e, _ := w.CreateEntity()
	_ = Set(w, e, wtPosition{X: 1, Y: 2})

	rec := &w.table.records[e.id]
	if rec.archetype == 0 {
		t.Fatalf("entity should have moved out of the empty archetype")
	}
	has, err := Has[wtPosition](w, e)
	if err != nil || !has {
		t.Fatalf("Has[Position]() = %v,%v want true,nil", has, err)
	}

	if err := Remove[wtPosition](w, e); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if e.IsAlive() {
		t.Fatalf("removing an entity's last component should recycle it, not park it in the empty archetype")
	}
	if w.Info().FreeCount != 1 {
		t.Fatalf("FreeCount = %d, want 1 after the entity was recycled", w.Info().FreeCount)
	}
}

func TestWorldDestroyClearsComponentsAndFreesSlot(t *testing.T) {
	w := newWorld("destroy", DefaultConfig())
	e, _ := w.CreateEntity()
	_ = Set(w, e, wtPosition{X: 9})

	if err := e.Destroy(); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}

	info := w.Info()
	if info.EntityCount != 0 {
		t.Fatalf("EntityCount = %d, want 0 after destroy", info.EntityCount)
	}
	if info.FreeCount != 1 {
		t.Fatalf("FreeCount = %d, want 1 after destroy", info.FreeCount)
	}

	e2, _ := w.CreateEntity()
	if e2.id != e.id {
		t.Fatalf("new entity should recycle the freed slot")
	}
	if e2.generation == e.generation {
		t.Fatalf("recycled slot must carry a bumped generation")
	}
}

func TestWorldDestroyedRejectsFurtherOperations(t *testing.T) {
	w, err := Create("reject", DefaultConfig())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := Destroy(w); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if _, err := w.CreateEntity(); err == nil {
		t.Fatalf("CreateEntity() on a destroyed world should error")
	} else if _, ok := err.(WorldDestroyedError); !ok {
		t.Fatalf("error = %T, want WorldDestroyedError", err)
	}
}

func TestWorldNewEntitiesBulk(t *testing.T) {
	w := newWorld("bulk", DefaultConfig())
	entities, err := w.NewEntities(5)
	if err != nil {
		t.Fatalf("NewEntities() error = %v", err)
	}
	if len(entities) != 5 {
		t.Fatalf("len(entities) = %d, want 5", len(entities))
	}
	if w.Info().EntityCount != 5 {
		t.Fatalf("EntityCount = %d, want 5", w.Info().EntityCount)
	}
	if _, err := w.NewEntities(0); err == nil {
		t.Fatalf("NewEntities(0) should error")
	}
}

func TestWorldNewEntitiesWithComponents(t *testing.T) {
	w := newWorld("bulk-components", DefaultConfig())
	entities, err := w.NewEntities(3, WithComponent(wtPosition{X: 1, Y: 2}), WithComponent(wtVelocity{X: 3, Y: 4}))
	if err != nil {
		t.Fatalf("NewEntities() error = %v", err)
	}
	if len(entities) != 3 {
		t.Fatalf("len(entities) = %d, want 3", len(entities))
	}
	for _, e := range entities {
		pos, err := Get[wtPosition](w, e)
		if err != nil || pos == nil || pos.X != 1 || pos.Y != 2 {
			t.Fatalf("Get[Position]() = %v,%v want {1,2},nil", pos, err)
		}
		vel, err := Get[wtVelocity](w, e)
		if err != nil || vel == nil || vel.X != 3 || vel.Y != 4 {
			t.Fatalf("Get[Velocity]() = %v,%v want {3,4},nil", vel, err)
		}
		if e.id == entities[0].id {
			continue
		}
		rec := &w.table.records[e.id]
		if rec.archetype != w.table.records[entities[0].id].archetype {
			t.Fatalf("entities created with the same components should share an archetype")
		}
	}
}

func TestWorldEntityLookup(t *testing.T) {
	w := newWorld("lookup", DefaultConfig())
	e, _ := w.CreateEntity()
	found, err := w.Entity(e.id)
	if err != nil {
		t.Fatalf("Entity() error = %v", err)
	}
	if found.generation != e.generation {
		t.Fatalf("Entity() generation = %d, want %d", found.generation, e.generation)
	}
	if _, err := w.Entity(EntityID(999)); err == nil {
		t.Fatalf("Entity() on an out-of-range id should error")
	}
}

func TestWorldArchetypesAndComponentTypeName(t *testing.T) {
	w := newWorld("views", DefaultConfig())
	e, _ := w.CreateEntity()
	_ = Set(w, e, wtPosition{})

	views := w.Archetypes()
	if len(views) < 2 {
		t.Fatalf("len(Archetypes()) = %d, want at least 2", len(views))
	}

	id := ComponentTypeOf[wtPosition]()
	name, ok := w.ComponentTypeName(id)
	if !ok {
		t.Fatalf("ComponentTypeName() missing for registered type")
	}
	if name == "" {
		t.Fatalf("ComponentTypeName() returned empty name")
	}
}

func TestWorldResolveArchetypeDeduplicatesIdenticalSignatures(t *testing.T) {
	w := newWorld("dedup", DefaultConfig())
	var sigA, sigB BitSignature
	sigA.Set(3)
	sigB.Set(3)

	idA := w.resolveArchetype(sigA)
	idB := w.resolveArchetype(sigB)
	if idA != idB {
		t.Fatalf("two equal signatures resolved to different archetypes: %d vs %d", idA, idB)
	}
}

func TestWorldReserveGrowsCapacityWithoutCreatingEntities(t *testing.T) {
	w := newWorld("reserve", DefaultConfig())
	e, _ := w.CreateEntity()
	_ = Set(w, e, wtPosition{})

	beforeSigLen := w.sigIndex.Len()
	w.Reserve(64, 64, 256)

	if cap(w.table.records) < 256 {
		t.Fatalf("cap(table.records) = %d, want >= 256", cap(w.table.records))
	}
	if cap(w.archetypes) < 64 {
		t.Fatalf("cap(archetypes) = %d, want >= 64", cap(w.archetypes))
	}
	if w.sigIndex.Len() != beforeSigLen {
		t.Fatalf("Reserve must not change the set of indexed signatures, Len() = %d, want %d", w.sigIndex.Len(), beforeSigLen)
	}
	// The rebuilt signature index must still resolve existing archetypes.
	idAgain := w.resolveArchetype(w.table.records[e.id].signature)
	if idAgain != w.table.records[e.id].archetype {
		t.Fatalf("resolveArchetype() after Reserve = %d, want %d (existing archetype)", idAgain, w.table.records[e.id].archetype)
	}
	if w.Info().EntityCount != 1 {
		t.Fatalf("Reserve must not create entities, EntityCount = %d, want 1", w.Info().EntityCount)
	}
}

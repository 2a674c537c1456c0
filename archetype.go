package ecs

// archetypeID identifies an archetype's position in World.archetypes. It
// is an arena index, not a pointer, so the archetype "graph" the teacher
// caches as next/prior links cannot form a reference cycle (base spec §9).
type archetypeID int32

type deferredKind uint8

const (
	deferredAdd deferredKind = iota
	deferredRemove
)

// deferredOp is one queued membership change, recorded while an
// archetype is locked by an active iterator.
type deferredOp struct {
	id   EntityID
	kind deferredKind
}

// archetype owns the live entity-id list for one distinct component
// signature (base spec §4.5). signature is immutable after creation;
// entities reflects live membership exactly unless lockDepth > 0, in
// which case pending changes queue in deferred and replay on unlock.
type archetype struct {
	id        archetypeID
	signature BitSignature
	entities  SparseSet
	lockDepth int
	deferred  []deferredOp
}

func newArchetype(id archetypeID, signature BitSignature) *archetype {
	return &archetype{id: id, signature: signature}
}

// lock marks one more iterator as actively walking this archetype.
func (a *archetype) lock() {
	a.lockDepth++
}

// unlock releases one iterator's hold on this archetype. On the
// transition to lockDepth == 0, every queued op replays in insertion
// order against entities, then deferred is cleared. Replay is not
// re-entrant: it runs with lockDepth already at 0, so a panic aside, it
// cannot itself be deferred.
func (a *archetype) unlock() {
	if a.lockDepth > 0 {
		a.lockDepth--
	}
	if a.lockDepth == 0 && len(a.deferred) > 0 {
		a.replay()
	}
}

// addEntity adds id to this archetype's membership, or queues the add if
// an iterator currently holds this archetype locked.
func (a *archetype) addEntity(id EntityID) {
	if a.lockDepth > 0 {
		a.deferred = append(a.deferred, deferredOp{id: id, kind: deferredAdd})
		return
	}
	a.entities.Set(int(id))
}

// removeEntity removes id from this archetype's membership, or queues
// the removal if an iterator currently holds this archetype locked.
func (a *archetype) removeEntity(id EntityID) {
	if a.lockDepth > 0 {
		a.deferred = append(a.deferred, deferredOp{id: id, kind: deferredRemove})
		return
	}
	a.entities.Remove(int(id))
}

// replay applies every queued op in order. A queued Add followed by a
// Remove for the same id nets to absence, since they replay in the same
// order they were queued.
func (a *archetype) replay() {
	ops := a.deferred
	a.deferred = nil
	for _, op := range ops {
		switch op.kind {
		case deferredAdd:
			a.entities.Set(int(op.id))
		case deferredRemove:
			a.entities.Remove(int(op.id))
		}
	}
}

// count returns the number of live entities currently in this archetype.
func (a *archetype) count() int {
	return a.entities.Count()
}

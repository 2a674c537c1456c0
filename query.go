package ecs

// Query describes a structural filter over a World's archetypes: every
// entity whose signature is a superset of include and shares no bit with
// exclude matches (base spec §4.6). A Query holds no entity list of its
// own; matching archetypes are recomputed each time it is walked, so a
// Query built before new archetypes appear still sees them.
type Query struct {
	world   *World
	include BitSignature
	exclude BitSignature
}

// CreateQuery starts an unfiltered query over w (matches every entity).
func (w *World) CreateQuery() *Query {
	return &Query{world: w}
}

// With narrows q to entities that also carry component type T.
func With[T any](q *Query) (*Query, error) {
	id := ComponentTypeOf[T]()
	if q.exclude.Test(int(id)) {
		return nil, QueryConflictError{TypeID: id}
	}
	next := &Query{world: q.world, include: q.include.Clone(), exclude: q.exclude.Clone()}
	next.include.Set(int(id))
	return next, nil
}

// Without narrows q to entities that do not carry component type T.
func Without[T any](q *Query) (*Query, error) {
	id := ComponentTypeOf[T]()
	if q.include.Test(int(id)) {
		return nil, QueryConflictError{TypeID: id}
	}
	next := &Query{world: q.world, include: q.include.Clone(), exclude: q.exclude.Clone()}
	next.exclude.Set(int(id))
	return next, nil
}

// Matches reports whether sig satisfies q's include/exclude filter,
// without reference to any particular World (SPEC_FULL supplemented
// feature).
func (q *Query) Matches(sig BitSignature) bool {
	return sig.Contains(q.include) && !sig.Intersects(q.exclude)
}

// walk locks every matching archetype for the duration of visit, so
// structural mutations performed inside visit defer until the outermost
// walk on this world unlocks (base spec §5). Archetypes are snapshotted
// before locking so an archetype created by visit itself is simply not
// visited this call, matching the teacher's cursor semantics.
func (q *Query) walk(visit func(id EntityID, rec *entityRecord)) {
	w := q.world
	matching := make([]*archetype, 0, len(w.archetypes))
	for _, a := range w.archetypes {
		if q.Matches(a.signature) {
			matching = append(matching, a)
		}
	}

	w.lockDepth++
	for _, a := range matching {
		a.lock()
	}

	for _, a := range matching {
		ids := a.entities.Keys()
		for _, idInt := range ids {
			id := EntityID(idInt)
			rec := &w.table.records[id]
			visit(id, rec)
		}
	}

	for _, a := range matching {
		a.unlock()
	}
	w.lockDepth--
	if w.lockDepth == 0 {
		w.flushDirty()
	}
}

// ForEach0 visits every matching entity's handle only.
func ForEach0(q *Query, fn func(e Entity)) {
	w := q.world
	q.walk(func(id EntityID, rec *entityRecord) {
		fn(Entity{id: id, generation: rec.generation, world: w})
	})
}

// ForEach1 visits every matching entity along with its component A.
func ForEach1[A any](q *Query, fn func(e Entity, a *A)) {
	w := q.world
	store := getStore[A](w)
	q.walk(func(id EntityID, rec *entityRecord) {
		av, _ := store.Get(id)
		fn(Entity{id: id, generation: rec.generation, world: w}, av)
	})
}

// ForEach2 visits every matching entity along with components A and B.
func ForEach2[A, B any](q *Query, fn func(e Entity, a *A, b *B)) {
	w := q.world
	storeA := getStore[A](w)
	storeB := getStore[B](w)
	q.walk(func(id EntityID, rec *entityRecord) {
		av, _ := storeA.Get(id)
		bv, _ := storeB.Get(id)
		fn(Entity{id: id, generation: rec.generation, world: w}, av, bv)
	})
}

// ForEach3 visits every matching entity along with components A, B, C.
func ForEach3[A, B, C any](q *Query, fn func(e Entity, a *A, b *B, c *C)) {
	w := q.world
	storeA := getStore[A](w)
	storeB := getStore[B](w)
	storeC := getStore[C](w)
	q.walk(func(id EntityID, rec *entityRecord) {
		av, _ := storeA.Get(id)
		bv, _ := storeB.Get(id)
		cv, _ := storeC.Get(id)
		fn(Entity{id: id, generation: rec.generation, world: w}, av, bv, cv)
	})
}

// ForEach4 visits every matching entity along with components A, B, C, D.
func ForEach4[A, B, C, D any](q *Query, fn func(e Entity, a *A, b *B, c *C, d *D)) {
	w := q.world
	storeA := getStore[A](w)
	storeB := getStore[B](w)
	storeC := getStore[C](w)
	storeD := getStore[D](w)
	q.walk(func(id EntityID, rec *entityRecord) {
		av, _ := storeA.Get(id)
		bv, _ := storeB.Get(id)
		cv, _ := storeC.Get(id)
		dv, _ := storeD.Get(id)
		fn(Entity{id: id, generation: rec.generation, world: w}, av, bv, cv, dv)
	})
}

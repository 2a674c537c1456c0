/*
Package ecs is an in-process, archetype-based Entity-Component-System.

It organizes entities by the exact set of component types they carry (an
"archetype") and supports fast bulk iteration over entities matching a
structural query ("with A, B; without C").

Core Concepts:

  - Entity: a generational {id, generation} handle bound to a World.
  - Component: any Go type registered by first use with Set/Get/Has/Remove.
  - Archetype: the set of live entities sharing one component signature.
  - Query: an include/exclude predicate plus a ForEachN iteration driver.

Basic Usage:

	world, _ := ecs.Create("game", ecs.DefaultConfig())
	e, _ := world.CreateEntity()
	ecs.Set(world, e, Position{X: 1, Y: 2})
	ecs.Set(world, e, Velocity{X: 3, Y: 4})

	query, _ := ecs.With[Position](world.CreateQuery())
	query, _ = ecs.With[Velocity](query)
	ecs.ForEach2(query, func(e ecs.Entity, pos *Position, vel *Velocity) {
		pos.X += vel.X
		pos.Y += vel.Y
	})

This package is not thread-safe within a single World; only the World
registry (Create/Get/Destroy) may be called from multiple goroutines.
*/
package ecs

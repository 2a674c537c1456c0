package ecs

// Config holds the capacity hints a World is created with. All fields are
// optional; zero values are replaced with the package defaults by
// DefaultConfig/withDefaults.
type Config struct {
	// InitialEntities sizes the entity table's backing slice up front.
	InitialEntities int
	// InitialArchetypes sizes the archetype list and signature index.
	InitialArchetypes int
	// InitialComponentTypes sizes the per-world component store map.
	InitialComponentTypes int
	// InitialQueries is a hint for hosts that pool Query objects; the
	// kernel itself does not preallocate on this value.
	InitialQueries int
}

const (
	defaultInitialEntities       = 1024
	defaultInitialArchetypes     = 512
	defaultInitialComponentTypes = 512
	defaultInitialQueries        = 32
)

// DefaultConfig returns the package defaults named in the public API
// surface: 1024 entities, 512 archetypes, 512 component types, 32 queries.
func DefaultConfig() Config {
	return Config{
		InitialEntities:       defaultInitialEntities,
		InitialArchetypes:     defaultInitialArchetypes,
		InitialComponentTypes: defaultInitialComponentTypes,
		InitialQueries:        defaultInitialQueries,
	}
}

// withDefaults fills any zero field with its package default.
func (c Config) withDefaults() Config {
	if c.InitialEntities <= 0 {
		c.InitialEntities = defaultInitialEntities
	}
	if c.InitialArchetypes <= 0 {
		c.InitialArchetypes = defaultInitialArchetypes
	}
	if c.InitialComponentTypes <= 0 {
		c.InitialComponentTypes = defaultInitialComponentTypes
	}
	if c.InitialQueries <= 0 {
		c.InitialQueries = defaultInitialQueries
	}
	return c
}

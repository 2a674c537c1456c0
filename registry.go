package ecs

import "sync"

// registry is the process-wide name -> World table (base spec §3). Only
// the registry itself is safe for concurrent use; a given World is not.
var registry = struct {
	mu     sync.Mutex
	worlds map[string]*World
}{
	worlds: make(map[string]*World),
}

// Create registers and returns a new named World. Name must not already
// be in use.
func Create(name string, cfg Config) (*World, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.worlds[name]; exists {
		return nil, NameInUseError{Name: name}
	}
	w := newWorld(name, cfg.withDefaults())
	registry.worlds[name] = w
	return w, nil
}

// Get looks up a previously created World by name.
func Get(name string) (*World, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	w, exists := registry.worlds[name]
	if !exists {
		return nil, NoSuchWorldError{Name: name}
	}
	return w, nil
}

// Destroy tears down w and frees its name for reuse.
func Destroy(w *World) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if !w.alive {
		return WorldDestroyedError{Name: w.name}
	}
	w.alive = false
	delete(registry.worlds, w.name)
	w.teardown()
	return nil
}

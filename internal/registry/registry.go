// Package registry maps screen kinds to the factories that build them.
// Screens register themselves in init() functions, so the Master can build
// any screen without importing the screen packages.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/scene"
)

// ErrUnknownKind is returned by Create for a kind with no factory.
var ErrUnknownKind = errors.New("registry: no screen registered")

// Factory builds the screen for a transition. It may mutate the shared
// state (camera, cursor, music) and may fail, for example when a required
// sprite is missing.
type Factory func(p core.Platform, s *scene.State, t scene.Transition) (scene.Screen, error)

// Registry is a dispatch table from kind to factory.
type Registry struct {
	mu        sync.RWMutex
	factories map[scene.Kind]Factory
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{factories: make(map[scene.Kind]Factory)}
}

// Register adds the factory for a kind.
// Panics if the kind already has one.
func (r *Registry) Register(k scene.Kind, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[k]; exists {
		panic(fmt.Sprintf("registry: screen %q already registered", k))
	}
	r.factories[k] = f
}

// Create builds the screen named by t.
func (r *Registry) Create(p core.Platform, s *scene.State, t scene.Transition) (scene.Screen, error) {
	r.mu.RLock()
	f, ok := r.factories[t.Kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, t.Kind)
	}
	return f(p, s, t)
}

// Missing lists the kinds without a factory. The Master refuses to start
// while any are missing.
func (r *Registry) Missing() []scene.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []scene.Kind
	for _, k := range scene.Kinds() {
		if _, ok := r.factories[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// Exists checks if a kind has a factory.
func (r *Registry) Exists(k scene.Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[k]
	return ok
}

// Default is the registry screens add themselves to from init().
var Default = New()

// Register adds a factory to the Default registry.
func Register(k scene.Kind, f Factory) {
	Default.Register(k, f)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// RenderPass is the part of a pass the graph needs at compile time.
// Per-frame execution is pass specific and reached by type assertion.
type RenderPass interface {
	// Name returns the registered class name.
	Name() string

	// Reflect declares the pass channels.
	Reflect() *Reflection

	// ScriptingDictionary serializes the pass options.
	ScriptingDictionary() Dictionary
}

// PassFactory creates a pass from its construction dictionary.
type PassFactory func(dict Dictionary) (RenderPass, error)

// RegistryEntry is a registered pass class.
type RegistryEntry struct {
	// Name is the class name scripts use to create the pass.
	Name string

	// Desc is a one-line description shown in editors.
	Desc string

	// Factory creates pass instances.
	Factory PassFactory
}

// Registry errors.
var (
	// ErrNilFactory is returned when registering a class without factory.
	ErrNilFactory = errors.New("graph: pass factory is nil")
)

// PassNotFoundError is returned when creating an unregistered class.
type PassNotFoundError struct {
	Name string
}

func (e *PassNotFoundError) Error() string {
	return fmt.Sprintf("graph: render pass %q is not registered", e.Name)
}

var globalRegistry = NewRegistry()

// Registry maps pass class names to factories.
//
// Pass packages register themselves from init:
//
//	func init() {
//	    graph.Register("BillboardRayTracer", "Ray Tracer for Billboard Rendering", factory)
//	}
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Register adds a class to the global registry.
func Register(name, desc string, factory PassFactory) error {
	return globalRegistry.Register(name, desc, factory)
}

// NewPass creates a pass of the named class from the global registry.
func NewPass(name string, dict Dictionary) (RenderPass, error) {
	return globalRegistry.NewPass(name, dict)
}

// Classes lists the classes in the global registry.
func Classes() []string {
	return globalRegistry.Classes()
}

// Lookup returns a registered class from the global registry.
func Lookup(name string) (*RegistryEntry, bool) {
	return globalRegistry.Lookup(name)
}

// Register adds a class. Registering an existing name replaces it.
func (r *Registry) Register(name, desc string, factory PassFactory) error {
	if factory == nil {
		return ErrNilFactory
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &RegistryEntry{Name: name, Desc: desc, Factory: factory}
	return nil
}

// Unregister removes a class.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Lookup returns a copy of the entry for name.
func (r *Registry) Lookup(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// Classes returns the registered class names in lexical order.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPass creates a pass of the named class.
func (r *Registry) NewPass(name string, dict Dictionary) (RenderPass, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &PassNotFoundError{Name: name}
	}
	if dict == nil {
		dict = Dictionary{}
	}
	return entry.Factory(dict)
}

// ABOUTME: Module contract and the token-keyed module registry.
// ABOUTME: Modules are registered once at startup and read-only afterwards.

package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/needledrop/emcee/internal/events"
	"github.com/needledrop/emcee/internal/store"
)

// ErrModuleNotFound indicates a module was requested before being registered.
var ErrModuleNotFound = errors.New("module not found")

// ErrModuleType indicates a registered module does not have the type the
// caller asked for.
var ErrModuleType = errors.New("module has unexpected type")

// ErrDependencyCycle indicates two or more modules depend on each other.
// Fatal at startup.
var ErrDependencyCycle = errors.New("module dependency cycle")

// ModuleID is the stable token identifying a module kind. At most one
// instance per token exists in a registry.
type ModuleID string

// Module is a self-contained feature unit. Beyond its identity, a module
// participates in startup through the optional interfaces below.
type Module interface {
	ModuleID() ModuleID
}

// StoreSetup is implemented by modules that need one-time setup against the
// persistent store (e.g. adding guild fields).
type StoreSetup interface {
	Setup(ctx context.Context, st store.Store) error
}

// CommandProvider is implemented by modules that register commands and
// autocomplete handlers. Completion handlers are appended, so registration
// order (which is dependency order) becomes chain priority.
type CommandProvider interface {
	RegisterCommands(cs *CommandSet, chain *CompletionChain) error
}

// EventSubscriber is implemented by modules that subscribe to bus events.
type EventSubscriber interface {
	RegisterEventHandlers(bus *events.Bus)
}

// Registration describes how to bring up one module. Deps are lazy so that a
// cycle is expressible (and then detected) rather than an infinite value.
type Registration struct {
	ID   ModuleID
	Deps []func() Registration
	New  func(ctx context.Context, r *Registry) (Module, error)
}

// Registry holds at most one module instance per token. It is populated by
// the Builder during startup and is effectively read-only afterwards, so the
// lookup path takes no lock.
type Registry struct {
	modules map[ModuleID]Module
	order   []ModuleID // insertion order = initialization order
}

func newRegistry() *Registry {
	return &Registry{modules: make(map[ModuleID]Module)}
}

func (r *Registry) add(m Module) {
	r.modules[m.ModuleID()] = m
	r.order = append(r.order, m.ModuleID())
}

func (r *Registry) contains(id ModuleID) bool {
	_, ok := r.modules[id]
	return ok
}

// Module returns the registered module for a token. Asking for a module that
// was never registered is an error, not a panic.
func (r *Registry) Module(id ModuleID) (Module, error) {
	m, ok := r.modules[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, id)
	}
	return m, nil
}

// Order returns module tokens in initialization order.
func (r *Registry) Order() []ModuleID {
	out := make([]ModuleID, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup retrieves a module by token and downcasts it to M, returning an
// explicit error on a type mismatch.
func Lookup[M Module](r *Registry, id ModuleID) (M, error) {
	var zero M
	m, err := r.Module(id)
	if err != nil {
		return zero, err
	}
	typed, ok := m.(M)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrModuleType, id, m)
	}
	return typed, nil
}

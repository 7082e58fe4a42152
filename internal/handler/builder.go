// ABOUTME: Builder assembles the runtime: dependency-ordered module init.
// ABOUTME: Modules self-register commands, completions, and event handlers.

package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/needledrop/emcee/internal/events"
	"github.com/needledrop/emcee/internal/platform"
	"github.com/needledrop/emcee/internal/store"
)

// Builder accumulates modules and their registrations, then freezes them into
// a Handler. It is not safe for concurrent use; startup is single-threaded.
type Builder struct {
	store       store.Store
	platform    platform.Gateway
	registry    *Registry
	commands    *CommandSet
	completions *CompletionChain
	bus         *events.Bus
	special     map[string]SpecialFunc
	defaultFn   SpecialFunc
	inProgress  map[ModuleID]bool
	logger      *slog.Logger
	baseLogger  *slog.Logger
}

// NewBuilder creates a Builder over the given collaborators. Pass nil logger
// for default.
func NewBuilder(st store.Store, pf platform.Gateway, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		store:       st,
		platform:    pf,
		registry:    newRegistry(),
		commands:    NewCommandSet(),
		completions: NewCompletionChain(),
		bus:         events.New(logger),
		special:     make(map[string]SpecialFunc),
		inProgress:  make(map[ModuleID]bool),
		logger:      logger.With("component", "builder"),
		baseLogger:  logger,
	}
}

// Register brings up a module and everything it depends on, depth-first.
// Idempotent: a module that is already present is not re-initialized and its
// commands and event handlers are not registered a second time.
func (b *Builder) Register(ctx context.Context, reg Registration) error {
	if b.registry.contains(reg.ID) {
		return nil
	}
	if b.inProgress[reg.ID] {
		return fmt.Errorf("%w: %s", ErrDependencyCycle, reg.ID)
	}
	b.inProgress[reg.ID] = true
	defer delete(b.inProgress, reg.ID)

	for _, dep := range reg.Deps {
		if err := b.Register(ctx, dep()); err != nil {
			return fmt.Errorf("registering dependency of %s: %w", reg.ID, err)
		}
	}

	m, err := reg.New(ctx, b.registry)
	if err != nil {
		return fmt.Errorf("initializing module %s: %w", reg.ID, err)
	}
	if m.ModuleID() != reg.ID {
		return fmt.Errorf("module %s reports id %s", reg.ID, m.ModuleID())
	}

	if s, ok := m.(StoreSetup); ok {
		if err := s.Setup(ctx, b.store); err != nil {
			return fmt.Errorf("setting up module %s: %w", reg.ID, err)
		}
	}
	if c, ok := m.(CommandProvider); ok {
		if err := c.RegisterCommands(b.commands, b.completions); err != nil {
			return fmt.Errorf("registering commands of %s: %w", reg.ID, err)
		}
	}
	if e, ok := m.(EventSubscriber); ok {
		e.RegisterEventHandlers(b.bus)
	}

	b.registry.add(m)

	b.logger.Info("module registered",
		"module_id", reg.ID,
		"total_modules", len(b.registry.order),
		"total_commands", b.commands.Len(),
	)
	return nil
}

// Special registers a meta-command that bypasses the command set entirely.
// Special commands exist even if the generic registry is empty.
func (b *Builder) Special(name string, fn SpecialFunc) {
	b.special[name] = fn
}

// DefaultHandler sets the handler consulted when no command entry matches.
func (b *Builder) DefaultHandler(fn SpecialFunc) {
	b.defaultFn = fn
}

// Bus returns the event bus being assembled, for callers that publish
// platform events into the runtime.
func (b *Builder) Bus() *events.Bus {
	return b.bus
}

// Build freezes the assembled registry, command set, completion chain, and
// event bus into a running Handler. No structural mutation happens after
// this; the only runtime-mutable routing state is the override table in the
// persistent store.
func (b *Builder) Build() *Handler {
	return &Handler{
		store:       b.store,
		platform:    b.platform,
		modules:     b.registry,
		commands:    b.commands,
		completions: b.completions,
		bus:         b.bus,
		special:     b.special,
		defaultFn:   b.defaultFn,
		logger:      b.baseLogger.With("component", "handler"),
	}
}

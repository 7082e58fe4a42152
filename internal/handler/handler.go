// ABOUTME: The frozen runtime: command dispatch with guild override semantics.
// ABOUTME: Single entry point for inbound interactions; one response each, at most.

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/needledrop/emcee/internal/command"
	"github.com/needledrop/emcee/internal/events"
	"github.com/needledrop/emcee/internal/platform"
	"github.com/needledrop/emcee/internal/store"
)

// ErrUnknownCommand indicates no handler could be resolved for a dispatch.
// Recovered per-dispatch and surfaced as an audience-visible message.
var ErrUnknownCommand = errors.New("unknown command")

// SpecialFunc is a command handler outside the generic registry: either one
// of the fixed special commands or the configured default handler.
type SpecialFunc func(ctx context.Context, cc *Context) (command.Response, error)

// Handler is the assembled runtime. All routing structures are frozen at
// build time; the guild override table lives in the persistent store and is
// the only routing state that changes while running.
type Handler struct {
	store       store.Store
	platform    platform.Gateway
	modules     *Registry
	commands    *CommandSet
	completions *CompletionChain
	bus         *events.Bus
	special     map[string]SpecialFunc
	defaultFn   SpecialFunc
	logger      *slog.Logger
}

// Modules returns the frozen module registry.
func (h *Handler) Modules() *Registry { return h.modules }

// Commands returns the frozen command set.
func (h *Handler) Commands() *CommandSet { return h.commands }

// Bus returns the event bus.
func (h *Handler) Bus() *events.Bus { return h.bus }

func (h *Handler) newContext(in *command.Interaction) *Context {
	return &Context{
		Handler:     h,
		Platform:    h.platform,
		Store:       h.store,
		Interaction: in,
		Logger:      h.logger,
	}
}

// Dispatch resolves a command interaction to exactly one handler and runs it.
//
// Resolution order: the special map, then the per-guild override (a recorded
// enabled=false hides an existing command from that guild), then the command
// set, then the default handler. A guild-restricted command with no recorded
// override is treated as disabled.
func (h *Handler) Dispatch(ctx context.Context, cc *Context) (command.Response, error) {
	in := cc.Interaction
	name := in.Key.Name

	if special, ok := h.special[name]; ok {
		return special(ctx, cc)
	}

	entry, registered := h.commands.Get(in.Key)

	var override *bool
	if in.GuildID != "" {
		var err error
		override, err = h.store.CommandOverride(ctx, name, in.GuildID)
		if err != nil {
			return command.None(), fmt.Errorf("reading command override: %w", err)
		}
	}
	if override != nil && !*override {
		return command.None(), fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	if registered {
		if entry.GuildRestricted && override == nil {
			return command.None(), fmt.Errorf("%w: %s", ErrUnknownCommand, name)
		}
		return entry.Runner.Run(ctx, cc)
	}

	if h.defaultFn != nil {
		return h.defaultFn(ctx, cc)
	}
	return command.None(), fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

// HandleInteraction classifies an inbound interaction and delegates it.
// Exactly one response (or no response) is sent per interaction.
func (h *Handler) HandleInteraction(ctx context.Context, in *command.Interaction) {
	switch in.Type {
	case command.InteractionAutocomplete:
		h.handleAutocomplete(ctx, in)
	case command.InteractionCommand:
		h.handleCommand(ctx, in)
	default:
		h.logger.Warn("unclassifiable interaction", "interaction_id", in.ID)
	}
}

func (h *Handler) handleCommand(ctx context.Context, in *command.Interaction) {
	cc := h.newContext(in)

	h.logger.Info("command invoked",
		"guild_id", in.GuildID,
		"user", in.User.Name,
		"command", in.Key.Name,
		"kind", in.Key.Kind.String(),
		"options", formatOptions(in.Options),
	)

	start := time.Now()
	resp, err := h.Dispatch(ctx, cc)
	elapsed := time.Since(start)

	if err != nil {
		// Failures inside one command never propagate further: they become a
		// private textual response to the invoking user.
		h.logger.Warn("command failed",
			"command", in.Key.Name,
			"elapsed", elapsed,
			"error", err,
		)
		resp = command.Private(err.Error())
	} else {
		h.logger.Info("command completed",
			"command", in.Key.Name,
			"elapsed", elapsed,
		)
	}

	if resp.Kind == command.ResponseNone {
		return
	}
	if _, err := h.platform.SendResponse(ctx, in.ID, resp); err != nil {
		h.logger.Error("cannot respond to command",
			"command", in.Key.Name,
			"interaction_id", in.ID,
			"error", err,
		)
	}
}

func (h *Handler) handleAutocomplete(ctx context.Context, in *command.Interaction) {
	cc := h.newContext(in)

	choices, claimed, err := h.completions.Dispatch(ctx, cc)
	if err != nil {
		// Logged and left unanswered; the platform shows an empty list.
		h.logger.Warn("autocomplete failed",
			"command", in.Key.Name,
			"error", err,
		)
		return
	}
	if !claimed {
		return
	}
	if err := h.platform.SendChoices(ctx, in.ID, choices); err != nil {
		h.logger.Error("cannot send autocomplete choices",
			"command", in.Key.Name,
			"interaction_id", in.ID,
			"error", err,
		)
	}
}

// formatOptions renders interaction options for the invocation log line.
func formatOptions(opts []command.OptionValue) string {
	var sb strings.Builder
	for i, o := range opts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(o.Name)
		sb.WriteString(": ")
		fmt.Fprintf(&sb, "%q", o.Value)
	}
	return sb.String()
}

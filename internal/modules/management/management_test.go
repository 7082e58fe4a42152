// ABOUTME: Tests for the per-guild enable/disable commands and their autocomplete.

package management

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/needledrop/emcee/internal/command"
	"github.com/needledrop/emcee/internal/handler"
	"github.com/needledrop/emcee/internal/platform"
	"github.com/needledrop/emcee/internal/store"
)

// targetModule registers a guild-restricted command for the admin pair to act on.
type targetModule struct{}

func (targetModule) ModuleID() handler.ModuleID { return "target" }

func (targetModule) RegisterCommands(cs *handler.CommandSet, _ *handler.CompletionChain) error {
	return cs.Register(&handler.Entry{
		Key:             command.Key{Name: "quote", Kind: command.ChatInput},
		GuildRestricted: true,
		Runner:          targetRunner{},
	})
}

type targetRunner struct{}

func (targetRunner) Run(_ context.Context, _ *handler.Context) (command.Response, error) {
	return command.Public("quoted"), nil
}

func (targetRunner) Describe() command.Schema {
	return command.Schema{Key: command.Key{Name: "quote", Kind: command.ChatInput}}
}

type fixture struct {
	store *store.MemStore
	gw    *platform.Fake
	h     *handler.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemStore()
	gw := platform.NewFake("bot")
	b := handler.NewBuilder(st, gw, slog.Default())

	require.NoError(t, b.Register(context.Background(), Registration()))
	require.NoError(t, b.Register(context.Background(), handler.Registration{
		ID: "target",
		New: func(_ context.Context, _ *handler.Registry) (handler.Module, error) {
			return targetModule{}, nil
		},
	}))

	return &fixture{store: st, gw: gw, h: b.Build()}
}

func adminInteraction(name, cmd, guild string) *command.Interaction {
	return &command.Interaction{
		ID:      "int-1",
		Type:    command.InteractionCommand,
		Key:     command.Key{Name: name, Kind: command.ChatInput},
		GuildID: "admin-guild",
		User:    command.User{ID: "admin", Name: "admin"},
		Options: []command.OptionValue{
			{Name: "command", Value: cmd},
			{Name: "guild", Value: guild},
		},
	}
}

func TestEnableCommandForGuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.h.HandleInteraction(ctx, adminInteraction(enableName, "quote", "g9"))

	ov, err := f.store.CommandOverride(ctx, "quote", "g9")
	require.NoError(t, err)
	require.NotNil(t, ov)
	assert.True(t, *ov)

	regs := f.gw.CallsTo("RegisterGuildCommand")
	require.Len(t, regs, 1)
	assert.Equal(t, "g9", regs[0].GuildID)
	assert.Equal(t, "quote", regs[0].CommandName)

	// The restricted command now dispatches in g9.
	in := &command.Interaction{
		Type:    command.InteractionCommand,
		Key:     command.Key{Name: "quote", Kind: command.ChatInput},
		GuildID: "g9",
	}
	f.h.HandleInteraction(ctx, in)
	sends := f.gw.CallsTo("SendResponse")
	require.NotEmpty(t, sends)
	assert.Equal(t, "quoted", sends[len(sends)-1].Response.Content)
}

func TestDisableCommandForGuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.SetCommandOverride(ctx, "quote", "g9", true))

	f.h.HandleInteraction(ctx, adminInteraction(disableName, "quote", "g9"))

	ov, err := f.store.CommandOverride(ctx, "quote", "g9")
	require.NoError(t, err)
	require.NotNil(t, ov)
	assert.False(t, *ov)

	unregs := f.gw.CallsTo("UnregisterGuildCommand")
	require.Len(t, unregs, 1)
	assert.Equal(t, "g9", unregs[0].GuildID)
	assert.Equal(t, "quote", unregs[0].CommandName)
}

func TestEnableUnknownCommand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.h.HandleInteraction(ctx, adminInteraction(enableName, "no_such", "g9"))

	ov, err := f.store.CommandOverride(ctx, "no_such", "g9")
	require.NoError(t, err)
	assert.Nil(t, ov, "no override may be written for an unregistered command")

	sends := f.gw.CallsTo("SendResponse")
	require.Len(t, sends, 1)
	assert.Equal(t, command.ResponsePrivate, sends[0].Response.Kind)
	assert.Contains(t, sends[0].Response.Content, "not found")
}

func autocompleteFor(name, focused, partial string) *command.Interaction {
	return &command.Interaction{
		ID:   "int-ac",
		Type: command.InteractionAutocomplete,
		Key:  command.Key{Name: name, Kind: command.ChatInput},
		Options: []command.OptionValue{
			{Name: focused, Value: partial, Focused: true},
		},
	}
}

func TestGuildAutocomplete(t *testing.T) {
	f := newFixture(t)
	f.gw.SetGuilds([]platform.Guild{
		{ID: "g1", Name: "needle drop"},
		{ID: "g2", Name: "record club"},
		{ID: "g3", Name: "needle exchange"},
	})

	f.h.HandleInteraction(context.Background(), autocompleteFor(enableName, "guild", "needle"))

	sends := f.gw.CallsTo("SendChoices")
	require.Len(t, sends, 1)
	require.Len(t, sends[0].Choices, 2)
	assert.Equal(t, "g1", sends[0].Choices[0].Value)
	assert.Equal(t, "g3", sends[0].Choices[1].Value)
}

func TestCommandAutocomplete(t *testing.T) {
	f := newFixture(t)

	f.h.HandleInteraction(context.Background(), autocompleteFor(disableName, "command", "quo"))

	sends := f.gw.CallsTo("SendChoices")
	require.Len(t, sends, 1)
	require.Len(t, sends[0].Choices, 1)
	assert.Equal(t, "quote", sends[0].Choices[0].Value)
}

func TestAutocompleteDeclinesOtherCommands(t *testing.T) {
	f := newFixture(t)

	f.h.HandleInteraction(context.Background(), autocompleteFor("quote", "command", "x"))
	assert.Empty(t, f.gw.CallsTo("SendChoices"), "requests for other commands pass through unclaimed")
}

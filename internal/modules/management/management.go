// ABOUTME: Admin commands that enable or disable a command for one guild.
// ABOUTME: Overrides live in the store; the platform registration is kept in sync.

package management

import (
	"context"
	"fmt"
	"strings"

	"github.com/needledrop/emcee/internal/command"
	"github.com/needledrop/emcee/internal/handler"
)

// ModuleID is the management module's registry token.
const ModuleID handler.ModuleID = "management"

const (
	enableName  = "enable_command_for_guild"
	disableName = "disable_command_for_guild"
)

// Management registers the per-guild command override admin pair.
type Management struct{}

// Registration returns the module's builder registration.
func Registration() handler.Registration {
	return handler.Registration{
		ID: ModuleID,
		New: func(_ context.Context, _ *handler.Registry) (handler.Module, error) {
			return &Management{}, nil
		},
	}
}

func (m *Management) ModuleID() handler.ModuleID { return ModuleID }

// RegisterCommands registers both admin commands and the shared completion
// handler for their command/guild options.
func (m *Management) RegisterCommands(cs *handler.CommandSet, chain *handler.CompletionChain) error {
	if err := cs.Register(&handler.Entry{
		Key:         command.Key{Name: enableName, Kind: command.ChatInput},
		Permissions: command.PermAdministrator,
		Runner:      &overrideCommand{enable: true},
	}); err != nil {
		return err
	}
	if err := cs.Register(&handler.Entry{
		Key:         command.Key{Name: disableName, Kind: command.ChatInput},
		Permissions: command.PermAdministrator,
		Runner:      &overrideCommand{enable: false},
	}); err != nil {
		return err
	}

	chain.Append(completeOverrideOptions)
	return nil
}

// overrideCommand implements both admin commands; only the direction differs.
type overrideCommand struct {
	enable bool
}

func (c *overrideCommand) Describe() command.Schema {
	name, verb := disableName, "Disables"
	if c.enable {
		name, verb = enableName, "Enables"
	}
	return command.Schema{
		Key:         command.Key{Name: name, Kind: command.ChatInput},
		Description: fmt.Sprintf("%s a command for a specific Guild (server)", verb),
		Options: []command.Option{
			{Name: "command", Type: command.OptionString, Required: true, Autocomplete: true, Description: "Command to toggle"},
			{Name: "guild", Type: command.OptionString, Required: true, Autocomplete: true, Description: "Target guild"},
		},
	}
}

func (c *overrideCommand) Run(ctx context.Context, cc *handler.Context) (command.Response, error) {
	name, ok := command.StringOption(cc.Interaction.Options, "command")
	if !ok {
		return command.None(), fmt.Errorf("missing command option")
	}
	guildID, ok := command.StringOption(cc.Interaction.Options, "guild")
	if !ok {
		return command.None(), fmt.Errorf("missing guild option")
	}

	// The override only makes sense for a command the registry knows about.
	entry, found := findByName(cc.Handler.Commands(), name)
	if !found {
		return command.Private(fmt.Sprintf("command %s not found", name)), nil
	}

	// The store is the single source of truth; write it first, then keep the
	// platform's per-guild registration in sync.
	if err := cc.Store.SetCommandOverride(ctx, name, guildID, c.enable); err != nil {
		return command.None(), err
	}

	if c.enable {
		if err := cc.Platform.RegisterGuildCommand(ctx, guildID, entry.Runner.Describe()); err != nil {
			return command.None(), fmt.Errorf("registering command with platform: %w", err)
		}
		return command.Public(fmt.Sprintf("Enabled command '%s' for guild with id `%s`", name, guildID)), nil
	}

	if err := cc.Platform.UnregisterGuildCommand(ctx, guildID, name); err != nil {
		return command.None(), fmt.Errorf("unregistering command with platform: %w", err)
	}
	return command.Public(fmt.Sprintf("Disabled command '%s' for guild with id `%s`", name, guildID)), nil
}

// findByName returns any entry registered under the given name, regardless
// of kind.
func findByName(cs *handler.CommandSet, name string) (*handler.Entry, bool) {
	for _, e := range cs.Entries() {
		if e.Key.Name == name {
			return e, true
		}
	}
	return nil, false
}

// completeOverrideOptions claims autocomplete requests for the two admin
// commands and answers with matching guilds or registered command names.
func completeOverrideOptions(ctx context.Context, cc *handler.Context) ([]command.Choice, bool, error) {
	name := cc.Interaction.Key.Name
	if name != enableName && name != disableName {
		return nil, false, nil
	}

	focused, ok := command.FocusedOption(cc.Interaction.Options)
	if !ok {
		return nil, true, nil
	}
	partial, _ := command.StringOption(cc.Interaction.Options, focused)

	switch focused {
	case "guild":
		guilds, err := cc.Platform.Guilds(ctx)
		if err != nil {
			return nil, true, err
		}
		var choices []command.Choice
		for _, g := range guilds {
			if len(choices) >= command.MaxChoices {
				break
			}
			if partial == "" || strings.Contains(g.Name, partial) {
				choices = append(choices, command.Choice{Name: g.Name, Value: g.ID})
			}
		}
		return choices, true, nil

	case "command":
		var choices []command.Choice
		for _, e := range cc.Handler.Commands().Entries() {
			if len(choices) >= command.MaxChoices {
				break
			}
			if partial == "" || strings.Contains(e.Key.Name, partial) {
				choices = append(choices, command.Choice{Name: e.Key.Name, Value: e.Key.Name})
			}
		}
		return choices, true, nil
	}

	return nil, true, nil
}

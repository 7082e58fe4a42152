// ABOUTME: Quote board: a message command saves a quote into the guild's quote
// ABOUTME: channel, a chat command of the same name configures and reports it.

package quotes

import (
	"context"
	"fmt"

	"github.com/needledrop/emcee/internal/command"
	"github.com/needledrop/emcee/internal/handler"
	"github.com/needledrop/emcee/internal/store"
)

// ModuleID is the quotes module's registry token.
const ModuleID handler.ModuleID = "quotes"

const (
	commandName     = "quote"
	channelField    = "quote_channel"
	countField      = "quote_count"
	channelFieldDef = "quote_channel TEXT NOT NULL DEFAULT ''"
	countFieldDef   = "quote_count INTEGER NOT NULL DEFAULT 0"
)

// Quotes maintains a per-guild quote channel and count.
type Quotes struct{}

// Registration returns the module's builder registration.
func Registration() handler.Registration {
	return handler.Registration{
		ID: ModuleID,
		New: func(_ context.Context, _ *handler.Registry) (handler.Module, error) {
			return &Quotes{}, nil
		},
	}
}

func (q *Quotes) ModuleID() handler.ModuleID { return ModuleID }

// Setup adds the module's guild fields to the store.
func (q *Quotes) Setup(ctx context.Context, st store.Store) error {
	if err := st.AddGuildField(ctx, channelField, channelFieldDef); err != nil {
		return err
	}
	return st.AddGuildField(ctx, countField, countFieldDef)
}

// RegisterCommands registers both quote commands. They share a name but not
// a kind, so both resolve independently.
func (q *Quotes) RegisterCommands(cs *handler.CommandSet, _ *handler.CompletionChain) error {
	if err := cs.Register(&handler.Entry{
		Key:             command.Key{Name: commandName, Kind: command.ChatInput},
		GuildRestricted: true,
		Runner:          &configCommand{},
	}); err != nil {
		return err
	}
	return cs.Register(&handler.Entry{
		Key:             command.Key{Name: commandName, Kind: command.Message},
		GuildRestricted: true,
		Runner:          &saveCommand{},
	})
}

// configCommand sets the guild's quote channel or reports the current state.
type configCommand struct{}

func (c *configCommand) Describe() command.Schema {
	return command.Schema{
		Key:         command.Key{Name: commandName, Kind: command.ChatInput},
		Description: "Show quote stats or set the quote channel",
		Options: []command.Option{
			{Name: "channel", Type: command.OptionString, Description: "Channel to post saved quotes into"},
		},
	}
}

func (c *configCommand) Run(ctx context.Context, cc *handler.Context) (command.Response, error) {
	guildID := cc.Interaction.GuildID
	if guildID == "" {
		return command.Private("This command only works in a guild."), nil
	}

	if channel, ok := command.StringOption(cc.Interaction.Options, "channel"); ok {
		if err := cc.Store.SetGuildField(ctx, guildID, channelField, channel); err != nil {
			return command.None(), err
		}
		return command.Private(fmt.Sprintf("Quotes will be posted to <#%s>", channel)), nil
	}

	count, err := store.IntField(ctx, cc.Store, guildID, countField)
	if err != nil {
		return command.None(), err
	}
	return command.Private(fmt.Sprintf("%d quotes saved so far", count)), nil
}

// saveCommand is the message command: it posts the target message's content
// to the quote channel and bumps the guild's counter.
type saveCommand struct{}

func (c *saveCommand) Describe() command.Schema {
	return command.Schema{
		Key: command.Key{Name: commandName, Kind: command.Message},
	}
}

func (c *saveCommand) Run(ctx context.Context, cc *handler.Context) (command.Response, error) {
	in := cc.Interaction
	if in.GuildID == "" {
		return command.Private("This command only works in a guild."), nil
	}
	if in.TargetContent == "" {
		return command.Private("That message has nothing to quote."), nil
	}

	channel, err := cc.Store.GuildField(ctx, in.GuildID, channelField)
	if err != nil {
		return command.None(), err
	}
	if channel == "" {
		return command.Private("No quote channel configured. Use /quote channel:<id> first."), nil
	}

	quote := fmt.Sprintf("%q - <@%s>", in.TargetContent, in.TargetUserID)
	if _, err := cc.Platform.Say(ctx, channel, quote); err != nil {
		return command.None(), fmt.Errorf("posting quote: %w", err)
	}

	count, err := store.IntField(ctx, cc.Store, in.GuildID, countField)
	if err != nil {
		return command.None(), err
	}
	if err := store.SetIntField(ctx, cc.Store, in.GuildID, countField, count+1); err != nil {
		return command.None(), err
	}

	return command.Private("Quote saved."), nil
}

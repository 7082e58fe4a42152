// ABOUTME: Collaborator interfaces for the messaging platform transport.
// ABOUTME: The runtime consumes these; the wire protocol lives elsewhere.

package platform

import (
	"context"

	"github.com/needledrop/emcee/internal/command"
)

// MessageRef identifies a message the bot has sent, for later edits/reacts.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// Guild is a server the bot is a member of.
type Guild struct {
	ID   string
	Name string
}

// Gateway is the platform transport as seen from the runtime. Implementations
// own the wire protocol; the runtime only ever awaits these calls.
type Gateway interface {
	// SendResponse answers an interaction. At most one response may be sent
	// per interaction.
	SendResponse(ctx context.Context, interactionID string, resp command.Response) (MessageRef, error)

	// SendChoices answers an autocomplete interaction with suggestions.
	SendChoices(ctx context.Context, interactionID string, choices []command.Choice) error

	// EditMessage replaces the content of a previously sent message.
	EditMessage(ctx context.Context, ref MessageRef, content string) error

	// React adds a reaction to a message.
	React(ctx context.Context, ref MessageRef, emoji string) error

	// Say posts a standalone message to a channel.
	Say(ctx context.Context, channelID, content string) (MessageRef, error)

	// RegisterGuildCommand makes a command invocable in one guild.
	RegisterGuildCommand(ctx context.Context, guildID string, schema command.Schema) error

	// UnregisterGuildCommand removes a command from one guild.
	UnregisterGuildCommand(ctx context.Context, guildID, name string) error

	// Guilds lists the guilds the bot is a member of.
	Guilds(ctx context.Context) ([]Guild, error)

	// SelfID returns the bot's own user id.
	SelfID() string
}

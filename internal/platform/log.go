// ABOUTME: Gateway that logs outbound calls instead of talking to a chat
// ABOUTME: service. Used by local serve runs that have no transport attached.

package platform

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/needledrop/emcee/internal/command"
)

// Log is a Gateway that records outbound traffic to the logger and fabricates
// message refs so session code can run end to end.
type Log struct {
	selfID string
	logger *slog.Logger
}

// NewLog creates a logging gateway with the given bot user id.
func NewLog(selfID string, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{selfID: selfID, logger: logger.With("component", "log-gateway")}
}

func (l *Log) SelfID() string { return l.selfID }

func (l *Log) nextRef(channelID string) MessageRef {
	return MessageRef{ChannelID: channelID, MessageID: uuid.NewString()}
}

func (l *Log) SendResponse(_ context.Context, interactionID string, resp command.Response) (MessageRef, error) {
	ref := l.nextRef("interaction:" + interactionID)
	l.logger.Info("send response", "interaction_id", interactionID, "kind", int(resp.Kind), "content", resp.Content)
	return ref, nil
}

func (l *Log) SendChoices(_ context.Context, interactionID string, choices []command.Choice) error {
	l.logger.Info("send choices", "interaction_id", interactionID, "count", len(choices))
	return nil
}

func (l *Log) EditMessage(_ context.Context, ref MessageRef, content string) error {
	l.logger.Info("edit message", "message_id", ref.MessageID, "content", content)
	return nil
}

func (l *Log) React(_ context.Context, ref MessageRef, emoji string) error {
	l.logger.Info("react", "message_id", ref.MessageID, "emoji", emoji)
	return nil
}

func (l *Log) Say(_ context.Context, channelID, content string) (MessageRef, error) {
	ref := l.nextRef(channelID)
	l.logger.Info("say", "channel_id", channelID, "content", content)
	return ref, nil
}

func (l *Log) RegisterGuildCommand(_ context.Context, guildID string, schema command.Schema) error {
	l.logger.Info("register guild command", "guild_id", guildID, "command", schema.Key.String())
	return nil
}

func (l *Log) UnregisterGuildCommand(_ context.Context, guildID, name string) error {
	l.logger.Info("unregister guild command", "guild_id", guildID, "command", name)
	return nil
}

func (l *Log) Guilds(_ context.Context) ([]Guild, error) {
	return nil, nil
}

// ABOUTME: Store interface and typed helpers for guild settings persistence.
// ABOUTME: Defines guild fields, command overrides, and the access contract.

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidField is returned when a guild field name is not a valid
// identifier. Field names are interpolated into SQL, so they are restricted
// to [A-Za-z_][A-Za-z0-9_]*.
var ErrInvalidField = errors.New("invalid field name")

// Store is the persistent key-value collaborator shared by all modules.
//
// Guild fields form a single row per guild; modules add their own columns
// once at startup via AddGuildField and read/write them at dispatch time.
// Command overrides record per-guild enable/disable decisions; a missing
// override means the command's default applies.
//
// Implementations must present a single consistent view: a read issued after
// a write observes that write, across every module.
type Store interface {
	// AddGuildField adds a column to the guild table if it does not already
	// exist. Intended for one-time module setup.
	AddGuildField(ctx context.Context, name, definition string) error

	// GuildField returns the field's value for the guild, or the empty
	// string if the guild has no row or the field is NULL.
	GuildField(ctx context.Context, guildID, field string) (string, error)

	// SetGuildField writes the field for the guild, creating the guild row
	// if needed.
	SetGuildField(ctx context.Context, guildID, field, value string) error

	// CommandOverride returns the per-guild override for a command, or nil
	// when no override has been recorded.
	CommandOverride(ctx context.Context, cmd, guildID string) (*bool, error)

	// SetCommandOverride records a per-guild enable/disable decision.
	SetCommandOverride(ctx context.Context, cmd, guildID string, enabled bool) error

	Close() error
}

// IntField reads a guild field as an int64. A missing field reads as zero.
func IntField(ctx context.Context, s Store, guildID, field string) (int64, error) {
	raw, err := s.GuildField(ctx, guildID, field)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing guild field %s: %w", field, err)
	}
	return n, nil
}

// SetIntField writes a guild field as a decimal integer.
func SetIntField(ctx context.Context, s Store, guildID, field string, value int64) error {
	return s.SetGuildField(ctx, guildID, field, strconv.FormatInt(value, 10))
}

// BoolField reads a guild field as a boolean. Empty reads as false.
func BoolField(ctx context.Context, s Store, guildID, field string) (bool, error) {
	raw, err := s.GuildField(ctx, guildID, field)
	if err != nil {
		return false, err
	}
	return raw == "1" || raw == "true", nil
}

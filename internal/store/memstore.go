// ABOUTME: In-memory Store implementation for tests and dry runs.
// ABOUTME: Mirrors SQLiteStore semantics without a database file.

package store

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory Store. It is safe for concurrent use and exists
// so tests and dry runs don't need a database file.
type MemStore struct {
	mu        sync.Mutex
	fields    map[string]map[string]string // guildID -> field -> value
	columns   map[string]bool
	overrides map[string]bool // command + "\x00" + guildID -> enabled
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		fields:    make(map[string]map[string]string),
		columns:   make(map[string]bool),
		overrides: make(map[string]bool),
	}
}

func (m *MemStore) AddGuildField(_ context.Context, name, _ string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.columns[name] = true
	return nil
}

func (m *MemStore) GuildField(_ context.Context, guildID, field string) (string, error) {
	if !identRe.MatchString(field) {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fields[guildID][field], nil
}

func (m *MemStore) SetGuildField(_ context.Context, guildID, field, value string) error {
	if !identRe.MatchString(field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fields[guildID] == nil {
		m.fields[guildID] = make(map[string]string)
	}
	m.fields[guildID][field] = value
	return nil
}

func (m *MemStore) CommandOverride(_ context.Context, cmd, guildID string) (*bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	enabled, ok := m.overrides[cmd+"\x00"+guildID]
	if !ok {
		return nil, nil
	}
	v := enabled
	return &v, nil
}

func (m *MemStore) SetCommandOverride(_ context.Context, cmd, guildID string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[cmd+"\x00"+guildID] = enabled
	return nil
}

func (m *MemStore) Close() error { return nil }

// ABOUTME: Command entries, the duplicate-rejecting command set, and run context.
// ABOUTME: Registration is write-once at startup; the set is read-only afterwards.

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/needledrop/emcee/internal/command"
	"github.com/needledrop/emcee/internal/platform"
	"github.com/needledrop/emcee/internal/store"
)

// ErrDuplicateCommand indicates two commands registered the same (name, kind)
// key. Programmer error, fatal at startup.
var ErrDuplicateCommand = errors.New("duplicate command")

// Context carries everything a command needs to run.
type Context struct {
	Handler     *Handler
	Platform    platform.Gateway
	Store       store.Store
	Interaction *command.Interaction
	Logger      *slog.Logger
}

// Runner is the handler side of the command contract.
type Runner interface {
	// Run executes the command. Returning a ResponseNone response means the
	// command responded (or declined to) on its own.
	Run(ctx context.Context, cc *Context) (command.Response, error)

	// Describe returns the declarative schema sent to the platform.
	Describe() command.Schema
}

// Entry is one registered command. Immutable after registration.
type Entry struct {
	Key             command.Key
	Permissions     command.Permissions
	GuildRestricted bool // only runs in guilds where explicitly enabled
	Runner          Runner
}

// CommandSet maps command keys to entries. Keys are globally unique; a
// duplicate registration is rejected.
type CommandSet struct {
	entries map[command.Key]*Entry
}

// NewCommandSet creates an empty command set.
func NewCommandSet() *CommandSet {
	return &CommandSet{entries: make(map[command.Key]*Entry)}
}

// Register adds an entry, failing on a duplicate (name, kind) key.
func (s *CommandSet) Register(e *Entry) error {
	if _, exists := s.entries[e.Key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, e.Key)
	}
	s.entries[e.Key] = e
	return nil
}

// Get returns the entry for a key, if registered.
func (s *CommandSet) Get(key command.Key) (*Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// Entries returns all entries sorted by key name then kind.
func (s *CommandSet) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Name != out[j].Key.Name {
			return out[i].Key.Name < out[j].Key.Name
		}
		return out[i].Key.Kind < out[j].Key.Kind
	})
	return out
}

// Len returns the number of registered commands.
func (s *CommandSet) Len() int {
	return len(s.entries)
}

// ABOUTME: Recording fake Gateway for tests and dry runs.
// ABOUTME: Captures every outbound call and serves scripted guild lists.

package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/needledrop/emcee/internal/command"
)

// Call records one outbound gateway call made by the runtime.
type Call struct {
	Method        string
	InteractionID string
	Ref           MessageRef
	Response      command.Response
	Choices       []command.Choice
	Content       string
	Emoji         string
	GuildID       string
	CommandName   string
}

// Fake is an in-memory Gateway that records calls. Safe for concurrent use.
type Fake struct {
	mu      sync.Mutex
	calls   []Call
	guilds  []Guild
	selfID  string
	nextMsg int

	// FailSends, when set, makes SendResponse return an error.
	FailSends error
}

// NewFake creates a Fake gateway with the given bot user id.
func NewFake(selfID string) *Fake {
	return &Fake{selfID: selfID}
}

// SetGuilds scripts the guild list returned by Guilds.
func (f *Fake) SetGuilds(guilds []Guild) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guilds = guilds
}

func (f *Fake) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// Calls returns a copy of all recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns recorded calls for one method.
func (f *Fake) CallsTo(method string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) newRef(channelID string) MessageRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMsg++
	return MessageRef{ChannelID: channelID, MessageID: fmt.Sprintf("msg-%d", f.nextMsg)}
}

func (f *Fake) SendResponse(_ context.Context, interactionID string, resp command.Response) (MessageRef, error) {
	if f.FailSends != nil {
		return MessageRef{}, f.FailSends
	}
	ref := f.newRef("chan-" + interactionID)
	f.record(Call{Method: "SendResponse", InteractionID: interactionID, Response: resp, Ref: ref})
	return ref, nil
}

func (f *Fake) SendChoices(_ context.Context, interactionID string, choices []command.Choice) error {
	f.record(Call{Method: "SendChoices", InteractionID: interactionID, Choices: choices})
	return nil
}

func (f *Fake) EditMessage(_ context.Context, ref MessageRef, content string) error {
	f.record(Call{Method: "EditMessage", Ref: ref, Content: content})
	return nil
}

func (f *Fake) React(_ context.Context, ref MessageRef, emoji string) error {
	f.record(Call{Method: "React", Ref: ref, Emoji: emoji})
	return nil
}

func (f *Fake) Say(_ context.Context, channelID, content string) (MessageRef, error) {
	ref := f.newRef(channelID)
	f.record(Call{Method: "Say", Ref: ref, Content: content})
	return ref, nil
}

func (f *Fake) RegisterGuildCommand(_ context.Context, guildID string, schema command.Schema) error {
	f.record(Call{Method: "RegisterGuildCommand", GuildID: guildID, CommandName: schema.Key.Name})
	return nil
}

func (f *Fake) UnregisterGuildCommand(_ context.Context, guildID, name string) error {
	f.record(Call{Method: "UnregisterGuildCommand", GuildID: guildID, CommandName: name})
	return nil
}

func (f *Fake) Guilds(_ context.Context) ([]Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Guild, len(f.guilds))
	copy(out, f.guilds)
	return out, nil
}

func (f *Fake) SelfID() string { return f.selfID }

// ABOUTME: Ready-poll module: one actor session per poll, fed by reaction events.
// ABOUTME: Worked example of the mailbox/background-task concurrency pattern.

package poll

import (
	"context"
	"log/slog"
	"time"

	"github.com/needledrop/emcee/internal/events"
	"github.com/needledrop/emcee/internal/handler"
	"github.com/needledrop/emcee/internal/platform"
	"github.com/needledrop/emcee/internal/session"
)

// ModuleID is the poll module's registry token.
const ModuleID handler.ModuleID = "poll"

const commandName = "ready_poll"

// Default emotes, overridable via Config.
const (
	defaultYes   = "👍"
	defaultNo    = "👎"
	defaultStart = "▶️"
	defaultCount = "🦀"
	defaultGo    = "🎉"
)

const (
	// DefaultIdleTimeout ends a poll that has seen no events for this long.
	DefaultIdleTimeout = 15 * time.Minute
	// defaultDrainWindow bounds each mailbox wait; events arriving within one
	// window coalesce into a single message edit.
	defaultDrainWindow = 500 * time.Millisecond
	mailboxSize        = 16
)

// Event is a message into a poll session's mailbox.
type Event interface{ isPollEvent() }

// AddReady records that a user clicked the yes react.
type AddReady struct{ UserID string }

// RemoveReady records that a user removed their yes react.
type RemoveReady struct{ UserID string }

// Start is the once-only, owner-only signal that launches the countdown.
type Start struct{}

func (AddReady) isPollEvent()    {}
func (RemoveReady) isPollEvent() {}
func (Start) isPollEvent()       {}

// Config tunes the poll module. Zero values select the defaults above.
type Config struct {
	YesEmote   string
	NoEmote    string
	StartEmote string
	CountEmote string
	GoEmote    string

	MaxSessions int
	IdleTimeout time.Duration
	DrainWindow time.Duration
}

type emotes struct {
	yes, no, start, count, g string
}

// Poll owns the session table and the per-poll background tasks.
type Poll struct {
	gw       platform.Gateway
	emotes   emotes
	sessions *session.Table[Event]
	logger   *slog.Logger

	idleTimeout    time.Duration
	drainWindow    time.Duration
	countdownDelay time.Duration
	countdownTick  time.Duration
}

// Registration returns the module's builder registration.
func Registration(gw platform.Gateway, cfg Config) handler.Registration {
	return handler.Registration{
		ID: ModuleID,
		New: func(_ context.Context, _ *handler.Registry) (handler.Module, error) {
			return New(gw, cfg), nil
		},
	}
}

// New creates the poll module.
func New(gw platform.Gateway, cfg Config) *Poll {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	drain := cfg.DrainWindow
	if drain <= 0 {
		drain = defaultDrainWindow
	}
	return &Poll{
		gw: gw,
		emotes: emotes{
			yes:   pick(cfg.YesEmote, defaultYes),
			no:    pick(cfg.NoEmote, defaultNo),
			start: pick(cfg.StartEmote, defaultStart),
			count: pick(cfg.CountEmote, defaultCount),
			g:     pick(cfg.GoEmote, defaultGo),
		},
		sessions:       session.NewTable[Event](cfg.MaxSessions, nil),
		logger:         slog.Default().With("component", "poll"),
		idleTimeout:    idle,
		drainWindow:    drain,
		countdownDelay: 2 * time.Second,
		countdownTick:  time.Second,
	}
}

func (p *Poll) ModuleID() handler.ModuleID { return ModuleID }

// Sessions exposes the session table (used by tests to observe liveness).
func (p *Poll) Sessions() *session.Table[Event] { return p.sessions }

// RegisterCommands registers the ready_poll command.
func (p *Poll) RegisterCommands(cs *handler.CommandSet, _ *handler.CompletionChain) error {
	return cs.Register(&handler.Entry{
		Key:    readyPollKey(),
		Runner: &readyPollCommand{p: p},
	})
}

// RegisterEventHandlers subscribes to platform reaction events.
func (p *Poll) RegisterEventHandlers(bus *events.Bus) {
	events.Subscribe(bus, p.handleReactionAdded)
	events.Subscribe(bus, p.handleReactionRemoved)
}

// handleReactionAdded translates a platform reaction into a session message.
// Events for unknown or terminated sessions are silently dropped.
func (p *Poll) handleReactionAdded(ev platform.ReactionAdded) {
	if ev.SourceCommand != commandName || ev.MessageAuthorID != p.gw.SelfID() {
		return
	}
	sess, ok := p.sessions.Get(ev.SourceInteraction)
	if !ok {
		return
	}

	var evt Event
	switch {
	case ev.Emoji == p.emotes.yes && ev.UserID != p.gw.SelfID():
		evt = AddReady{UserID: ev.UserID}
	case ev.Emoji == p.emotes.start && ev.UserID == sess.OwnerID:
		// Only the poll's owner can start it.
		evt = Start{}
	default:
		return
	}

	if err := p.sessions.Send(sess.ID, evt); err != nil {
		p.logger.Debug("poll event dropped", "session_id", sess.ID, "error", err)
	}
}

func (p *Poll) handleReactionRemoved(ev platform.ReactionRemoved) {
	if ev.SourceCommand != commandName || ev.MessageAuthorID != p.gw.SelfID() {
		return
	}
	if ev.Emoji != p.emotes.yes {
		return
	}
	if err := p.sessions.Send(ev.SourceInteraction, RemoveReady{UserID: ev.UserID}); err != nil {
		p.logger.Debug("poll event dropped", "session_id", ev.SourceInteraction, "error", err)
	}
}

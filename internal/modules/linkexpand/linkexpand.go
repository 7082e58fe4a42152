// ABOUTME: Expands shortened track links on demand: the bot marks messages that
// ABOUTME: contain one, and expands when any user clicks the marker react.

package linkexpand

import (
	"context"
	"log/slog"
	"strings"

	"github.com/needledrop/emcee/internal/dedupe"
	"github.com/needledrop/emcee/internal/events"
	"github.com/needledrop/emcee/internal/handler"
	"github.com/needledrop/emcee/internal/modules/streaming"
	"github.com/needledrop/emcee/internal/platform"
)

// ModuleID is the link-expansion module's registry token.
const ModuleID handler.ModuleID = "linkexpand"

const markerEmote = "🔗"

// LinkExpand watches messages for shortened links and expands them when a
// user reacts with the marker emote.
type LinkExpand struct {
	gw        platform.Gateway
	streaming *streaming.Streaming
	seen      *dedupe.Seen
	logger    *slog.Logger
}

// Registration returns the module's builder registration.
func Registration(gw platform.Gateway) handler.Registration {
	return handler.Registration{
		ID:   ModuleID,
		Deps: []func() handler.Registration{streaming.Registration},
		New: func(_ context.Context, r *handler.Registry) (handler.Module, error) {
			st, err := handler.Lookup[*streaming.Streaming](r, streaming.ModuleID)
			if err != nil {
				return nil, err
			}
			return New(gw, st), nil
		},
	}
}

// New creates the link-expansion module.
func New(gw platform.Gateway, st *streaming.Streaming) *LinkExpand {
	return &LinkExpand{
		gw:        gw,
		streaming: st,
		seen:      dedupe.New(dedupe.DefaultCapacity),
		logger:    slog.Default().With("component", "linkexpand"),
	}
}

func (l *LinkExpand) ModuleID() handler.ModuleID { return ModuleID }

// RegisterEventHandlers subscribes to message and reaction events.
func (l *LinkExpand) RegisterEventHandlers(bus *events.Bus) {
	events.Subscribe(bus, l.handleMessage)
	events.Subscribe(bus, l.handleReaction)
}

// Seen exposes the dedupe set (used by tests to observe expansion state).
func (l *LinkExpand) Seen() *dedupe.Seen { return l.seen }

// handleMessage marks messages containing a shortened link with the marker
// react. A new message with the same ID as an old one must be expandable
// again, so any stale dedupe entry is dropped first.
func (l *LinkExpand) handleMessage(ev platform.MessageCreated) {
	if ev.AuthorID == l.gw.SelfID() {
		return
	}
	if len(l.streaming.ShortLinks(ev.Content)) == 0 {
		return
	}

	l.seen.Forget(ev.Ref.MessageID)
	if err := l.gw.React(context.Background(), ev.Ref, markerEmote); err != nil {
		l.logger.Warn("cannot add marker react", "message_id", ev.Ref.MessageID, "error", err)
	}
}

// handleReaction expands the links of a marked message once. Later marker
// reacts on the same message are ignored until the dedupe entry ages out.
func (l *LinkExpand) handleReaction(ev platform.ReactionAdded) {
	if ev.Emoji != markerEmote || ev.UserID == l.gw.SelfID() {
		return
	}
	if l.seen.CheckAndMark(ev.Ref.MessageID) {
		return
	}

	ctx := context.Background()
	resolved, err := l.streaming.ResolveAll(ctx, ev.MessageContent)
	if err != nil {
		l.logger.Warn("cannot resolve links", "message_id", ev.Ref.MessageID, "error", err)
		l.seen.Forget(ev.Ref.MessageID)
		return
	}
	if len(resolved) == 0 {
		return
	}

	if _, err := l.gw.Say(ctx, ev.Ref.ChannelID, strings.Join(resolved, "\n")); err != nil {
		l.logger.Warn("cannot post expanded links", "message_id", ev.Ref.MessageID, "error", err)
		l.seen.Forget(ev.Ref.MessageID)
	}
}

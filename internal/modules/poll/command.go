// ABOUTME: The ready_poll command: creates the poll message and spawns its session.
// ABOUTME: The session task outlives the dispatch call that created it.

package poll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/needledrop/emcee/internal/command"
	"github.com/needledrop/emcee/internal/handler"
	"github.com/needledrop/emcee/internal/platform"
	"github.com/needledrop/emcee/internal/session"
)

func readyPollKey() command.Key {
	return command.Key{Name: commandName, Kind: command.ChatInput}
}

type readyPollCommand struct {
	p *Poll
}

func (c *readyPollCommand) Describe() command.Schema {
	return command.Schema{
		Key:         readyPollKey(),
		Description: "Poll to start a listening party",
		Options: []command.Option{
			{Name: "count_emote", Type: command.OptionString, Description: "Count emote"},
			{Name: "go_emote", Type: command.OptionString, Description: "Emote Go"},
		},
	}
}

func (c *readyPollCommand) Run(ctx context.Context, cc *handler.Context) (command.Response, error) {
	ref, err := c.createPoll(ctx, cc)
	if err != nil {
		if ref != nil {
			// The "Ready?" response already went out; surface the error by
			// editing it rather than sending a second response.
			if editErr := cc.Platform.EditMessage(ctx, *ref, err.Error()); editErr != nil {
				cc.Logger.Warn("cannot edit poll message", "error", editErr)
			}
			return command.None(), nil
		}
		return command.None(), err
	}
	// Already responded.
	return command.None(), nil
}

// createPoll sends the poll message, registers the session, adds the reacts,
// and spawns the session task. Returns the message ref once the initial
// response has been sent, even on error.
func (c *readyPollCommand) createPoll(ctx context.Context, cc *handler.Context) (*platform.MessageRef, error) {
	p := c.p
	in := cc.Interaction

	countEmote, ok := command.StringOption(in.Options, "count_emote")
	if !ok {
		countEmote = p.emotes.count
	}
	goEmote, ok := command.StringOption(in.Options, "go_emote")
	if !ok {
		goEmote = p.emotes.g
	}

	ref, err := cc.Platform.SendResponse(ctx, in.ID, command.Public("Ready?"))
	if err != nil {
		return nil, fmt.Errorf("creating poll response: %w", err)
	}

	sess := p.sessions.Create(in.ID, in.User.ID, mailboxSize)

	for _, emote := range []string{p.emotes.yes, p.emotes.no, p.emotes.start} {
		if err := cc.Platform.React(ctx, ref, emote); err != nil {
			p.sessions.Remove(sess.ID)
			return &ref, fmt.Errorf("adding %s react: %w", emote, err)
		}
	}

	go p.run(sess, ref, countEmote, goEmote)
	return &ref, nil
}

// run is the poll session task. It drains the mailbox in short bounded
// waits, coalescing rapid events into one message edit per drain cycle, and
// exits on idle timeout or when the mailbox closes.
func (p *Poll) run(sess *session.Session[Event], ref platform.MessageRef, countEmote, goEmote string) {
	defer p.sessions.Remove(sess.ID)

	var ready []string
	changed := false
	started := false
	lastEvent := time.Now()

	for {
	drain:
		for {
			select {
			case evt, ok := <-sess.Mailbox():
				if !ok {
					// Evicted or removed; stop reading.
					return
				}
				lastEvent = time.Now()
				changed = true
				switch e := evt.(type) {
				case AddReady:
					if !contains(ready, e.UserID) {
						ready = append(ready, e.UserID)
					}
				case RemoveReady:
					ready = remove(ready, e.UserID)
				case Start:
					if started {
						// Non-restartable once started.
						continue
					}
					started = true
					if err := p.countdown(context.Background(), ref.ChannelID, countEmote, goEmote); err != nil {
						p.logger.Warn("countdown failed", "session_id", sess.ID, "error", err)
					}
				}
			case <-time.After(p.drainWindow):
				break drain
			}
		}

		if time.Since(lastEvent) >= p.idleTimeout {
			return
		}
		if !changed {
			continue
		}

		content := buildMessage(ready)
		// Edit in a detached task so a slow platform call cannot stall the
		// drain loop; its result is discarded if the session exits first.
		go func() {
			if err := p.gw.EditMessage(context.Background(), ref, content); err != nil {
				p.logger.Warn("cannot edit poll message", "session_id", sess.ID, "error", err)
			}
		}()
		changed = false
	}
}

// countdown announces and performs the start countdown in the poll's channel.
func (p *Poll) countdown(ctx context.Context, channelID, countEmote, goEmote string) error {
	if _, err := p.gw.Say(ctx, channelID, "Starting 3s countdown"); err != nil {
		return err
	}
	time.Sleep(p.countdownDelay)

	// A ticker rather than repeated sleeps, to limit drift from the time it
	// takes to send each message.
	ticker := time.NewTicker(p.countdownTick)
	defer ticker.Stop()

	for i := 0; i < 3; i++ {
		contents := strings.TrimSpace(strings.Repeat(countEmote+" ", 3-i))
		if _, err := p.gw.Say(ctx, channelID, contents); err != nil {
			return err
		}
		<-ticker.C
	}
	_, err := p.gw.Say(ctx, channelID, goEmote)
	return err
}

// buildMessage lists users that have clicked the yes react as being ready.
func buildMessage(ready []string) string {
	if len(ready) == 0 {
		return "Ready?"
	}
	var sb strings.Builder
	sb.WriteString("Ready? (")
	for i, id := range ready {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "<@%s>", id)
	}
	if len(ready) == 1 {
		sb.WriteString(" is ready)")
	} else {
		sb.WriteString(" are ready)")
	}
	return sb.String()
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ABOUTME: Tests for marker reacts and once-only link expansion.

package linkexpand

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/needledrop/emcee/internal/modules/streaming"
	"github.com/needledrop/emcee/internal/platform"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func fakeResolver() *streaming.Streaming {
	client := &http.Client{
		Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			h := http.Header{}
			h.Set("Location", "https://open.example.com/track/"+r.URL.Path[1:])
			return &http.Response{
				StatusCode: http.StatusFound,
				Header:     h,
				Body:       http.NoBody,
				Request:    r,
			}, nil
		}),
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return streaming.New(client)
}

func newTestExpander(t *testing.T) (*LinkExpand, *platform.Fake) {
	t.Helper()
	gw := platform.NewFake("bot")
	return New(gw, fakeResolver()), gw
}

func message(id, author, content string) platform.MessageCreated {
	return platform.MessageCreated{
		Ref:      platform.MessageRef{ChannelID: "c1", MessageID: id},
		AuthorID: author,
		Content:  content,
	}
}

func markerReaction(id, user, content string) platform.ReactionAdded {
	return platform.ReactionAdded{
		Ref:            platform.MessageRef{ChannelID: "c1", MessageID: id},
		Emoji:          markerEmote,
		UserID:         user,
		MessageContent: content,
	}
}

func TestMessageWithShortLinkGetsMarker(t *testing.T) {
	l, gw := newTestExpander(t)

	l.handleMessage(message("m1", "u1", "check https://spotify.link/abc out"))

	reacts := gw.CallsTo("React")
	require.Len(t, reacts, 1)
	assert.Equal(t, markerEmote, reacts[0].Emoji)
	assert.Equal(t, "m1", reacts[0].Ref.MessageID)
}

func TestMessageWithoutLinkIgnored(t *testing.T) {
	l, gw := newTestExpander(t)

	l.handleMessage(message("m1", "u1", "nothing interesting"))
	l.handleMessage(message("m2", "bot", "https://spotify.link/self"))

	assert.Empty(t, gw.CallsTo("React"))
}

func TestReactionExpandsOnce(t *testing.T) {
	l, gw := newTestExpander(t)
	content := "check https://spotify.link/abc out"

	l.handleMessage(message("m1", "u1", content))
	l.handleReaction(markerReaction("m1", "u2", content))

	says := gw.CallsTo("Say")
	require.Len(t, says, 1)
	assert.Equal(t, "https://open.example.com/track/abc", says[0].Content)
	assert.Equal(t, "c1", says[0].Ref.ChannelID)

	// A second click on the same message is a duplicate.
	l.handleReaction(markerReaction("m1", "u3", content))
	assert.Len(t, gw.CallsTo("Say"), 1)
}

func TestReusedMessageIDExpandsAgain(t *testing.T) {
	l, gw := newTestExpander(t)
	content := "https://spotify.link/abc"

	l.handleMessage(message("m1", "u1", content))
	l.handleReaction(markerReaction("m1", "u2", content))
	require.Len(t, gw.CallsTo("Say"), 1)

	// The same ID arriving as a fresh message clears the expansion record.
	l.handleMessage(message("m1", "u1", content))
	l.handleReaction(markerReaction("m1", "u2", content))
	assert.Len(t, gw.CallsTo("Say"), 2)
}

func TestForeignReactionsIgnored(t *testing.T) {
	l, gw := newTestExpander(t)

	// Wrong emoji.
	ev := markerReaction("m1", "u2", "https://spotify.link/abc")
	ev.Emoji = "👍"
	l.handleReaction(ev)

	// Bot's own reaction.
	l.handleReaction(markerReaction("m2", "bot", "https://spotify.link/abc"))

	// No links in the message.
	l.handleReaction(markerReaction("m3", "u2", "plain text"))

	assert.Empty(t, gw.CallsTo("Say"))
}

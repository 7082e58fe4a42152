// ABOUTME: Tests for short-link detection and resolution.

package streaming

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/needledrop/emcee/internal/command"
	"github.com/needledrop/emcee/internal/handler"
	"github.com/needledrop/emcee/internal/platform"
)

// roundTripperFunc lets tests script HTTP responses without a network.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// noFollowClient returns a client that reports redirects instead of
// following them, matching the module's default.
func noFollowClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// redirectClient resolves any spotify.link URL to a canonical track URL with
// tracking params attached.
func redirectClient() *http.Client {
	return &http.Client{
		Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			h := http.Header{}
			h.Set("Location", "https://open.example.com/track/"+r.URL.Path[1:]+"?si=tracking&utm=stuff")
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
}

func TestShortLinks(t *testing.T) {
	s := New(nil)

	text := "listen https://spotify.link/abC123 and https://spotify.link/Zz9 done"
	assert.Equal(t,
		[]string{"https://spotify.link/abC123", "https://spotify.link/Zz9"},
		s.ShortLinks(text),
	)

	assert.Empty(t, s.ShortLinks("no links here"))
	assert.Empty(t, s.ShortLinks("https://open.example.com/track/x is already full"))
}

func TestResolveFollowsRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Location", "https://open.example.com/track/42?si=abc")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	s := New(noFollowClient())
	full, err := s.Resolve(context.Background(), srv.URL+"/short")
	require.NoError(t, err)
	assert.Equal(t, "https://open.example.com/track/42", full, "tracking params are stripped")
}

func TestResolveWithoutRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(noFollowClient())
	_, err := s.Resolve(context.Background(), srv.URL+"/short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no redirect location")
}

func TestResolveAll(t *testing.T) {
	s := New(redirectClient())

	resolved, err := s.ResolveAll(context.Background(),
		"a https://spotify.link/one b https://spotify.link/two c")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://open.example.com/track/one",
		"https://open.example.com/track/two",
	}, resolved)

	resolved, err = s.ResolveAll(context.Background(), "nothing to do")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestPreviewCommand(t *testing.T) {
	s := New(redirectClient())
	gw := platform.NewFake("bot")

	run := func(link string) (command.Response, error) {
		cc := &handler.Context{
			Platform: gw,
			Logger:   slog.Default(),
			Interaction: &command.Interaction{
				Key:     command.Key{Name: "link_preview", Kind: command.ChatInput},
				Options: []command.OptionValue{{Name: "link", Value: link}},
			},
		}
		return (&previewCommand{s: s}).Run(context.Background(), cc)
	}

	resp, err := run("https://spotify.link/abc")
	require.NoError(t, err)
	assert.Equal(t, command.ResponsePublic, resp.Kind)
	assert.Equal(t, "https://open.example.com/track/abc", resp.Content)

	resp, err = run("https://example.com/not-short")
	require.NoError(t, err)
	assert.Equal(t, command.ResponsePrivate, resp.Kind)
}

// ABOUTME: Tests for the chart command and its dependency on streaming.

package charts

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/needledrop/emcee/internal/command"
	"github.com/needledrop/emcee/internal/handler"
	"github.com/needledrop/emcee/internal/modules/streaming"
	"github.com/needledrop/emcee/internal/platform"
	"github.com/needledrop/emcee/internal/store"
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

func TestRegistrationInitializesStreamingFirst(t *testing.T) {
	b := handler.NewBuilder(store.NewMemStore(), platform.NewFake("bot"), slog.Default())

	require.NoError(t, b.Register(context.Background(), Registration()))

	order := b.Build().Modules().Order()
	require.Len(t, order, 2)
	assert.Equal(t, streaming.ModuleID, order[0], "the dependency initializes before its consumer")
	assert.Equal(t, ModuleID, order[1])
}

func runChart(t *testing.T, options []command.OptionValue) command.Response {
	t.Helper()
	c := &Charts{streaming: fakeResolver()}
	cc := &handler.Context{
		Platform: platform.NewFake("bot"),
		Logger:   slog.Default(),
		Interaction: &command.Interaction{
			Key:     command.Key{Name: "chart", Kind: command.ChatInput},
			Options: options,
		},
	}
	resp, err := (&chartCommand{c: c}).Run(context.Background(), cc)
	require.NoError(t, err)
	return resp
}

func TestChartMixesShortAndFullLinks(t *testing.T) {
	resp := runChart(t, []command.OptionValue{
		{Name: "links", Value: "https://spotify.link/one https://open.example.com/track/direct skipme"},
		{Name: "title", Value: "Week 34"},
	})

	require.Equal(t, command.ResponseEmbed, resp.Kind)
	require.NotNil(t, resp.Embed)
	assert.Equal(t, "Week 34", resp.Embed.Title)
	assert.Equal(t,
		"1. https://open.example.com/track/one\n2. https://open.example.com/track/direct",
		resp.Embed.Description,
	)
}

func TestChartDefaultTitle(t *testing.T) {
	resp := runChart(t, []command.OptionValue{
		{Name: "links", Value: "https://open.example.com/track/a"},
	})
	require.Equal(t, command.ResponseEmbed, resp.Kind)
	assert.Equal(t, "Chart", resp.Embed.Title)
}

func TestChartWithoutLinks(t *testing.T) {
	resp := runChart(t, []command.OptionValue{
		{Name: "links", Value: "just words"},
	})
	assert.Equal(t, command.ResponsePrivate, resp.Kind)
}

// ABOUTME: Chart command that turns pasted track links into a numbered embed.
// ABOUTME: Depends on the streaming module for short-link resolution.

package charts

import (
	"context"
	"fmt"
	"strings"

	"github.com/needledrop/emcee/internal/command"
	"github.com/needledrop/emcee/internal/handler"
	"github.com/needledrop/emcee/internal/modules/streaming"
)

// ModuleID is the charts module's registry token.
const ModuleID handler.ModuleID = "charts"

const maxChartEntries = 10

// Charts builds track charts from user-supplied links.
type Charts struct {
	streaming *streaming.Streaming
}

// Registration returns the module's builder registration. Declaring the
// streaming module as a dependency guarantees it is initialized first and
// can be looked up here.
func Registration() handler.Registration {
	return handler.Registration{
		ID:   ModuleID,
		Deps: []func() handler.Registration{streaming.Registration},
		New: func(_ context.Context, r *handler.Registry) (handler.Module, error) {
			st, err := handler.Lookup[*streaming.Streaming](r, streaming.ModuleID)
			if err != nil {
				return nil, err
			}
			return &Charts{streaming: st}, nil
		},
	}
}

func (c *Charts) ModuleID() handler.ModuleID { return ModuleID }

// RegisterCommands registers the chart command.
func (c *Charts) RegisterCommands(cs *handler.CommandSet, _ *handler.CompletionChain) error {
	return cs.Register(&handler.Entry{
		Key:    command.Key{Name: "chart", Kind: command.ChatInput},
		Runner: &chartCommand{c: c},
	})
}

type chartCommand struct {
	c *Charts
}

func (cc *chartCommand) Describe() command.Schema {
	return command.Schema{
		Key:         command.Key{Name: "chart", Kind: command.ChatInput},
		Description: "Build a numbered chart from pasted track links",
		Options: []command.Option{
			{Name: "links", Type: command.OptionString, Required: true, Description: "Track links, shortened or full"},
			{Name: "title", Type: command.OptionString, Description: "Chart title"},
		},
	}
}

func (cc *chartCommand) Run(ctx context.Context, hc *handler.Context) (command.Response, error) {
	text, ok := command.StringOption(hc.Interaction.Options, "links")
	if !ok {
		return command.None(), fmt.Errorf("missing links option")
	}
	title, ok := command.StringOption(hc.Interaction.Options, "title")
	if !ok {
		title = "Chart"
	}

	entries := cc.c.entries(ctx, text)
	if len(entries) == 0 {
		return command.Private("No track links found."), nil
	}

	var sb strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, e)
	}
	return command.EmbedResponse(&command.Embed{
		Title:       title,
		Description: strings.TrimRight(sb.String(), "\n"),
	}), nil
}

// entries extracts chart entries from the text: shortened links are resolved
// through the streaming module, anything else https-shaped passes through.
func (c *Charts) entries(ctx context.Context, text string) []string {
	var out []string
	for _, field := range strings.Fields(text) {
		if len(out) >= maxChartEntries {
			break
		}
		if !strings.HasPrefix(field, "https://") {
			continue
		}
		if len(c.streaming.ShortLinks(field)) > 0 {
			if full, err := c.streaming.Resolve(ctx, field); err == nil {
				out = append(out, full)
			}
			continue
		}
		out = append(out, field)
	}
	return out
}

// ABOUTME: Streaming-service helpers: resolves shortened track links to their
// ABOUTME: canonical URLs. Other modules depend on this one for the resolver.

package streaming

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/needledrop/emcee/internal/command"
	"github.com/needledrop/emcee/internal/handler"
)

// ModuleID is the streaming module's registry token.
const ModuleID handler.ModuleID = "streaming"

const defaultResolveTimeout = 10 * time.Second

// shortLinkRe matches shortened share links as they appear inside message text.
var shortLinkRe = regexp.MustCompile(`https://spotify\.link/[a-zA-Z0-9]+`)

// Streaming resolves shortened streaming links and serves as a shared
// dependency for modules that work with track URLs.
type Streaming struct {
	client *http.Client
}

// Registration returns the module's builder registration.
func Registration() handler.Registration {
	return handler.Registration{
		ID: ModuleID,
		New: func(_ context.Context, _ *handler.Registry) (handler.Module, error) {
			return New(nil), nil
		},
	}
}

// New creates the streaming module. A nil client gets a default one that
// reports redirects instead of following them.
func New(client *http.Client) *Streaming {
	if client == nil {
		client = &http.Client{
			Timeout: defaultResolveTimeout,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return &Streaming{client: client}
}

func (s *Streaming) ModuleID() handler.ModuleID { return ModuleID }

// RegisterCommands registers the link_preview chat command.
func (s *Streaming) RegisterCommands(cs *handler.CommandSet, _ *handler.CompletionChain) error {
	return cs.Register(&handler.Entry{
		Key:    command.Key{Name: "link_preview", Kind: command.ChatInput},
		Runner: &previewCommand{s: s},
	})
}

// ShortLinks returns every shortened share link found in the text, in order.
func (s *Streaming) ShortLinks(text string) []string {
	return shortLinkRe.FindAllString(text, -1)
}

// Resolve follows one redirect hop of a shortened link and returns the
// canonical URL it points at, stripped of tracking parameters.
func (s *Streaming) Resolve(ctx context.Context, shortURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, shortURL, nil)
	if err != nil {
		return "", fmt.Errorf("building resolve request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", shortURL, err)
	}
	defer resp.Body.Close()

	loc := resp.Header.Get("Location")
	if loc == "" {
		return "", fmt.Errorf("resolving %s: no redirect location (status %d)", shortURL, resp.StatusCode)
	}

	// Share links carry attribution query params the reader does not need.
	if i := strings.IndexByte(loc, '?'); i >= 0 {
		loc = loc[:i]
	}
	return loc, nil
}

// ResolveAll expands every shortened link in the text. Links that fail to
// resolve are skipped; an error is returned only when nothing resolved.
func (s *Streaming) ResolveAll(ctx context.Context, text string) ([]string, error) {
	short := s.ShortLinks(text)
	if len(short) == 0 {
		return nil, nil
	}

	var resolved []string
	var lastErr error
	for _, u := range short {
		full, err := s.Resolve(ctx, u)
		if err != nil {
			lastErr = err
			continue
		}
		resolved = append(resolved, full)
	}
	if len(resolved) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return resolved, nil
}

// previewCommand resolves a shortened link given as an option and replies
// with the canonical URL.
type previewCommand struct {
	s *Streaming
}

func (c *previewCommand) Describe() command.Schema {
	return command.Schema{
		Key:         command.Key{Name: "link_preview", Kind: command.ChatInput},
		Description: "Resolve a shortened track link to its full URL",
		Options: []command.Option{
			{Name: "link", Type: command.OptionString, Required: true, Description: "Shortened link"},
		},
	}
}

func (c *previewCommand) Run(ctx context.Context, cc *handler.Context) (command.Response, error) {
	link, ok := command.StringOption(cc.Interaction.Options, "link")
	if !ok {
		return command.None(), fmt.Errorf("missing link option")
	}
	if !shortLinkRe.MatchString(link) {
		return command.Private("That doesn't look like a shortened track link."), nil
	}
	full, err := c.s.Resolve(ctx, link)
	if err != nil {
		return command.None(), err
	}
	return command.Public(full), nil
}

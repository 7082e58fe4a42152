// ABOUTME: Chain-of-responsibility router for autocomplete requests.
// ABOUTME: Handlers are consulted in registration order until one claims.

package handler

import (
	"context"

	"github.com/needledrop/emcee/internal/command"
)

// CompletionFunc inspects an autocomplete interaction and either declines
// (claimed=false; the chain continues), claims and answers (claimed=true with
// choices; the chain stops), or claims and fails (non-nil error; the chain
// stops and the error propagates).
type CompletionFunc func(ctx context.Context, cc *Context) (choices []command.Choice, claimed bool, err error)

// CompletionChain is an ordered, append-only list of completion handlers.
// Position encodes priority: a later handler can never override an earlier
// handler's claim.
type CompletionChain struct {
	handlers []CompletionFunc
}

// NewCompletionChain creates an empty chain.
func NewCompletionChain() *CompletionChain {
	return &CompletionChain{}
}

// Append adds a handler at the end of the chain.
func (c *CompletionChain) Append(fn CompletionFunc) {
	c.handlers = append(c.handlers, fn)
}

// Len returns the number of handlers in the chain.
func (c *CompletionChain) Len() int {
	return len(c.handlers)
}

// Dispatch consults handlers in order. Exactly zero or one handler answers a
// given request.
func (c *CompletionChain) Dispatch(ctx context.Context, cc *Context) ([]command.Choice, bool, error) {
	for _, h := range c.handlers {
		choices, claimed, err := h(ctx, cc)
		if err != nil {
			return nil, true, err
		}
		if claimed {
			return choices, true, nil
		}
	}
	return nil, false, nil
}

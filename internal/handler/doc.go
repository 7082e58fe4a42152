// Package handler is the runtime substrate of the bot: the module registry,
// the command router, the autocomplete chain, and the interaction dispatcher.
//
// # Startup
//
// A Builder is assembled from the persistent store and the platform gateway.
// Modules are registered through it; each registration brings up the module's
// dependencies first (depth-first, cycles are fatal), runs its initializer,
// and lets it register commands, completion handlers, and event subscriptions:
//
//	b := handler.NewBuilder(st, gw, logger)
//	err := b.Register(ctx, poll.Registration(gw, pollCfg))
//	h := b.Build()
//
// Build freezes everything; the only routing state that changes afterwards is
// the per-guild command override table, which lives in the store.
//
// # Dispatch
//
// HandleInteraction is the single entry point. Commands resolve through the
// special map, the guild override, the command set, and the default handler,
// in that order. Autocomplete requests walk the completion chain until one
// handler claims them. Failures in a command become a private response to the
// invoking user and never affect any other in-flight work.
package handler

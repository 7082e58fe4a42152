// Package events is a type-indexed publish/subscribe bus for fire-and-forget
// notifications between modules. Handlers run as detached goroutines that own
// their inputs; the publisher cannot observe their failures.
package events

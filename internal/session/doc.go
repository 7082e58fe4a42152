// Package session implements the actor/mailbox pattern for ephemeral
// multi-party interactions: each session is a bounded mailbox drained by a
// background task, tracked in a capacity-capped table with oldest-first
// eviction.
package session

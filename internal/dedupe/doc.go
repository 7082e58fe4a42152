// Package dedupe provides a fixed-capacity set of recently-seen ids used to
// avoid double-handling platform events.
package dedupe

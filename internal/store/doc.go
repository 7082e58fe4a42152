// Package store is the persistent key-value collaborator: per-guild settings
// fields and the per-guild command override table. All access is serialized
// to present a single consistent view.
package store

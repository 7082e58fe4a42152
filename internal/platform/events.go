// ABOUTME: Platform event payload types published on the internal event bus.
// ABOUTME: The transport publishes these; modules subscribe to the ones they handle.

package platform

// MessageCreated is published when a message appears in a channel the bot
// can see.
type MessageCreated struct {
	Ref      MessageRef
	AuthorID string
	Content  string
}

// ReactionAdded is published when a user adds a reaction. SourceInteraction
// and SourceCommand are set when the reacted-to message is the bot's own
// response to a command interaction; both are empty otherwise.
type ReactionAdded struct {
	Ref               MessageRef
	Emoji             string
	UserID            string
	MessageAuthorID   string
	MessageContent    string
	SourceInteraction string
	SourceCommand     string
}

// ReactionRemoved is the removal counterpart of ReactionAdded.
type ReactionRemoved struct {
	Ref               MessageRef
	Emoji             string
	UserID            string
	MessageAuthorID   string
	SourceInteraction string
	SourceCommand     string
}

// ABOUTME: Decoded inbound interaction values and option access helpers.
// ABOUTME: The platform transport produces these; the dispatcher consumes them.

package command

import "strconv"

// InteractionType classifies an inbound interaction.
type InteractionType int

const (
	// InteractionCommand is a command invocation.
	InteractionCommand InteractionType = iota
	// InteractionAutocomplete is a request for option suggestions.
	InteractionAutocomplete
)

// User identifies the platform user behind an interaction.
type User struct {
	ID   string
	Name string
}

// OptionValue is one raw option supplied with an interaction. Values arrive
// as strings; commands parse them with the helpers below.
type OptionValue struct {
	Name    string
	Value   string
	Focused bool
}

// Interaction is a decoded inbound event from the platform transport.
// GuildID is empty for direct messages. For Message and User kinds, Target*
// carry the entity the command was invoked on.
type Interaction struct {
	ID        string
	Type      InteractionType
	Key       Key
	GuildID   string
	ChannelID string
	User      User
	Options   []OptionValue

	TargetID      string
	TargetContent string
	TargetUserID  string
}

// StringOption returns the named option's value, if present.
func StringOption(opts []OptionValue, name string) (string, bool) {
	for _, o := range opts {
		if o.Name == name {
			return o.Value, true
		}
	}
	return "", false
}

// IntOption returns the named option parsed as an integer.
func IntOption(opts []OptionValue, name string) (int64, bool) {
	raw, ok := StringOption(opts, name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FocusedOption returns the name of the option currently being completed.
func FocusedOption(opts []OptionValue) (string, bool) {
	for _, o := range opts {
		if o.Focused {
			return o.Name, true
		}
	}
	return "", false
}

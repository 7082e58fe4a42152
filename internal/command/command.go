// ABOUTME: Contract types shared by the runtime and feature modules.
// ABOUTME: Defines command keys, schemas, responses, and decoded interactions.

package command

import "fmt"

// Kind identifies how a command is invoked on the platform.
type Kind int

const (
	// ChatInput is a slash command typed into the chat box.
	ChatInput Kind = iota
	// Message is a context-menu command invoked on a message.
	Message
	// KindUser is a context-menu command invoked on a user.
	KindUser
)

func (k Kind) String() string {
	switch k {
	case ChatInput:
		return "chat_input"
	case Message:
		return "message"
	case KindUser:
		return "user"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Key uniquely identifies a registrable command. Two commands may share a
// name as long as their kinds differ.
type Key struct {
	Name string
	Kind Kind
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Name, k.Kind)
}

// Permissions is the permission bitmask a command requires. The runtime does
// not enforce it; the platform applies it when the command is registered.
type Permissions uint64

const (
	PermNone          Permissions = 0
	PermManageGuild   Permissions = 1 << 5
	PermAdministrator Permissions = 1 << 3
)

// OptionType tags a schema option with its value type.
type OptionType int

const (
	OptionString OptionType = iota
	OptionInteger
	OptionBoolean
	OptionUser
)

// Option describes one command option. Order within a Schema is significant:
// it is the order presented to the platform and to users.
type Option struct {
	Name         string
	Type         OptionType
	Description  string
	Required     bool
	Autocomplete bool
}

// Schema is the declarative description of a command, sent to the platform
// when the command is registered.
type Schema struct {
	Key         Key
	Description string
	Options     []Option
}

// ResponseKind classifies a command response.
type ResponseKind int

const (
	// ResponseNone means the command already responded on its own (or chose
	// not to). The dispatcher sends nothing.
	ResponseNone ResponseKind = iota
	// ResponsePublic is visible to the whole channel.
	ResponsePublic
	// ResponsePrivate is visible only to the invoking user.
	ResponsePrivate
	// ResponseEmbed is a public rich embed.
	ResponseEmbed
)

// Response is the outcome of a command, rendered by the platform collaborator.
type Response struct {
	Kind    ResponseKind
	Content string
	Embed   *Embed
}

// Embed is a rich response body.
type Embed struct {
	Title       string
	Description string
	URL         string
	Fields      []EmbedField
}

// EmbedField is one titled section of an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// None returns an empty response; the dispatcher will not send anything.
func None() Response { return Response{Kind: ResponseNone} }

// Public returns a channel-visible text response.
func Public(content string) Response {
	return Response{Kind: ResponsePublic, Content: content}
}

// Private returns a text response visible only to the invoking user.
func Private(content string) Response {
	return Response{Kind: ResponsePrivate, Content: content}
}

// EmbedResponse wraps an embed in a public response.
func EmbedResponse(e *Embed) Response {
	return Response{Kind: ResponseEmbed, Embed: e}
}

// Choice is one autocomplete suggestion.
type Choice struct {
	Name  string
	Value string
}

// MaxChoices is the platform's cap on autocomplete suggestions per response.
const MaxChoices = 25

package domain

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	// ChatRoleUser is a message written by the customer.
	ChatRoleUser ChatRole = "user"

	// ChatRoleAI is a message produced by the sales assistant model.
	ChatRoleAI ChatRole = "ai"
)

// ChatMessage is a single message in a user's assistant transcript.
// Transcripts are persisted per-username as a flat list and fully
// replaced on every save.
type ChatMessage struct {
	// ID is the unique identifier of the message.
	ID string `json:"id"`

	// Role is the message author.
	Role ChatRole `json:"role"`

	// Text is the message body.
	Text string `json:"text"`

	// Timestamp is the message time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

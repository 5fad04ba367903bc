package domain

// LogType classifies a system log entry.
type LogType string

const (
	LogAuth     LogType = "auth"
	LogAction   LogType = "action"
	LogError    LogType = "error"
	LogSystem   LogType = "system"
	LogScroll   LogType = "scroll"
	LogSecurity LogType = "security"
)

// SystemUsername is the username recorded on log entries with no
// acting user.
const SystemUsername = "System"

// MaxLogEntries bounds the system log. The collection is truncated to
// the most recent MaxLogEntries on every insert; the oldest entries
// are dropped.
const MaxLogEntries = 1000

// LogEntry is an append-only record of a system event.
type LogEntry struct {
	// ID is the unique identifier of the entry.
	ID string `json:"id"`

	// Timestamp is the event time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Type classifies the event.
	Type LogType `json:"type"`

	// Username is the acting user, or SystemUsername.
	Username string `json:"username"`

	// Message is the human-readable event description.
	Message string `json:"message"`

	// Details carries optional free-form context.
	Details string `json:"details,omitempty"`
}

package domain

// Message roles on the chat wire format
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of the history sent to the backend.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a chat turn sent to the backend.
type ChatRequest struct {
	Query   string        `json:"query"`
	History []ChatMessage `json:"history"`
}

// Source is a document the backend cites as evidence for an answer.
type Source struct {
	Filename string         `json:"filename"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ChatAnswer is the backend's response to a chat turn.
type ChatAnswer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Turn is one (user message, assistant reply) pair of a conversation.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Transcript is the ordered chat history shown to the user and replayed to
// the backend on each turn. It is threaded through chat calls as an explicit
// value and never held in ambient server state.
type Transcript []Turn

// History flattens the transcript into the wire format: 2N alternating
// user/assistant entries for N turns, in original order.
func (t Transcript) History() []ChatMessage {
	history := make([]ChatMessage, 0, 2*len(t))
	for _, turn := range t {
		history = append(history,
			ChatMessage{Role: RoleUser, Content: turn.User},
			ChatMessage{Role: RoleAssistant, Content: turn.Assistant},
		)
	}
	return history
}

// Append returns the transcript extended with one turn. The receiver is not
// shared with the result beyond the usual slice aliasing, so callers treat
// the return value as the new transcript.
func (t Transcript) Append(user, assistant string) Transcript {
	return append(t, Turn{User: user, Assistant: assistant})
}

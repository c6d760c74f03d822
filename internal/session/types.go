package session

// Role tags a turn with who produced it.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message exchanged in the conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// View is the client-facing snapshot of a session. The credential is never
// included, only whether one is set.
type View struct {
	SessionID     string `json:"session_id"`
	Turns         []Turn `json:"turns"`
	HasCredential bool   `json:"has_credential"`
}

package models

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleHidden turns carry machine-readable action results for the model
	// only. They are never part of the visible transcript.
	RoleHidden Role = "hidden"
)

// Turn is one entry of a chat history.
type Turn struct {
	Role    Role   `json:"role" example:"user"`
	Content string `json:"content" example:"what's trending this week?"`
}

// Visible reports whether the turn belongs in the user-facing transcript.
func (t Turn) Visible() bool {
	return t.Role == RoleUser || t.Role == RoleAssistant
}

// VisibleTurns filters history down to the user-facing transcript.
func VisibleTurns(history []Turn) []Turn {
	out := make([]Turn, 0, len(history))
	for _, t := range history {
		if t.Visible() {
			out = append(out, t)
		}
	}
	return out
}

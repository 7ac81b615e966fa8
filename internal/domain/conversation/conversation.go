// Package conversation models the multi-turn chat transcript between the user
// and the planning assistant
package conversation

// Roles used by the generative-text service for transcript turns
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is a single chat turn. IsUser distinguishes user turns from
// assistant turns; the transcript is append-only from the UI's perspective.
type Message struct {
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

// Role returns the upstream role tag for this message
func (m Message) Role() string {
	if m.IsUser {
		return RoleUser
	}
	return RoleModel
}

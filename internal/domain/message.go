package domain

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript turn, encoded as the completion endpoint expects
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

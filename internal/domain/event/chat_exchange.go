package event

const ChatExchangeEventType = "ChatExchangeEvent"

type ChatExchangeEvent struct {
	ChatID    string `json:"chat_id"`
	Kind      string `json:"kind"` // message or routine
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

func (e *ChatExchangeEvent) EventType() string {
	return ChatExchangeEventType
}

func (e *ChatExchangeEvent) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}

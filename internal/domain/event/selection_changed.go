package event

const SelectionChangedEventType = "SelectionChangedEvent"

type SelectionChangedEvent struct {
	VisitorID string   `json:"visitor_id"`
	Action    string   `json:"action"` // toggle, remove, clear
	Product   string   `json:"product,omitempty"`
	Names     []string `json:"names"` // Selection after the change
}

func (e *SelectionChangedEvent) EventType() string {
	return SelectionChangedEventType
}

func (e *SelectionChangedEvent) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}

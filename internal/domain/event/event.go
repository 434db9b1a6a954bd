package event

import "encoding/json"

type Event interface {
	EventType() string
	EventValue() ([]byte, error)
}

// DefaultEventValue provides a common implementation for EventValue
func DefaultEventValue(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}

func UnmarshalEvent[T Event](event []byte) (T, error) {
	var e T
	err := json.Unmarshal(event, &e)
	return e, err
}

// EventTypes lists every stream the feed writes to
var EventTypes = []string{
	SelectionChangedEventType,
	ChatExchangeEventType,
}

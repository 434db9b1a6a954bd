package selection

import (
	"errors"
	"fmt"
	"strings"

	"beauty/advisor/internal/domain"
)

var ErrUnknownAction = errors.New("unknown action")

// Action is a UI event expressed as a value
type Action interface {
	ActionType() string
}

// Toggle flips a product between selected and unselected
type Toggle struct{ Name string }

// Remove forces a product to unselected
type Remove struct{ Name string }

// Clear unselects everything
type Clear struct{}

// ToggleDescription expands or collapses one card's description
type ToggleDescription struct{ Name string }

type SetCategory struct{ Category domain.Category }

type SetSearch struct{ Term string }

func (Toggle) ActionType() string            { return "toggle" }
func (Remove) ActionType() string            { return "remove" }
func (Clear) ActionType() string             { return "clear" }
func (ToggleDescription) ActionType() string { return "toggle_description" }
func (SetCategory) ActionType() string       { return "set_category" }
func (SetSearch) ActionType() string         { return "set_search" }

// ParseAction builds an action from its wire form
func ParseAction(kind, name, value string) (Action, error) {
	switch strings.TrimSpace(kind) {
	case "toggle":
		return Toggle{Name: name}, nil
	case "remove":
		return Remove{Name: name}, nil
	case "clear":
		return Clear{}, nil
	case "toggle_description":
		return ToggleDescription{Name: name}, nil
	case "set_category":
		return SetCategory{Category: domain.Category(value)}, nil
	case "set_search":
		return SetSearch{Term: value}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
}

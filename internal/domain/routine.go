package domain

import (
	"time"

	"github.com/google/uuid"
)

// Routine is an assistant reply to a routine request, kept for the archive
type Routine struct {
	ID        uuid.UUID `json:"id"`
	VisitorID string    `json:"visitor_id"`
	Products  []string  `json:"products"` // Selected product names at request time
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

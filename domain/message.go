package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event.
// Empty content is accepted, matching upstream behavior.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Channel   string    `json:"channel"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

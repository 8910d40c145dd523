package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one entry of the append-only conversation log. Messages are
// immutable once appended; the only log mutation is a full clear.
type ChatMessage struct {
	Id         uuid.UUID
	Chat       string
	Role       string
	CreatedAt  time.Time
	References []ProductRef
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a transient user-facing notice pushed over the websocket
// hub. Nothing here is persisted.
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	TypeCode  string                 `json:"type_code"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

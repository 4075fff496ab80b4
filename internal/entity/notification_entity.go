package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient toast. An empty SessionId means every
// connected operator should see it.
type Notification struct {
	Id        uuid.UUID        `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	SessionId string           `json:"session_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

package models

import "time"

type UserEventType string

const (
	UserCreated UserEventType = "user_created"
	UserUpdated UserEventType = "user_updated"
	UserDeleted UserEventType = "user_deleted"
)

// UserEvent is pushed to live feed subscribers after a successful write.
type UserEvent struct {
	Type   UserEventType `json:"type"`
	UserID int64         `json:"user_id"`
	At     time.Time     `json:"at"`
}

package notification

import "time"

// Notification is an activity message addressed to one user
type Notification struct {
	ID                int64     `json:"id"`
	RecipientID       int64     `json:"recipient_id"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty"`
	RelatedEntityID   *int64    `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Entity types referenced by notifications
const (
	EntityExpense = "EXPENSE"
	EntityGroup   = "GROUP"
	EntityUser    = "USER"
)

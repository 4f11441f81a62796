package group

import "time"

// Group is a named set of users created by one of them
type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupMember records that UserID belongs to GroupID and who added them.
// Membership is one-way: there is no removal.
type GroupMember struct {
	ID      int64     `json:"id"`
	GroupID int64     `json:"group_id"`
	UserID  int64     `json:"user_id"`
	AddedBy int64     `json:"added_by"`
	AddedAt time.Time `json:"added_at"`

	// Populated from JOIN
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

package group

import (
	"strings"

	"github.com/fkhayef/splitledger/internal/apperr"
)

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// Validate trims the name and checks its length
func (r *CreateGroupRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return apperr.Invalid("name", "is required")
	}
	if len(r.Name) > 100 {
		return apperr.Invalid("name", "must be at most 100 characters")
	}
	return nil
}

// AddMemberRequest represents the request to add a member to a group
type AddMemberRequest struct {
	UserID int64 `json:"user_id"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	CreatedBy int64             `json:"created_by"`
	CreatedAt string            `json:"created_at"`
	Members   []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents a member in a group response
type MemberResponse struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	AddedBy int64  `json:"added_by"`
	AddedAt string `json:"added_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a GroupMember model to a MemberResponse DTO
func (m *GroupMember) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:      m.ID,
		UserID:  m.UserID,
		Name:    m.Name,
		Email:   m.Email,
		AddedBy: m.AddedBy,
		AddedAt: m.AddedAt.Format("2006-01-02T15:04:05Z"),
	}
}

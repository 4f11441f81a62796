package friend

// AddFriendRequest represents the request body for adding a friend
type AddFriendRequest struct {
	FriendID int64 `json:"friend_id"`
}

// FriendResponse represents one entry of a friends list
type FriendResponse struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts a Friendship to the friend it points at
func (f *Friendship) ToResponse() *FriendResponse {
	return &FriendResponse{
		UserID:    f.FriendUserID,
		Name:      f.FriendName,
		Email:     f.FriendEmail,
		CreatedAt: f.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

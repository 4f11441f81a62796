package friend

import "time"

// Friendship is a directed pair: UserID lists FriendUserID as a friend.
type Friendship struct {
	UserID       int64     `json:"user_id"`
	FriendUserID int64     `json:"friend_user_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Populated from JOIN
	FriendName  string `json:"friend_name,omitempty"`
	FriendEmail string `json:"friend_email,omitempty"`
}

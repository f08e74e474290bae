package models

import (
	"time"

	"github.com/vigorfit/vigor/internal/constants"
)

// Friendship is a directed edge between two users. At most one pending edge
// exists per ordered (sender, receiver) pair. Once accepted, the query layer
// treats the edge as symmetric. Rejected is terminal; re-requesting requires
// a fresh edge.
type Friendship struct {
	ID         string                 `json:"id"`
	SenderID   string                 `json:"sender_id"`
	ReceiverID string                 `json:"receiver_id"`
	Status     constants.FriendStatus `json:"status"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// OtherUser returns the participant that is not viewerID.
func (f Friendship) OtherUser(viewerID string) string {
	if f.SenderID == viewerID {
		return f.ReceiverID
	}
	return f.SenderID
}

// Involves reports whether userID participates in the edge.
func (f Friendship) Involves(userID string) bool {
	return f.SenderID == userID || f.ReceiverID == userID
}

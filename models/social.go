package models

import "time"

type RSVP struct {
	RSVPID        string    `json:"rsvpid" bson:"rsvpid"`
	UserID        string    `json:"user_id" bson:"user_id"`
	EventID       string    `json:"event_id" bson:"event_id"`
	RSVPAt        time.Time `json:"rsvp_at" bson:"rsvp_at"`
	CalendarAdded bool      `json:"calendar_added" bson:"calendar_added"`
}

// Friendship statuses
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is a directed record; the logical relationship between two
// users is derived by checking both directions.
type Friendship struct {
	FriendshipID string    `json:"friendshipid" bson:"friendshipid"`
	RequesterID  string    `json:"user_id" bson:"user_id"`
	RecipientID  string    `json:"friend_id" bson:"friend_id"`
	Status       string    `json:"status" bson:"status"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Comment belongs to one event and one author. ParentID, when set, names the
// top-level comment this record replies to. Older records instead carry the
// legacy "@reply:<parentid>|" content prefix, which readers still accept.
type Comment struct {
	CommentID string    `json:"commentid" bson:"commentid"`
	EventID   string    `json:"event_id" bson:"event_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Content   string    `json:"content" bson:"content"`
	ParentID  string    `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

package models

import "context"

// Store interfaces decouple handlers from MongoDB so tests can substitute
// in-memory fakes. The mongo-backed implementations live in the db package.

type EventStore interface {
	List(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, eventID string) (Event, error)
	Insert(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, eventID string) error
}

type UserStore interface {
	Get(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Insert(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	// AdjustCounters applies deltas to the lifetime hosted/attended counters.
	// The attended counter never goes below zero.
	AdjustCounters(ctx context.Context, userID string, hostedDelta, attendedDelta int) error
}

type RSVPStore interface {
	// Find returns the RSVP for the (event, user) pair, or nil when absent.
	// Implementations must use an indexed lookup, not a full scan.
	Find(ctx context.Context, eventID, userID string) (*RSVP, error)
	ListByEvent(ctx context.Context, eventID string) ([]RSVP, error)
	ListByUser(ctx context.Context, userID string) ([]RSVP, error)
	ListByUsers(ctx context.Context, userIDs []string) ([]RSVP, error)
	Insert(ctx context.Context, r RSVP) error
	Delete(ctx context.Context, rsvpID string) error
}

type FriendshipStore interface {
	// FindBetween returns the record linking the two users in either
	// direction, or nil when none exists.
	FindBetween(ctx context.Context, userA, userB string) (*Friendship, error)
	ListForUser(ctx context.Context, userID string) ([]Friendship, error)
	Get(ctx context.Context, friendshipID string) (Friendship, error)
	Insert(ctx context.Context, f Friendship) error
	Update(ctx context.Context, f Friendship) error
	Delete(ctx context.Context, friendshipID string) error
}

type CommentStore interface {
	ListByEvent(ctx context.Context, eventID string) ([]Comment, error)
	Get(ctx context.Context, commentID string) (Comment, error)
	Insert(ctx context.Context, c Comment) error
	Update(ctx context.Context, c Comment) error
	Delete(ctx context.Context, commentID string) error
}

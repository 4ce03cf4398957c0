package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mapmeet/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("not found")

// Stores bundles the mongo-backed store implementations for injection.
type Stores struct {
	Events      *EventStore
	Users       *UserStore
	RSVPs       *RSVPStore
	Friendships *FriendshipStore
	Comments    *CommentStore
}

func NewStores() *Stores {
	return &Stores{
		Events:      &EventStore{col: EventsCollection},
		Users:       &UserStore{col: UserCollection},
		RSVPs:       &RSVPStore{col: RSVPCollection},
		Friendships: &FriendshipStore{col: FriendshipCollection},
		Comments:    &CommentStore{col: CommentsCollection},
	}
}

// --- Events ---

type EventStore struct {
	col *mongo.Collection
}

// List returns every event in store order; the feed builder relies on that
// order being preserved.
func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	cursor, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventStore) Get(ctx context.Context, eventID string) (models.Event, error) {
	var event models.Event
	err := s.col.FindOne(ctx, bson.M{"eventid": eventID}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return models.Event{}, ErrNotFound
	}
	return event, err
}

func (s *EventStore) Insert(ctx context.Context, e models.Event) error {
	_, err := s.col.InsertOne(ctx, e)
	return err
}

func (s *EventStore) Update(ctx context.Context, e models.Event) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"eventid": e.EventID}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EventStore) Delete(ctx context.Context, eventID string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"eventid": eventID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Users ---

type UserStore struct {
	col *mongo.Collection
}

func (s *UserStore) Get(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *UserStore) Insert(ctx context.Context, u models.User) error {
	_, err := s.col.InsertOne(ctx, u)
	return err
}

func (s *UserStore) Update(ctx context.Context, u models.User) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"userid": u.UserID}, u)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) AdjustCounters(ctx context.Context, userID string, hostedDelta, attendedDelta int) error {
	update := bson.M{"$inc": bson.M{
		"events_hosted_count":   hostedDelta,
		"events_attended_count": attendedDelta,
	}}
	res, err := s.col.UpdateOne(ctx, bson.M{"userid": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	// clamp the attended counter at zero after a decrement
	if attendedDelta < 0 {
		_, err = s.col.UpdateOne(ctx,
			bson.M{"userid": userID, "events_attended_count": bson.M{"$lt": 0}},
			bson.M{"$set": bson.M{"events_attended_count": 0}},
		)
	}
	return err
}

// --- RSVPs ---

type RSVPStore struct {
	col *mongo.Collection
}

// Find uses the (event_id, user_id) index; never a full scan.
func (s *RSVPStore) Find(ctx context.Context, eventID, userID string) (*models.RSVP, error) {
	var rsvp models.RSVP
	err := s.col.FindOne(ctx, bson.M{"event_id": eventID, "user_id": userID}).Decode(&rsvp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (s *RSVPStore) ListByEvent(ctx context.Context, eventID string) ([]models.RSVP, error) {
	return s.list(ctx, bson.M{"event_id": eventID})
}

func (s *RSVPStore) ListByUser(ctx context.Context, userID string) ([]models.RSVP, error) {
	return s.list(ctx, bson.M{"user_id": userID})
}

func (s *RSVPStore) ListByUsers(ctx context.Context, userIDs []string) ([]models.RSVP, error) {
	if len(userIDs) == 0 {
		return []models.RSVP{}, nil
	}
	return s.list(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
}

func (s *RSVPStore) list(ctx context.Context, filter bson.M) ([]models.RSVP, error) {
	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rsvps []models.RSVP
	if err := cursor.All(ctx, &rsvps); err != nil {
		return nil, err
	}
	return rsvps, nil
}

func (s *RSVPStore) Insert(ctx context.Context, r models.RSVP) error {
	_, err := s.col.InsertOne(ctx, r)
	return err
}

func (s *RSVPStore) Delete(ctx context.Context, rsvpID string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"rsvpid": rsvpID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Friendships ---

type FriendshipStore struct {
	col *mongo.Collection
}

func (s *FriendshipStore) FindBetween(ctx context.Context, userA, userB string) (*models.Friendship, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"user_id": userA, "friend_id": userB},
		bson.M{"user_id": userB, "friend_id": userA},
	}}
	var f models.Friendship
	err := s.col.FindOne(ctx, filter).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *FriendshipStore) ListForUser(ctx context.Context, userID string) ([]models.Friendship, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"user_id": userID},
		bson.M{"friend_id": userID},
	}}
	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var friendships []models.Friendship
	if err := cursor.All(ctx, &friendships); err != nil {
		return nil, err
	}
	return friendships, nil
}

func (s *FriendshipStore) Get(ctx context.Context, friendshipID string) (models.Friendship, error) {
	var f models.Friendship
	err := s.col.FindOne(ctx, bson.M{"friendshipid": friendshipID}).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return models.Friendship{}, ErrNotFound
	}
	return f, err
}

func (s *FriendshipStore) Insert(ctx context.Context, f models.Friendship) error {
	_, err := s.col.InsertOne(ctx, f)
	return err
}

func (s *FriendshipStore) Update(ctx context.Context, f models.Friendship) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"friendshipid": f.FriendshipID}, f)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FriendshipStore) Delete(ctx context.Context, friendshipID string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"friendshipid": friendshipID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Comments ---

type CommentStore struct {
	col *mongo.Collection
}

func (s *CommentStore) ListByEvent(ctx context.Context, eventID string) ([]models.Comment, error) {
	cursor, err := s.col.Find(ctx, bson.M{"event_id": eventID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *CommentStore) Get(ctx context.Context, commentID string) (models.Comment, error) {
	var c models.Comment
	err := s.col.FindOne(ctx, bson.M{"commentid": commentID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Comment{}, ErrNotFound
	}
	return c, err
}

func (s *CommentStore) Insert(ctx context.Context, c models.Comment) error {
	_, err := s.col.InsertOne(ctx, c)
	return err
}

func (s *CommentStore) Update(ctx context.Context, c models.Comment) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"commentid": c.CommentID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CommentStore) Delete(ctx context.Context, commentID string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"commentid": commentID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

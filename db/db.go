package db

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	Client *mongo.Client

	UserCollection       *mongo.Collection
	EventsCollection     *mongo.Collection
	RSVPCollection       *mongo.Collection
	FriendshipCollection *mongo.Collection
	CommentsCollection   *mongo.Collection
)

// Init connects to MongoDB and binds the collection handles.
func Init(ctx context.Context) error {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	Client = client

	database := client.Database("mapmeetdb")
	UserCollection = database.Collection("users")
	EventsCollection = database.Collection("events")
	RSVPCollection = database.Collection("rsvps")
	FriendshipCollection = database.Collection("friendships")
	CommentsCollection = database.Collection("comments")

	return ensureIndexes(ctx)
}

// ensureIndexes backs the indexed RSVP lookup and the per-event comment
// listing. The (event, user) RSVP pair stays unique by application logic
// only, so the index is not unique.
func ensureIndexes(ctx context.Context) error {
	_, err := RSVPCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "user_id", Value: 1}},
	})
	if err != nil {
		return err
	}
	_, err = CommentsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "event_id", Value: 1}},
	})
	if err != nil {
		return err
	}
	_, err = EventsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "eventid", Value: 1}},
	})
	return err
}

// Close disconnects the client with a short deadline.
func Close() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = Client.Disconnect(ctx)
}

package mongo

import (
	"context"
	"time"

	"alcyxob/peer-review/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// Collection names
const (
	projectCollectionName      = "projects"
	reviewCollectionName       = "reviews"
	assignmentCollectionName   = "reviewer_assignments"
	decisionCollectionName     = "teacher_decisions"
	replyCollectionName        = "review_replies"
	notificationCollectionName = "notifications"
	activityCollectionName     = "activity_events"
	userCollectionName         = "users"
)

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		// If ping fails, disconnect the client before returning the error
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires every Mongo-backed repository against db. Transactions need
// the server to run as a replica set.
func NewStore(client *mongo.Client, db *mongo.Database) *repository.Store {
	return &repository.Store{
		Transactor:    NewTransactor(client),
		Projects:      NewMongoProjectRepository(db),
		Reviews:       NewMongoReviewRepository(db),
		Assignments:   NewMongoAssignmentRepository(db),
		Decisions:     NewMongoTeacherDecisionRepository(db),
		Replies:       NewMongoReviewReplyRepository(db),
		Notifications: NewMongoNotificationRepository(db),
		Activity:      NewMongoActivityRepository(db),
		Users:         NewMongoUserRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection, including the unique
// indexes that back the one-review-per-reviewer, one-assignment-per-reviewer
// and one-decision-per-project rules.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, indexes := range collectionIndexes() {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return err
		}
	}
	return nil
}

func collectionIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		projectCollectionName: {
			{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index()},
		},
		reviewCollectionName: {
			{
				Keys:    bson.D{{Key: "projectId", Value: 1}, {Key: "reviewer", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		assignmentCollectionName: {
			{
				Keys:    bson.D{{Key: "projectId", Value: 1}, {Key: "reviewer", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		decisionCollectionName: {
			{Keys: bson.D{{Key: "projectId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		replyCollectionName: {
			{Keys: bson.D{{Key: "reviewId", Value: 1}, {Key: "createdAt", Value: 1}}, Options: options.Index()},
		},
		notificationCollectionName: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index()},
		},
		activityCollectionName: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index()},
		},
		userCollectionName: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
}

// findAll runs filter against collection and decodes every match.
func findAll[T any](ctx context.Context, collection *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// insertionOrder sorts by _id, which for ObjectIDs follows creation time.
func insertionOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

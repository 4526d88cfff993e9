package mongo

import (
	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoActivityRepository implements repository.ActivityRepository
type mongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new activity timeline repository backed by MongoDB.
func NewMongoActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &mongoActivityRepository{
		collection: db.Collection(activityCollectionName),
	}
}

// Create appends a timeline event. Events are never updated afterwards.
func (r *mongoActivityRepository) Create(ctx context.Context, event *domain.ActivityEvent) (primitive.ObjectID, error) {
	if event.Action == "" {
		return primitive.NilObjectID, errors.New("activity event requires an action")
	}

	event.ID = primitive.NewObjectID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted activity ID")
	}
	return insertedID, nil
}

// List retrieves every event. Ordering is left to the caller.
func (r *mongoActivityRepository) List(ctx context.Context) ([]domain.ActivityEvent, error) {
	return findAll[domain.ActivityEvent](ctx, r.collection, bson.M{})
}

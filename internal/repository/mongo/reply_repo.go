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

// mongoReviewReplyRepository implements repository.ReviewReplyRepository
type mongoReviewReplyRepository struct {
	collection *mongo.Collection
}

// NewMongoReviewReplyRepository creates a new ReviewReply repository backed by MongoDB.
func NewMongoReviewReplyRepository(db *mongo.Database) repository.ReviewReplyRepository {
	return &mongoReviewReplyRepository{
		collection: db.Collection(replyCollectionName),
	}
}

// Create appends a reply.
func (r *mongoReviewReplyRepository) Create(ctx context.Context, reply *domain.ReviewReply) (primitive.ObjectID, error) {
	if reply.ReviewID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("reply requires reviewId")
	}

	reply.ID = primitive.NewObjectID()
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, reply)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted reply ID")
	}
	return insertedID, nil
}

// List retrieves every reply. Ordering is left to the caller.
func (r *mongoReviewReplyRepository) List(ctx context.Context) ([]domain.ReviewReply, error) {
	return findAll[domain.ReviewReply](ctx, r.collection, bson.M{})
}

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

// mongoReviewRepository implements repository.ReviewRepository
type mongoReviewRepository struct {
	collection *mongo.Collection
}

// NewMongoReviewRepository creates a new Review repository backed by MongoDB.
func NewMongoReviewRepository(db *mongo.Database) repository.ReviewRepository {
	return &mongoReviewRepository{
		collection: db.Collection(reviewCollectionName),
	}
}

// Create inserts a review. The unique (projectId, reviewer) index turns a
// concurrent second review into repository.ErrDuplicate.
func (r *mongoReviewRepository) Create(ctx context.Context, review *domain.Review) (primitive.ObjectID, error) {
	if review.ProjectID == primitive.NilObjectID || review.Reviewer == "" {
		return primitive.NilObjectID, errors.New("review requires projectId and reviewer")
	}

	review.ID = primitive.NewObjectID()
	if review.SubmittedAt.IsZero() {
		review.SubmittedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted review ID")
	}
	return insertedID, nil
}

// GetByID retrieves a review by its ID.
func (r *mongoReviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	var review domain.Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// GetByProjectID retrieves all reviews of a project in submission order.
func (r *mongoReviewRepository) GetByProjectID(ctx context.Context, projectID primitive.ObjectID) ([]domain.Review, error) {
	return findAll[domain.Review](ctx, r.collection, bson.M{"projectId": projectID}, insertionOrder())
}

// ExistsByProjectAndReviewer reports whether reviewer already reviewed the project.
func (r *mongoReviewRepository) ExistsByProjectAndReviewer(ctx context.Context, projectID primitive.ObjectID, reviewer string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"projectId": projectID, "reviewer": reviewer})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves every review.
func (r *mongoReviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	return findAll[domain.Review](ctx, r.collection, bson.M{}, insertionOrder())
}

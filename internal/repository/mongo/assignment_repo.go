package mongo

import (
	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// DeleteByProjectID removes every reviewer assignment of a project.
func (r *mongoAssignmentRepository) DeleteByProjectID(ctx context.Context, projectID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"projectId": projectID})
	return err
}

// CreateMany inserts assignments, assigning fresh IDs.
func (r *mongoAssignmentRepository) CreateMany(ctx context.Context, assignments []domain.ReviewerAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	docs := make([]interface{}, len(assignments))
	for i := range assignments {
		if assignments[i].ProjectID == primitive.NilObjectID || assignments[i].Reviewer == "" {
			return errors.New("assignment requires projectId and reviewer")
		}
		assignments[i].ID = primitive.NewObjectID()
		docs[i] = assignments[i]
	}

	_, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// List retrieves every assignment in insertion order.
func (r *mongoAssignmentRepository) List(ctx context.Context) ([]domain.ReviewerAssignment, error) {
	return findAll[domain.ReviewerAssignment](ctx, r.collection, bson.M{}, insertionOrder())
}

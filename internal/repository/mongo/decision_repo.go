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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoTeacherDecisionRepository implements repository.TeacherDecisionRepository
type mongoTeacherDecisionRepository struct {
	collection *mongo.Collection
}

// NewMongoTeacherDecisionRepository creates a new TeacherDecision repository backed by MongoDB.
func NewMongoTeacherDecisionRepository(db *mongo.Database) repository.TeacherDecisionRepository {
	return &mongoTeacherDecisionRepository{
		collection: db.Collection(decisionCollectionName),
	}
}

// GetByProjectID retrieves the decision of a project.
func (r *mongoTeacherDecisionRepository) GetByProjectID(ctx context.Context, projectID primitive.ObjectID) (*domain.TeacherDecision, error) {
	var decision domain.TeacherDecision
	err := r.collection.FindOne(ctx, bson.M{"projectId": projectID}).Decode(&decision)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &decision, nil
}

// Upsert writes the decision keyed by project. An existing decision keeps its
// ID; every other field, including SubmittedAt, is overwritten.
func (r *mongoTeacherDecisionRepository) Upsert(ctx context.Context, decision *domain.TeacherDecision) error {
	if decision.ProjectID == primitive.NilObjectID {
		return errors.New("teacher decision requires projectId")
	}
	if decision.SubmittedAt.IsZero() {
		decision.SubmittedAt = time.Now().UTC()
	}

	filter := bson.M{"projectId": decision.ProjectID}
	update := bson.M{
		"$set": bson.M{
			"action":               decision.Action,
			"comment":              decision.Comment,
			"finalScore":           decision.FinalScore,
			"completionPercentage": decision.CompletionPercentage,
			"submittedAt":          decision.SubmittedAt,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved domain.TeacherDecision
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	*decision = saved
	return nil
}

// List retrieves every decision.
func (r *mongoTeacherDecisionRepository) List(ctx context.Context) ([]domain.TeacherDecision, error) {
	return findAll[domain.TeacherDecision](ctx, r.collection, bson.M{}, insertionOrder())
}

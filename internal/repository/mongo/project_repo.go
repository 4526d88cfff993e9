package mongo

import (
	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoProjectRepository implements repository.ProjectRepository
type mongoProjectRepository struct {
	collection *mongo.Collection
}

// NewMongoProjectRepository creates a new Project repository backed by MongoDB.
func NewMongoProjectRepository(db *mongo.Database) repository.ProjectRepository {
	return &mongoProjectRepository{
		collection: db.Collection(projectCollectionName),
	}
}

// Create inserts a new project. Status defaults to PENDING_REVIEW.
func (r *mongoProjectRepository) Create(ctx context.Context, project *domain.Project) (primitive.ObjectID, error) {
	if project.Title == "" || project.Author == "" {
		return primitive.NilObjectID, errors.New("project requires title and author")
	}

	project.ID = primitive.NewObjectID()
	if project.SubmittedAt.IsZero() {
		project.SubmittedAt = time.Now().UTC()
	}
	if project.Status == "" {
		project.Status = domain.StatusPendingReview
	}
	if project.Files == nil {
		project.Files = []domain.FileAttachment{}
	}

	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted project ID")
	}
	return insertedID, nil
}

// GetByID retrieves a project by its ID.
func (r *mongoProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	var project domain.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List returns projects matching filter in upload order. A search term matches
// title or author as a case-insensitive substring and takes precedence over
// the status filter.
func (r *mongoProjectRepository) List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	return findAll[domain.Project](ctx, r.collection, projectQuery(filter), insertionOrder())
}

// Update replaces the stored project. SubmittedAt is never changed.
func (r *mongoProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if project.ID == primitive.NilObjectID {
		return errors.New("project ID is required for update")
	}

	updateFields := bson.M{
		"title":       project.Title,
		"author":      project.Author,
		"description": project.Description,
		"files":       project.Files,
		"status":      project.Status,
	}
	unsetFields := bson.M{}
	setOrUnset(updateFields, unsetFields, "rating", project.Rating)
	setOrUnset(updateFields, unsetFields, "finalScore", project.FinalScore)
	setOrUnset(updateFields, unsetFields, "completionPercentage", project.CompletionPercentage)

	update := bson.M{"$set": updateFields}
	if len(unsetFields) > 0 {
		update["$unset"] = unsetFields
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": project.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// setOrUnset puts a nullable field into $set, or into $unset when it is nil.
func setOrUnset[T any](set, unset bson.M, key string, value *T) {
	if value == nil {
		unset[key] = ""
		return
	}
	set[key] = *value
}

func projectQuery(filter domain.ProjectFilter) bson.M {
	query := bson.M{}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"author": pattern},
		}
	} else if filter.Status != nil {
		query["status"] = *filter.Status
	}
	return query
}

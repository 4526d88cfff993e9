package memory

import (
	"context"
	"errors"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type assignmentRepository struct {
	db *DB
}

func (repo *assignmentRepository) DeleteByProjectID(ctx context.Context, projectID primitive.ObjectID) error {
	return repo.db.write(ctx, func(t *tables) error {
		kept := t.assignments[:0:0]
		for _, a := range t.assignments {
			if a.ProjectID != projectID {
				kept = append(kept, a)
			}
		}
		t.assignments = kept
		return nil
	})
}

func (repo *assignmentRepository) CreateMany(ctx context.Context, assignments []domain.ReviewerAssignment) error {
	return repo.db.write(ctx, func(t *tables) error {
		taken := make(map[reviewerKey]struct{}, len(t.assignments)+len(assignments))
		for _, a := range t.assignments {
			taken[reviewerKey{projectID: a.ProjectID, reviewer: a.Reviewer}] = struct{}{}
		}
		for _, a := range assignments {
			if a.ProjectID == primitive.NilObjectID || a.Reviewer == "" {
				return errors.New("assignment requires projectId and reviewer")
			}
			key := reviewerKey{projectID: a.ProjectID, reviewer: a.Reviewer}
			if _, dup := taken[key]; dup {
				return repository.ErrDuplicate
			}
			taken[key] = struct{}{}
		}
		for i := range assignments {
			assignments[i].ID = primitive.NewObjectID()
			t.assignments = append(t.assignments, assignments[i])
		}
		return nil
	})
}

func (repo *assignmentRepository) List(ctx context.Context) ([]domain.ReviewerAssignment, error) {
	var assignments []domain.ReviewerAssignment
	err := repo.db.read(ctx, func(t *tables) error {
		assignments = append([]domain.ReviewerAssignment{}, t.assignments...)
		return nil
	})
	return assignments, err
}

package memory

import (
	"context"
	"errors"
	"time"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type decisionRepository struct {
	db *DB
}

func (repo *decisionRepository) GetByProjectID(ctx context.Context, projectID primitive.ObjectID) (*domain.TeacherDecision, error) {
	var found *domain.TeacherDecision
	err := repo.db.read(ctx, func(t *tables) error {
		d, ok := t.decisions[projectID]
		if !ok {
			return repository.ErrNotFound
		}
		found = &d
		return nil
	})
	return found, err
}

func (repo *decisionRepository) Upsert(ctx context.Context, decision *domain.TeacherDecision) error {
	if decision.ProjectID == primitive.NilObjectID {
		return errors.New("teacher decision requires projectId")
	}
	if decision.SubmittedAt.IsZero() {
		decision.SubmittedAt = time.Now().UTC()
	}
	return repo.db.write(ctx, func(t *tables) error {
		if existing, ok := t.decisions[decision.ProjectID]; ok {
			decision.ID = existing.ID
		} else {
			decision.ID = primitive.NewObjectID()
			t.decisionOrder = append(t.decisionOrder, decision.ProjectID)
		}
		t.decisions[decision.ProjectID] = *decision
		return nil
	})
}

func (repo *decisionRepository) List(ctx context.Context) ([]domain.TeacherDecision, error) {
	decisions := []domain.TeacherDecision{}
	err := repo.db.read(ctx, func(t *tables) error {
		for _, projectID := range t.decisionOrder {
			decisions = append(decisions, t.decisions[projectID])
		}
		return nil
	})
	return decisions, err
}

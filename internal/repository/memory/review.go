package memory

import (
	"context"
	"errors"
	"time"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reviewRepository struct {
	db *DB
}

func (repo *reviewRepository) Create(ctx context.Context, review *domain.Review) (primitive.ObjectID, error) {
	if review.ProjectID == primitive.NilObjectID || review.Reviewer == "" {
		return primitive.NilObjectID, errors.New("review requires projectId and reviewer")
	}

	key := reviewerKey{projectID: review.ProjectID, reviewer: review.Reviewer}
	err := repo.db.write(ctx, func(t *tables) error {
		if _, exists := t.reviewKeys[key]; exists {
			return repository.ErrDuplicate
		}
		review.ID = primitive.NewObjectID()
		if review.SubmittedAt.IsZero() {
			review.SubmittedAt = time.Now().UTC()
		}
		t.reviewKeys[key] = struct{}{}
		t.reviews = append(t.reviews, *review)
		return nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return review.ID, nil
}

func (repo *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	var found *domain.Review
	err := repo.db.read(ctx, func(t *tables) error {
		for _, r := range t.reviews {
			if r.ID == id {
				r := r
				found = &r
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (repo *reviewRepository) GetByProjectID(ctx context.Context, projectID primitive.ObjectID) ([]domain.Review, error) {
	reviews := []domain.Review{}
	err := repo.db.read(ctx, func(t *tables) error {
		for _, r := range t.reviews {
			if r.ProjectID == projectID {
				reviews = append(reviews, r)
			}
		}
		return nil
	})
	return reviews, err
}

func (repo *reviewRepository) ExistsByProjectAndReviewer(ctx context.Context, projectID primitive.ObjectID, reviewer string) (bool, error) {
	var exists bool
	err := repo.db.read(ctx, func(t *tables) error {
		_, exists = t.reviewKeys[reviewerKey{projectID: projectID, reviewer: reviewer}]
		return nil
	})
	return exists, err
}

func (repo *reviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	var reviews []domain.Review
	err := repo.db.read(ctx, func(t *tables) error {
		reviews = append([]domain.Review{}, t.reviews...)
		return nil
	})
	return reviews, err
}

package memory

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type projectRepository struct {
	db *DB
}

func (repo *projectRepository) Create(ctx context.Context, project *domain.Project) (primitive.ObjectID, error) {
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

	err := repo.db.write(ctx, func(t *tables) error {
		t.projects = append(t.projects, copyProject(*project))
		return nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return project.ID, nil
}

func (repo *projectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	var found *domain.Project
	err := repo.db.read(ctx, func(t *tables) error {
		for _, p := range t.projects {
			if p.ID == id {
				cp := copyProject(p)
				found = &cp
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (repo *projectRepository) List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	search := strings.ToLower(filter.Search)
	projects := []domain.Project{}
	err := repo.db.read(ctx, func(t *tables) error {
		for _, p := range t.projects {
			switch {
			case search != "":
				if !strings.Contains(strings.ToLower(p.Title), search) && !strings.Contains(strings.ToLower(p.Author), search) {
					continue
				}
			case filter.Status != nil:
				if p.Status != *filter.Status {
					continue
				}
			}
			projects = append(projects, copyProject(p))
		}
		return nil
	})
	return projects, err
}

func (repo *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	if project.ID == primitive.NilObjectID {
		return errors.New("project ID is required for update")
	}
	return repo.db.write(ctx, func(t *tables) error {
		for i, p := range t.projects {
			if p.ID == project.ID {
				updated := copyProject(*project)
				updated.SubmittedAt = p.SubmittedAt
				t.projects[i] = updated
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

package memory

import (
	"context"
	"errors"
	"time"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	db *DB
}

func (repo *userRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}
	err := repo.db.write(ctx, func(t *tables) error {
		if _, taken := t.users[user.Email]; taken {
			return repository.ErrDuplicate
		}
		user.ID = primitive.NewObjectID()
		user.CreatedAt = time.Now().UTC()
		t.users[user.Email] = *user
		return nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return user.ID, nil
}

func (repo *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var found *domain.User
	err := repo.db.read(ctx, func(t *tables) error {
		u, ok := t.users[email]
		if !ok {
			return repository.ErrNotFound
		}
		found = &u
		return nil
	})
	return found, err
}

package memory

import (
	"context"
	"errors"
	"time"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type replyRepository struct {
	db *DB
}

func (repo *replyRepository) Create(ctx context.Context, reply *domain.ReviewReply) (primitive.ObjectID, error) {
	if reply.ReviewID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("reply requires reviewId")
	}
	reply.ID = primitive.NewObjectID()
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now().UTC()
	}
	err := repo.db.write(ctx, func(t *tables) error {
		t.replies = append(t.replies, *reply)
		return nil
	})
	return reply.ID, err
}

func (repo *replyRepository) List(ctx context.Context) ([]domain.ReviewReply, error) {
	var replies []domain.ReviewReply
	err := repo.db.read(ctx, func(t *tables) error {
		replies = append([]domain.ReviewReply{}, t.replies...)
		return nil
	})
	return replies, err
}

type notificationRepository struct {
	db *DB
}

func (repo *notificationRepository) Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error) {
	notification.ID = primitive.NewObjectID()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	err := repo.db.write(ctx, func(t *tables) error {
		t.notifications = append(t.notifications, *notification)
		return nil
	})
	return notification.ID, err
}

func (repo *notificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	return repo.db.write(ctx, func(t *tables) error {
		for i := range t.notifications {
			if t.notifications[i].ID == id {
				t.notifications[i].Read = true
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

func (repo *notificationRepository) List(ctx context.Context) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := repo.db.read(ctx, func(t *tables) error {
		notifications = append([]domain.Notification{}, t.notifications...)
		return nil
	})
	return notifications, err
}

type activityRepository struct {
	db *DB
}

func (repo *activityRepository) Create(ctx context.Context, event *domain.ActivityEvent) (primitive.ObjectID, error) {
	if event.Action == "" {
		return primitive.NilObjectID, errors.New("activity event requires an action")
	}
	event.ID = primitive.NewObjectID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	err := repo.db.write(ctx, func(t *tables) error {
		t.activity = append(t.activity, *event)
		return nil
	})
	return event.ID, err
}

func (repo *activityRepository) List(ctx context.Context) ([]domain.ActivityEvent, error) {
	var events []domain.ActivityEvent
	err := repo.db.read(ctx, func(t *tables) error {
		events = append([]domain.ActivityEvent{}, t.activity...)
		return nil
	})
	return events, err
}

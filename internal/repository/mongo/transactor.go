package mongo

import (
	"alcyxob/peer-review/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// mongoTransactor implements repository.Transactor with client sessions.
type mongoTransactor struct {
	client *mongo.Client
}

// NewTransactor creates a transactor for client.
func NewTransactor(client *mongo.Client) repository.Transactor {
	return &mongoTransactor{client: client}
}

// WithinTransaction runs fn in a multi-document transaction. The session
// context handed to fn carries the transaction into every repository call.
// The driver may retry fn on transient transaction errors.
func (t *mongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

// Package memory is an in-process entity store. Units of work run against a
// private copy of the tables that replaces the shared tables on commit, so
// readers never observe a half-applied transaction.
package memory

import (
	"context"
	"sync"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type (
	DB struct {
		txMu   sync.Mutex   // serialises writers
		mu     sync.RWMutex // guards tables
		tables *tables
	}

	// reviewerKey emulates a unique (projectId, reviewer) index.
	reviewerKey struct {
		projectID primitive.ObjectID
		reviewer  string
	}

	tables struct {
		projects      []domain.Project
		reviews       []domain.Review
		reviewKeys    map[reviewerKey]struct{}
		assignments   []domain.ReviewerAssignment
		decisions     map[primitive.ObjectID]domain.TeacherDecision // keyed by project
		decisionOrder []primitive.ObjectID
		replies       []domain.ReviewReply
		notifications []domain.Notification
		activity      []domain.ActivityEvent
		users         map[string]domain.User // keyed by email
	}

	txKey struct{}
)

func Open() *DB {
	return &DB{tables: newTables()}
}

// NewStore wires every in-memory repository against db.
func NewStore(db *DB) *repository.Store {
	return &repository.Store{
		Transactor:    db,
		Projects:      &projectRepository{db: db},
		Reviews:       &reviewRepository{db: db},
		Assignments:   &assignmentRepository{db: db},
		Decisions:     &decisionRepository{db: db},
		Replies:       &replyRepository{db: db},
		Notifications: &notificationRepository{db: db},
		Activity:      &activityRepository{db: db},
		Users:         &userRepository{db: db},
	}
}

// WithinTransaction implements repository.Transactor. Transactions are
// serialised; fn works on a copy that is published only if fn succeeds.
func (db *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(txKey{}).(*tables); nested {
		return fn(ctx)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.mu.RLock()
	working := db.tables.clone()
	db.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, working)); err != nil {
		return err
	}

	db.mu.Lock()
	db.tables = working
	db.mu.Unlock()
	return nil
}

// read runs fn against the transaction's tables, or the shared ones under a read lock.
func (db *DB) read(ctx context.Context, fn func(t *tables) error) error {
	if t, ok := ctx.Value(txKey{}).(*tables); ok {
		return fn(t)
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(db.tables)
}

// write runs fn against the transaction's tables, or the shared ones while
// holding both the writer and table locks.
func (db *DB) write(ctx context.Context, fn func(t *tables) error) error {
	if t, ok := ctx.Value(txKey{}).(*tables); ok {
		return fn(t)
	}
	db.txMu.Lock()
	defer db.txMu.Unlock()
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(db.tables)
}

func newTables() *tables {
	return &tables{
		reviewKeys: make(map[reviewerKey]struct{}),
		decisions:  make(map[primitive.ObjectID]domain.TeacherDecision),
		users:      make(map[string]domain.User),
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		projects:      make([]domain.Project, len(t.projects)),
		reviews:       append([]domain.Review(nil), t.reviews...),
		reviewKeys:    make(map[reviewerKey]struct{}, len(t.reviewKeys)),
		assignments:   append([]domain.ReviewerAssignment(nil), t.assignments...),
		decisions:     make(map[primitive.ObjectID]domain.TeacherDecision, len(t.decisions)),
		decisionOrder: append([]primitive.ObjectID(nil), t.decisionOrder...),
		replies:       append([]domain.ReviewReply(nil), t.replies...),
		notifications: append([]domain.Notification(nil), t.notifications...),
		activity:      append([]domain.ActivityEvent(nil), t.activity...),
		users:         make(map[string]domain.User, len(t.users)),
	}
	for i, p := range t.projects {
		c.projects[i] = copyProject(p)
	}
	for k := range t.reviewKeys {
		c.reviewKeys[k] = struct{}{}
	}
	for k, v := range t.decisions {
		c.decisions[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	return c
}

// copyProject detaches a project from the stored one, including its nullable fields.
func copyProject(p domain.Project) domain.Project {
	p.Files = append([]domain.FileAttachment{}, p.Files...)
	p.Rating = copyPtr(p.Rating)
	p.FinalScore = copyPtr(p.FinalScore)
	p.CompletionPercentage = copyPtr(p.CompletionPercentage)
	return p
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

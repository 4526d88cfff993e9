package repository

import (
	"alcyxob/peer-review/internal/domain" // Import our defined domain models
	"context"                             // Standard for request-scoped deadlines, cancellation signals, etc.

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key") // A unique constraint rejected the write
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Transactor runs a unit of work atomically. Repository calls made with the
// ctx passed to fn take part in the transaction; if fn returns an error,
// none of its writes are kept.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProjectRepository defines the interface for interacting with project data.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error)
	List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
}

// ReviewRepository defines the interface for interacting with peer reviews.
type ReviewRepository interface {
	// Create returns ErrDuplicate if the reviewer already reviewed the project.
	Create(ctx context.Context, review *domain.Review) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error)
	GetByProjectID(ctx context.Context, projectID primitive.ObjectID) ([]domain.Review, error)
	ExistsByProjectAndReviewer(ctx context.Context, projectID primitive.ObjectID, reviewer string) (bool, error)
	List(ctx context.Context) ([]domain.Review, error)
}

// AssignmentRepository defines the interface for reviewer assignments.
type AssignmentRepository interface {
	DeleteByProjectID(ctx context.Context, projectID primitive.ObjectID) error
	CreateMany(ctx context.Context, assignments []domain.ReviewerAssignment) error
	List(ctx context.Context) ([]domain.ReviewerAssignment, error)
}

// TeacherDecisionRepository defines the interface for teacher decisions.
type TeacherDecisionRepository interface {
	GetByProjectID(ctx context.Context, projectID primitive.ObjectID) (*domain.TeacherDecision, error)
	// Upsert creates the project's decision or overwrites the existing one in place.
	Upsert(ctx context.Context, decision *domain.TeacherDecision) error
	List(ctx context.Context) ([]domain.TeacherDecision, error)
}

// ReviewReplyRepository defines the interface for review discussion replies.
type ReviewReplyRepository interface {
	Create(ctx context.Context, reply *domain.ReviewReply) (primitive.ObjectID, error)
	List(ctx context.Context) ([]domain.ReviewReply, error)
}

// NotificationRepository defines the interface for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]domain.Notification, error)
}

// ActivityRepository defines the interface for the activity timeline.
type ActivityRepository interface {
	Create(ctx context.Context, event *domain.ActivityEvent) (primitive.ObjectID, error)
	List(ctx context.Context) ([]domain.ActivityEvent, error)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Store bundles every repository of one backend with its transactor.
type Store struct {
	Transactor    Transactor
	Projects      ProjectRepository
	Reviews       ReviewRepository
	Assignments   AssignmentRepository
	Decisions     TeacherDecisionRepository
	Replies       ReviewReplyRepository
	Notifications NotificationRepository
	Activity      ActivityRepository
	Users         UserRepository
}

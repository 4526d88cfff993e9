package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/lifecycle"
	"alcyxob/peer-review/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrReviewNotFound         = errors.New("review not found")
	ErrNotificationNotFound   = errors.New("notification not found")
	ErrReviewAlreadySubmitted = errors.New("you already submitted a review for this project")
	ErrInvalidStatus          = lifecycle.ErrInvalidStatus
	ErrInvalidArgument        = errors.New("invalid argument")
)

// --- Inputs ---

// CreateProjectInput carries an upload request.
type CreateProjectInput struct {
	Title       string
	Author      string
	Description string
	Files       []domain.FileInput
}

// SubmitReviewInput carries one peer review.
type SubmitReviewInput struct {
	Reviewer string
	Rating   int
	Comment  string
}

// TeacherDecisionInput carries a grading decision. TeacherName is optional.
type TeacherDecisionInput struct {
	Action               string
	Comment              string
	FinalScore           int
	CompletionPercentage int
	TeacherName          string
}

// ReviewReplyInput carries a discussion reply.
type ReviewReplyInput struct {
	Author string
	Text   string
}

// DecisionResult is a saved decision together with the project it updated.
type DecisionResult struct {
	Decision domain.TeacherDecision
	Project  domain.Project
}

// --- Service Interface ---
type ProjectService interface {
	ListProjects(ctx context.Context, status, search string) ([]domain.Project, error)
	CreateProject(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	GetReviews(ctx context.Context, projectID primitive.ObjectID) ([]domain.Review, error)
	SubmitReview(ctx context.Context, projectID primitive.ObjectID, in SubmitReviewInput) (*domain.Review, error)
	SetAssignment(ctx context.Context, projectID primitive.ObjectID, reviewers []string) (map[string][]string, error)
	SaveTeacherDecision(ctx context.Context, projectID primitive.ObjectID, in TeacherDecisionInput) (*DecisionResult, error)
	AddReviewReply(ctx context.Context, reviewID primitive.ObjectID, in ReviewReplyInput) (*domain.ReviewReply, error)
	MarkNotificationRead(ctx context.Context, notificationID primitive.ObjectID) error
}

// --- Service Implementation ---

// projectService implements the ProjectService interface. Every write runs
// in one unit of work together with the events it records.
type projectService struct {
	store    *repository.Store
	recorder *EventRecorder
	now      Clock
}

// NewProjectService creates a new instance of projectService.
func NewProjectService(store *repository.Store, recorder *EventRecorder, now Clock) ProjectService {
	if now == nil {
		now = recorder.now
	}
	return &projectService{
		store:    store,
		recorder: recorder,
		now:      now,
	}
}

// ListProjects lists projects. A non-blank search matches title or author and
// overrides status; otherwise a non-blank status must name a valid status.
func (s *projectService) ListProjects(ctx context.Context, status, search string) ([]domain.Project, error) {
	var filter domain.ProjectFilter
	if search = strings.TrimSpace(search); search != "" {
		filter.Search = search
	} else if strings.TrimSpace(status) != "" {
		parsed, err := lifecycle.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &parsed
	}
	return s.store.Projects.List(ctx, filter)
}

// CreateProject stores a new submission in PENDING_REVIEW with no rating or score.
func (s *projectService) CreateProject(ctx context.Context, in CreateProjectInput) (*domain.Project, error) {
	project := &domain.Project{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Description: in.Description,
		Files:       lifecycle.SanitizeFiles(in.Files),
		Status:      domain.StatusPendingReview,
		SubmittedAt: s.now().UTC(),
	}
	if project.Title == "" || project.Author == "" {
		return nil, fmt.Errorf("%w: title and author are required", ErrInvalidArgument)
	}

	err := s.store.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.store.Projects.Create(ctx, project); err != nil {
			return err
		}
		return s.recorder.ProjectUploaded(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// GetReviews returns the reviews of an existing project.
func (s *projectService) GetReviews(ctx context.Context, projectID primitive.ObjectID) ([]domain.Review, error) {
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.Reviews.GetByProjectID(ctx, projectID)
}

// SubmitReview stores a review and recomputes the project's rating and status.
func (s *projectService) SubmitReview(ctx context.Context, projectID primitive.ObjectID, in SubmitReviewInput) (*domain.Review, error) {
	reviewer := strings.TrimSpace(in.Reviewer)
	if reviewer == "" {
		return nil, fmt.Errorf("%w: reviewer is required", ErrInvalidArgument)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidArgument)
	}

	review := &domain.Review{
		ProjectID:   projectID,
		Reviewer:    reviewer,
		Rating:      in.Rating,
		Comment:     strings.TrimSpace(in.Comment),
		SubmittedAt: s.now().UTC(),
	}

	err := s.store.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		project, err := s.getProject(ctx, projectID)
		if err != nil {
			return err
		}

		exists, err := s.store.Reviews.ExistsByProjectAndReviewer(ctx, projectID, reviewer)
		if err != nil {
			return err
		}
		if exists {
			return ErrReviewAlreadySubmitted
		}
		if _, err := s.store.Reviews.Create(ctx, review); err != nil {
			// The unique index closes the window between the check and the insert.
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrReviewAlreadySubmitted
			}
			return err
		}

		reviews, err := s.store.Reviews.GetByProjectID(ctx, projectID)
		if err != nil {
			return err
		}
		ratings := make([]int, len(reviews))
		for i, r := range reviews {
			ratings[i] = r.Rating
		}
		lifecycle.ApplyReviews(project, ratings)
		if err := s.store.Projects.Update(ctx, project); err != nil {
			return err
		}

		return s.recorder.ReviewSubmitted(ctx, project, review)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// SetAssignment replaces the project's reviewer set and returns the
// assignments of every project.
func (s *projectService) SetAssignment(ctx context.Context, projectID primitive.ObjectID, reviewers []string) (map[string][]string, error) {
	names := lifecycle.NormalizeReviewers(reviewers)

	var assignments map[string][]string
	err := s.store.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		project, err := s.getProject(ctx, projectID)
		if err != nil {
			return err
		}

		if err := s.store.Assignments.DeleteByProjectID(ctx, projectID); err != nil {
			return err
		}
		rows := make([]domain.ReviewerAssignment, len(names))
		for i, name := range names {
			rows[i] = domain.ReviewerAssignment{ProjectID: projectID, Reviewer: name}
		}
		if err := s.store.Assignments.CreateMany(ctx, rows); err != nil {
			return err
		}

		if err := s.recorder.ReviewersAssigned(ctx, project, len(names)); err != nil {
			return err
		}

		all, err := s.store.Assignments.List(ctx)
		if err != nil {
			return err
		}
		assignments = groupAssignments(all)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// SaveTeacherDecision creates or overwrites the project's decision and applies
// it to the project's status, scores and displayed rating.
func (s *projectService) SaveTeacherDecision(ctx context.Context, projectID primitive.ObjectID, in TeacherDecisionInput) (*DecisionResult, error) {
	if in.FinalScore < 0 || in.FinalScore > 100 || in.CompletionPercentage < 0 || in.CompletionPercentage > 100 {
		return nil, fmt.Errorf("%w: scores must be between 0 and 100", ErrInvalidArgument)
	}
	teacherName := strings.TrimSpace(in.TeacherName)
	if teacherName == "" {
		teacherName = defaultTeacherName
	}

	var result DecisionResult
	err := s.store.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		project, err := s.getProject(ctx, projectID)
		if err != nil {
			return err
		}

		decision := &domain.TeacherDecision{
			ProjectID:            projectID,
			Action:               lifecycle.NormalizeAction(in.Action),
			Comment:              strings.TrimSpace(in.Comment),
			FinalScore:           in.FinalScore,
			CompletionPercentage: in.CompletionPercentage,
			SubmittedAt:          s.now().UTC(),
		}
		if err := s.store.Decisions.Upsert(ctx, decision); err != nil {
			return err
		}

		lifecycle.ApplyDecision(project, decision)
		if err := s.store.Projects.Update(ctx, project); err != nil {
			return err
		}

		if err := s.recorder.TeacherDecided(ctx, project, decision, teacherName); err != nil {
			return err
		}
		result = DecisionResult{Decision: *decision, Project: *project}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AddReviewReply appends a reply to a review's discussion.
func (s *projectService) AddReviewReply(ctx context.Context, reviewID primitive.ObjectID, in ReviewReplyInput) (*domain.ReviewReply, error) {
	var reply *domain.ReviewReply
	err := s.store.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		review, err := s.store.Reviews.GetByID(ctx, reviewID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		project, err := s.getProject(ctx, review.ProjectID)
		if err != nil {
			return err
		}

		now := s.now()
		reply = &domain.ReviewReply{
			ReviewID:  review.ID,
			Author:    strings.TrimSpace(in.Author),
			Text:      strings.TrimSpace(in.Text),
			Date:      now.Format(DisplayTimeLayout),
			CreatedAt: now.UTC(),
		}
		if _, err := s.store.Replies.Create(ctx, reply); err != nil {
			return err
		}
		return s.recorder.DiscussionUpdated(ctx, project, reply)
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// MarkNotificationRead flips a notification's read flag. No events are recorded.
func (s *projectService) MarkNotificationRead(ctx context.Context, notificationID primitive.ObjectID) error {
	return s.store.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		err := s.store.Notifications.MarkRead(ctx, notificationID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	})
}

func (s *projectService) getProject(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	project, err := s.store.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// groupAssignments maps project ID hex to reviewer names, keeping row order.
func groupAssignments(rows []domain.ReviewerAssignment) map[string][]string {
	grouped := make(map[string][]string)
	for _, row := range rows {
		if row.ProjectID == primitive.NilObjectID {
			continue
		}
		key := row.ProjectID.Hex()
		grouped[key] = append(grouped[key], row.Reviewer)
	}
	return grouped
}

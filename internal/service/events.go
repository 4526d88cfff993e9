package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"
)

// DisplayTimeLayout renders write-time display strings such as "Jan 5, 3:04 PM".
const DisplayTimeLayout = "Jan 2, 3:04 PM"

// defaultTeacherName is the actor recorded when a teacher does not identify themselves.
const defaultTeacherName = "Teacher"

// Notification types
const (
	NotificationReview     = "review"
	NotificationAssignment = "assignment"
	NotificationTeacher    = "teacher"
)

// Clock returns the current instant. Tests substitute a deterministic one.
type Clock func() time.Time

// activityTemplate is the fixed part of an activity entry for one operation.
type activityTemplate struct {
	action     string
	actionType string
	icon       string
	actorRole  domain.Role
}

var (
	projectUploaded   = activityTemplate{action: "Project uploaded", actionType: "project_uploaded", icon: "upload", actorRole: domain.RoleStudent}
	reviewSubmitted   = activityTemplate{action: "Review received", actionType: "review_submitted", icon: "star", actorRole: domain.RoleStudent}
	reviewersAssigned = activityTemplate{action: "Assigned reviewers", actionType: "reviewers_assigned", icon: "users", actorRole: domain.RoleTeacher}
	teacherDecision   = activityTemplate{action: "Teacher decision", actionType: "teacher_decision", icon: "clock", actorRole: domain.RoleTeacher}
	discussionUpdated = activityTemplate{action: "Discussion updated", actionType: "discussion_updated", icon: "users", actorRole: domain.RoleStudent}
)

// EventRecorder appends notifications and timeline entries for workflow
// operations. Project titles and actor names are copied into each record.
type EventRecorder struct {
	notifications repository.NotificationRepository
	activity      repository.ActivityRepository
	now           Clock
}

// NewEventRecorder creates a recorder. A nil clock means time.Now.
func NewEventRecorder(notifications repository.NotificationRepository, activity repository.ActivityRepository, now Clock) *EventRecorder {
	if now == nil {
		now = time.Now
	}
	return &EventRecorder{notifications: notifications, activity: activity, now: now}
}

// ProjectUploaded records a new submission.
func (r *EventRecorder) ProjectUploaded(ctx context.Context, p *domain.Project) error {
	detail := fmt.Sprintf("%s uploaded %s (%d files)", p.Author, p.Title, len(p.Files))
	return r.addActivity(ctx, projectUploaded, detail, p, p.Author)
}

// ReviewSubmitted records a peer review and notifies about it.
func (r *EventRecorder) ReviewSubmitted(ctx context.Context, p *domain.Project, review *domain.Review) error {
	message := fmt.Sprintf("%s submitted a review for %s", review.Reviewer, p.Title)
	if err := r.addNotification(ctx, NotificationReview, message); err != nil {
		return err
	}
	detail := fmt.Sprintf("%s reviewed %s with %d/5 stars", review.Reviewer, p.Title, review.Rating)
	return r.addActivity(ctx, reviewSubmitted, detail, p, review.Reviewer)
}

// ReviewersAssigned records a replaced reviewer set of count reviewers.
func (r *EventRecorder) ReviewersAssigned(ctx context.Context, p *domain.Project, count int) error {
	detail := fmt.Sprintf("%d reviewers assigned to %s", count, p.Title)
	if err := r.addActivity(ctx, reviewersAssigned, detail, p, defaultTeacherName); err != nil {
		return err
	}
	return r.addNotification(ctx, NotificationAssignment, fmt.Sprintf("Reviewers assigned to project %s", p.Title))
}

// TeacherDecided records a grading decision made by teacherName.
func (r *EventRecorder) TeacherDecided(ctx context.Context, p *domain.Project, d *domain.TeacherDecision, teacherName string) error {
	action := strings.ReplaceAll(d.Action, "_", " ")
	detail := fmt.Sprintf("%s graded %s (%s): %d/100, %d%% completion",
		teacherName, p.Title, action, d.FinalScore, d.CompletionPercentage)
	if err := r.addActivity(ctx, teacherDecision, detail, p, teacherName); err != nil {
		return err
	}
	message := fmt.Sprintf("Teacher marked %s as %s. %s", p.Title, action, d.Comment)
	return r.addNotification(ctx, NotificationTeacher, message)
}

// DiscussionUpdated records a reply on one of the project's reviews.
func (r *EventRecorder) DiscussionUpdated(ctx context.Context, p *domain.Project, reply *domain.ReviewReply) error {
	detail := fmt.Sprintf("%s replied on %s", reply.Author, p.Title)
	return r.addActivity(ctx, discussionUpdated, detail, p, reply.Author)
}

// displayNow returns the current instant and its display string.
func (r *EventRecorder) displayNow() (time.Time, string) {
	now := r.now()
	return now.UTC(), now.Format(DisplayTimeLayout)
}

func (r *EventRecorder) addNotification(ctx context.Context, kind, message string) error {
	createdAt, display := r.displayNow()
	_, err := r.notifications.Create(ctx, &domain.Notification{
		Type:      kind,
		Message:   message,
		Time:      display,
		CreatedAt: createdAt,
	})
	if err != nil {
		return fmt.Errorf("record %s notification: %w", kind, err)
	}
	return nil
}

func (r *EventRecorder) addActivity(ctx context.Context, tmpl activityTemplate, detail string, p *domain.Project, actor string) error {
	createdAt, display := r.displayNow()
	_, err := r.activity.Create(ctx, &domain.ActivityEvent{
		Action:       tmpl.action,
		Detail:       detail,
		Time:         display,
		Icon:         tmpl.icon,
		ActionType:   tmpl.actionType,
		ProjectID:    p.ID,
		ProjectTitle: p.Title,
		StudentName:  p.Author,
		ActorName:    actor,
		ActorRole:    tmpl.actorRole,
		CreatedAt:    createdAt,
	})
	if err != nil {
		return fmt.Errorf("record %s activity: %w", tmpl.actionType, err)
	}
	return nil
}

package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/peer-review/internal/domain"
)

func TestCreateProject(t *testing.T) {
	f := setup(t)
	size := int64(1200)
	neg := int64(-3)

	p := f.createProject(t, "  Essay ", " Ann ",
		domain.FileInput{Name: " essay.pdf ", Size: &size},
		domain.FileInput{Name: "  "},
		domain.FileInput{Name: "notes.txt", Size: &neg},
	)

	assert.Equal(t, "Essay", p.Title)
	assert.Equal(t, "Ann", p.Author)
	assert.Equal(t, domain.StatusPendingReview, p.Status)
	assert.Nil(t, p.Rating)
	assert.Nil(t, p.FinalScore)
	assert.Nil(t, p.CompletionPercentage)
	assert.Equal(t, []domain.FileAttachment{{Name: "essay.pdf", Size: 1200}, {Name: "notes.txt", Size: 0}}, p.Files)

	events, err := f.store.Activity.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Project uploaded", events[0].Action)
	assert.Equal(t, "project_uploaded", events[0].ActionType)
	assert.Equal(t, "upload", events[0].Icon)
	assert.Equal(t, "Ann uploaded Essay (2 files)", events[0].Detail)
	assert.Equal(t, domain.RoleStudent, events[0].ActorRole)

	notifications, err := f.store.Notifications.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestCreateProjectRequiresTitleAndAuthor(t *testing.T) {
	f := setup(t)
	_, err := f.projects.CreateProject(context.Background(), CreateProjectInput{Title: " ", Author: "Ann"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestListProjects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	essay := f.createProject(t, "Essay", "Ann")
	f.createProject(t, "Poem", "Bob")
	f.review(t, essay, "Cid", 4)

	got, err := f.projects.ListProjects(ctx, "reviewed", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, essay.ID, got[0].ID)

	got, err = f.projects.ListProjects(ctx, "reviewed", "bob")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Poem", got[0].Title)

	got, err = f.projects.ListProjects(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = f.projects.ListProjects(ctx, "finished", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSubmitReviewRecomputesRating(t *testing.T) {
	f := setup(t)
	p := f.createProject(t, "Essay", "Ann")

	f.review(t, p, "Bob", 5)
	got := f.reload(t, *p)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 5.0, *got.Rating)
	assert.Equal(t, domain.StatusReviewed, got.Status)

	f.review(t, p, "Cid", 4)
	f.review(t, p, "Dee", 4)
	got = f.reload(t, *p)
	assert.InDelta(t, 4.3, *got.Rating, 1e-9)

	events, err := f.store.Activity.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dee reviewed Essay with 4/5 stars", events[len(events)-1].Detail)

	notifications, err := f.store.Notifications.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, NotificationReview, notifications[0].Type)
	assert.Equal(t, "Bob submitted a review for Essay", notifications[0].Message)
	assert.False(t, notifications[0].Read)
}

func TestSubmitReviewDuplicate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.createProject(t, "Essay", "Ann")
	f.review(t, p, "Bob", 4)

	_, err := f.projects.SubmitReview(ctx, p.ID, SubmitReviewInput{Reviewer: " Bob ", Rating: 1, Comment: "again"})
	assert.ErrorIs(t, err, ErrReviewAlreadySubmitted)

	reviews, err := f.projects.GetReviews(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.InDelta(t, 4.0, *f.reload(t, *p).Rating, 1e-9)

	// The failed attempt leaves no trace in the feed.
	notifications, err := f.store.Notifications.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestSubmitReviewConcurrentDuplicates(t *testing.T) {
	f := setup(t)
	p := f.createProject(t, "Essay", "Ann")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.projects.SubmitReview(context.Background(), p.ID, SubmitReviewInput{Reviewer: "Bob", Rating: 3, Comment: "hi"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrReviewAlreadySubmitted)
	}
	assert.Equal(t, 1, succeeded)
}

func TestSubmitReviewErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.createProject(t, "Essay", "Ann")

	_, err := f.projects.SubmitReview(ctx, primitive.NewObjectID(), SubmitReviewInput{Reviewer: "Bob", Rating: 3})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, err = f.projects.SubmitReview(ctx, p.ID, SubmitReviewInput{Reviewer: "Bob", Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.projects.GetReviews(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestReviewAfterDecisionKeepsStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.createProject(t, "Essay", "Ann")
	f.review(t, p, "Bob", 4)

	_, err := f.projects.SaveTeacherDecision(ctx, p.ID, TeacherDecisionInput{Action: "reject", Comment: "no", FinalScore: 30, CompletionPercentage: 50})
	require.NoError(t, err)

	f.review(t, p, "Cid", 2)
	got := f.reload(t, *p)
	assert.Equal(t, domain.StatusRejected, got.Status)
	assert.InDelta(t, 3.0, *got.Rating, 1e-9)
}

func TestSetAssignmentReplacesSet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.createProject(t, "Essay", "Ann")
	other := f.createProject(t, "Poem", "Bob")

	_, err := f.projects.SetAssignment(ctx, other.ID, []string{"Zed"})
	require.NoError(t, err)

	first, err := f.projects.SetAssignment(ctx, p.ID, []string{"Bob", "Cid"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Cid"}, first[p.ID.Hex()])

	second, err := f.projects.SetAssignment(ctx, p.ID, []string{" Cid ", "", "Dee", "Cid", "dee"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cid", "Dee", "dee"}, second[p.ID.Hex()])
	assert.Equal(t, []string{"Zed"}, second[other.ID.Hex()])

	// Assignment has no effect on status.
	assert.Equal(t, domain.StatusPendingReview, f.reload(t, *p).Status)

	events, err := f.store.Activity.List(ctx)
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, "Assigned reviewers", last.Action)
	assert.Equal(t, "3 reviewers assigned to Essay", last.Detail)
	assert.Equal(t, "Teacher", last.ActorName)
	assert.Equal(t, domain.RoleTeacher, last.ActorRole)

	notifications, err := f.store.Notifications.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Reviewers assigned to project Essay", notifications[len(notifications)-1].Message)

	_, err = f.projects.SetAssignment(ctx, primitive.NewObjectID(), []string{"Bob"})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestSaveTeacherDecision(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.createProject(t, "Essay", "Ann")

	res, err := f.projects.SaveTeacherDecision(ctx, p.ID, TeacherDecisionInput{
		Action: " Improve ", Comment: " add sources ", FinalScore: 83, CompletionPercentage: 70, TeacherName: " Ms Lee ",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionImprovementRequested, res.Decision.Action)
	assert.Equal(t, "add sources", res.Decision.Comment)
	assert.Equal(t, domain.StatusImprovementRequested, res.Project.Status)
	assert.InDelta(t, 4.2, *res.Project.Rating, 1e-9)
	assert.Equal(t, 83, *res.Project.FinalScore)
	assert.Equal(t, 70, *res.Project.CompletionPercentage)

	events, err := f.store.Activity.List(ctx)
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, "Ms Lee graded Essay (improvement requested): 83/100, 70% completion", last.Detail)
	assert.Equal(t, "Ms Lee", last.ActorName)
	assert.Equal(t, "clock", last.Icon)

	notifications, err := f.store.Notifications.List(ctx)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, NotificationTeacher, notifications[0].Type)
	assert.Equal(t, "Teacher marked Essay as improvement requested. add sources", notifications[0].Message)

	// A second decision overwrites the first in place.
	again, err := f.projects.SaveTeacherDecision(ctx, p.ID, TeacherDecisionInput{Action: "approve", Comment: "good", FinalScore: 100, CompletionPercentage: 100})
	require.NoError(t, err)
	assert.Equal(t, res.Decision.ID, again.Decision.ID)
	assert.True(t, again.Decision.SubmittedAt.After(res.Decision.SubmittedAt))
	assert.Equal(t, domain.StatusApproved, again.Project.Status)
	assert.Equal(t, 5.0, *again.Project.Rating)

	decisions, err := f.store.Decisions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, decisions, 1)

	events, err = f.store.Activity.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Teacher", events[len(events)-1].ActorName)
}

func TestSaveTeacherDecisionUnknownAction(t *testing.T) {
	f := setup(t)
	p := f.createProject(t, "Essay", "Ann")

	res, err := f.projects.SaveTeacherDecision(context.Background(), p.ID, TeacherDecisionInput{Action: "Hold", Comment: "wait", FinalScore: 0})
	require.NoError(t, err)
	assert.Equal(t, "hold", res.Decision.Action)
	assert.Equal(t, domain.StatusReviewed, res.Project.Status)
	assert.Equal(t, 0.0, *res.Project.Rating)

	_, err = f.projects.SaveTeacherDecision(context.Background(), primitive.NewObjectID(), TeacherDecisionInput{Action: "approve"})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, err = f.projects.SaveTeacherDecision(context.Background(), p.ID, TeacherDecisionInput{Action: "approve", FinalScore: 101})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddReviewReply(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.createProject(t, "Essay", "Ann")
	r := f.review(t, p, "Bob", 4)

	reply, err := f.projects.AddReviewReply(ctx, r.ID, ReviewReplyInput{Author: " Ann ", Text: " thanks "})
	require.NoError(t, err)
	assert.Equal(t, "Ann", reply.Author)
	assert.Equal(t, "thanks", reply.Text)
	assert.Equal(t, r.ID, reply.ReviewID)
	assert.NotEmpty(t, reply.Date)
	assert.False(t, reply.CreatedAt.IsZero())

	events, err := f.store.Activity.List(ctx)
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, "Discussion updated", last.Action)
	assert.Equal(t, "Ann replied on Essay", last.Detail)
	assert.Equal(t, p.ID, last.ProjectID)

	_, err = f.projects.AddReviewReply(ctx, primitive.NewObjectID(), ReviewReplyInput{Author: "Ann", Text: "hi"})
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestMarkNotificationRead(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.createProject(t, "Essay", "Ann")
	f.review(t, p, "Bob", 4)

	notifications, err := f.store.Notifications.List(ctx)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	eventsBefore, err := f.store.Activity.List(ctx)
	require.NoError(t, err)

	require.NoError(t, f.projects.MarkNotificationRead(ctx, notifications[0].ID))

	notifications, err = f.store.Notifications.List(ctx)
	require.NoError(t, err)
	assert.True(t, notifications[0].Read)

	eventsAfter, err := f.store.Activity.List(ctx)
	require.NoError(t, err)
	assert.Len(t, eventsAfter, len(eventsBefore))

	err = f.projects.MarkNotificationRead(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestDisplayTimeFormat(t *testing.T) {
	f := setup(t)
	f.createProject(t, "Essay", "Ann")

	events, err := f.store.Activity.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	// The ticking clock's second reading.
	assert.Equal(t, "Jan 5, 3:06 PM", events[0].Time)
}

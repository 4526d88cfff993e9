package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"
)

func setup(t *testing.T) (*DB, *repository.Store) {
	t.Helper()
	db := Open()
	return db, NewStore(db)
}

func createProject(t *testing.T, store *repository.Store, title, author string) domain.Project {
	t.Helper()
	p := domain.Project{Title: title, Author: author}
	_, err := store.Projects.Create(context.Background(), &p)
	require.NoError(t, err)
	return p
}

func TestTransactionRollback(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()
	p := createProject(t, store, "Essay", "Ann")

	boom := errors.New("boom")
	err := store.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := store.Reviews.Create(ctx, &domain.Review{ProjectID: p.ID, Reviewer: "Bob", Rating: 4})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	reviews, err := store.Reviews.GetByProjectID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	exists, err := store.Reviews.ExistsByProjectAndReviewer(ctx, p.ID, "Bob")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTransactionIsolation(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()
	p := createProject(t, store, "Essay", "Ann")
	require.NoError(t, store.Assignments.CreateMany(ctx, []domain.ReviewerAssignment{{ProjectID: p.ID, Reviewer: "Bob"}}))

	err := store.Transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, store.Assignments.DeleteByProjectID(txCtx, p.ID))

		// Outside the transaction the old set is still visible.
		outside, err := store.Assignments.List(ctx)
		require.NoError(t, err)
		assert.Len(t, outside, 1)

		inside, err := store.Assignments.List(txCtx)
		require.NoError(t, err)
		assert.Empty(t, inside)

		return store.Assignments.CreateMany(txCtx, []domain.ReviewerAssignment{{ProjectID: p.ID, Reviewer: "Cid"}})
	})
	require.NoError(t, err)

	all, err := store.Assignments.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Cid", all[0].Reviewer)
}

func TestReviewUniqueness(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()
	p := createProject(t, store, "Essay", "Ann")

	_, err := store.Reviews.Create(ctx, &domain.Review{ProjectID: p.ID, Reviewer: "Bob", Rating: 4})
	require.NoError(t, err)
	_, err = store.Reviews.Create(ctx, &domain.Review{ProjectID: p.ID, Reviewer: "Bob", Rating: 2})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// A different project is a different key.
	other := createProject(t, store, "Poem", "Dee")
	_, err = store.Reviews.Create(ctx, &domain.Review{ProjectID: other.ID, Reviewer: "Bob", Rating: 2})
	assert.NoError(t, err)
}

func TestAssignmentUniqueness(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()
	p := createProject(t, store, "Essay", "Ann")

	err := store.Assignments.CreateMany(ctx, []domain.ReviewerAssignment{
		{ProjectID: p.ID, Reviewer: "Bob"},
		{ProjectID: p.ID, Reviewer: "Bob"},
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	all, err := store.Assignments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDecisionUpsert(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()
	p := createProject(t, store, "Essay", "Ann")

	first := domain.TeacherDecision{ProjectID: p.ID, Action: "reject", FinalScore: 40}
	require.NoError(t, store.Decisions.Upsert(ctx, &first))

	second := domain.TeacherDecision{ProjectID: p.ID, Action: "approve", FinalScore: 90}
	require.NoError(t, store.Decisions.Upsert(ctx, &second))
	assert.Equal(t, first.ID, second.ID)

	all, err := store.Decisions.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "approve", all[0].Action)
	assert.Equal(t, 90, all[0].FinalScore)
}

func TestProjectListFilters(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()
	essay := createProject(t, store, "Essay on Rivers", "Ann")
	createProject(t, store, "Poem", "Bob")

	essay.Status = domain.StatusApproved
	require.NoError(t, store.Projects.Update(ctx, &essay))

	approved := domain.StatusApproved
	got, err := store.Projects.List(ctx, domain.ProjectFilter{Status: &approved})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, essay.ID, got[0].ID)

	// Search takes precedence over the status filter.
	got, err = store.Projects.List(ctx, domain.ProjectFilter{Status: &approved, Search: "BOB"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Poem", got[0].Title)

	got, err = store.Projects.List(ctx, domain.ProjectFilter{Search: "rivers"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = store.Projects.List(ctx, domain.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestProjectCopiesAreDetached(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()
	p := createProject(t, store, "Essay", "Ann")

	rating := 3.0
	p.Rating = &rating
	require.NoError(t, store.Projects.Update(ctx, &p))
	rating = 1.0

	got, err := store.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 3.0, *got.Rating)
}

func TestMarkReadMissing(t *testing.T) {
	_, store := setup(t)
	n := domain.Notification{Type: "review", Message: "hi"}
	_, err := store.Notifications.Create(context.Background(), &n)
	require.NoError(t, err)

	require.NoError(t, store.Notifications.MarkRead(context.Background(), n.ID))
	all, err := store.Notifications.List(context.Background())
	require.NoError(t, err)
	assert.True(t, all[0].Read)

	err = store.Notifications.MarkRead(context.Background(), domain.Notification{}.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

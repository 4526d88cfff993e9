package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"
	"alcyxob/peer-review/internal/repository/memory"
)

// tickingClock starts at a fixed instant and advances one minute per call.
func tickingClock() Clock {
	var mu sync.Mutex
	now := time.Date(2025, time.January, 5, 15, 4, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	store    *repository.Store
	projects ProjectService
	platform PlatformService
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore(memory.Open())
	clock := tickingClock()
	recorder := NewEventRecorder(store.Notifications, store.Activity, clock)
	return fixture{
		store:    store,
		projects: NewProjectService(store, recorder, clock),
		platform: NewPlatformService(store, quietLogger()),
	}
}

func (f fixture) createProject(t *testing.T, title, author string, files ...domain.FileInput) *domain.Project {
	t.Helper()
	p, err := f.projects.CreateProject(context.Background(), CreateProjectInput{Title: title, Author: author, Files: files})
	require.NoError(t, err)
	return p
}

func (f fixture) review(t *testing.T, p *domain.Project, reviewer string, rating int) *domain.Review {
	t.Helper()
	r, err := f.projects.SubmitReview(context.Background(), p.ID, SubmitReviewInput{Reviewer: reviewer, Rating: rating, Comment: "ok"})
	require.NoError(t, err)
	return r
}

func (f fixture) reload(t *testing.T, id domain.Project) domain.Project {
	t.Helper()
	p, err := f.store.Projects.GetByID(context.Background(), id.ID)
	require.NoError(t, err)
	return *p
}

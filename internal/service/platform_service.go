package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlatformState is the consolidated read model polled by clients. Map keys
// are ObjectID hex strings.
type PlatformState struct {
	Projects         []domain.Project
	Reviews          []domain.Review
	Assignments      map[string][]string               // project -> reviewer names
	TeacherDecisions map[string]domain.TeacherDecision // project -> decision
	ReviewReplies    map[string][]domain.ReviewReply   // review -> replies, oldest first
	Notifications    []domain.Notification             // newest first
	ActivityTimeline []domain.ActivityEvent            // newest first
}

type PlatformService interface {
	GetPlatformState(ctx context.Context) *PlatformState
}

// platformService assembles PlatformState from independent reads. It never
// writes and does not share a transaction with writers.
type platformService struct {
	store *repository.Store
	log   logrus.FieldLogger
}

func NewPlatformService(store *repository.Store, log logrus.FieldLogger) PlatformService {
	return &platformService{store: store, log: log}
}

// GetPlatformState never fails: a section whose read fails is logged and
// returned empty while the other sections are still filled in.
func (s *platformService) GetPlatformState(ctx context.Context) *PlatformState {
	projects, projectsOK := section(s, "projects", []domain.Project{}, func() ([]domain.Project, error) {
		return s.store.Projects.List(ctx, domain.ProjectFilter{})
	})

	known := make(map[primitive.ObjectID]struct{}, len(projects))
	for _, p := range projects {
		known[p.ID] = struct{}{}
	}

	reviews, _ := section(s, "reviews", []domain.Review{}, func() ([]domain.Review, error) {
		all, err := s.store.Reviews.List(ctx)
		if err != nil {
			return nil, err
		}
		kept := make([]domain.Review, 0, len(all))
		for _, r := range all {
			if r.ProjectID == primitive.NilObjectID {
				continue
			}
			// Only drop dangling references when the project list is trustworthy.
			if _, ok := known[r.ProjectID]; projectsOK && !ok {
				continue
			}
			kept = append(kept, r)
		}
		return kept, nil
	})

	assignments, _ := section(s, "assignments", map[string][]string{}, func() (map[string][]string, error) {
		rows, err := s.store.Assignments.List(ctx)
		if err != nil {
			return nil, err
		}
		return groupAssignments(rows), nil
	})

	decisions, _ := section(s, "teacherDecisions", map[string]domain.TeacherDecision{}, func() (map[string]domain.TeacherDecision, error) {
		all, err := s.store.Decisions.List(ctx)
		if err != nil {
			return nil, err
		}
		byProject := make(map[string]domain.TeacherDecision, len(all))
		for _, d := range all {
			if d.ProjectID == primitive.NilObjectID {
				continue
			}
			byProject[d.ProjectID.Hex()] = d // last write wins
		}
		return byProject, nil
	})

	replies, _ := section(s, "reviewReplies", map[string][]domain.ReviewReply{}, func() (map[string][]domain.ReviewReply, error) {
		all, err := s.store.Replies.List(ctx)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(all, func(i, j int) bool {
			return createdBefore(all[i].CreatedAt, all[j].CreatedAt)
		})
		byReview := make(map[string][]domain.ReviewReply)
		for _, r := range all {
			if r.ReviewID == primitive.NilObjectID {
				continue
			}
			key := r.ReviewID.Hex()
			byReview[key] = append(byReview[key], r)
		}
		return byReview, nil
	})

	notifications, _ := section(s, "notifications", []domain.Notification{}, func() ([]domain.Notification, error) {
		all, err := s.store.Notifications.List(ctx)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(all, func(i, j int) bool {
			return createdAfter(all[i].CreatedAt, all[j].CreatedAt)
		})
		return all, nil
	})

	activity, _ := section(s, "activityTimeline", []domain.ActivityEvent{}, func() ([]domain.ActivityEvent, error) {
		all, err := s.store.Activity.List(ctx)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(all, func(i, j int) bool {
			return createdAfter(all[i].CreatedAt, all[j].CreatedAt)
		})
		return all, nil
	})

	return &PlatformState{
		Projects:         projects,
		Reviews:          reviews,
		Assignments:      assignments,
		TeacherDecisions: decisions,
		ReviewReplies:    replies,
		Notifications:    notifications,
		ActivityTimeline: activity,
	}
}

// section runs one snapshot read. On error or panic it logs and returns
// fallback with ok == false.
func section[T any](s *platformService, name string, fallback T, produce func() (T, error)) (value T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("section", name).WithField("panic", fmt.Sprint(r)).Error("platform state section panicked")
			value, ok = fallback, false
		}
	}()

	v, err := produce()
	if err != nil {
		s.log.WithField("section", name).WithError(err).Warn("platform state section unavailable")
		return fallback, false
	}
	return v, true
}

// createdBefore orders ascending with zero (unknown) timestamps last.
func createdBefore(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	return b.IsZero() || a.Before(b)
}

// createdAfter orders descending with zero (unknown) timestamps last.
func createdAfter(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	return b.IsZero() || a.After(b)
}

package lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"alcyxob/peer-review/internal/domain"
)

// ErrInvalidStatus is returned by ParseStatus for values outside the status enum.
var ErrInvalidStatus = errors.New("invalid project status")

// ParseStatus parses a status filter, ignoring surrounding space and case.
func ParseStatus(raw string) (domain.ProjectStatus, error) {
	candidate := domain.ProjectStatus(strings.ToUpper(strings.TrimSpace(raw)))
	for _, s := range domain.ProjectStatuses {
		if s == candidate {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// StatusAfterReview returns the status a project moves to once its review set
// changes. Without reviews a project is always pending; the first review moves
// it to REVIEWED; later statuses set by a teacher are kept.
func StatusAfterReview(current domain.ProjectStatus, hasReviews bool) domain.ProjectStatus {
	if !hasReviews {
		return domain.StatusPendingReview
	}
	if current == domain.StatusPendingReview || current == "" {
		return domain.StatusReviewed
	}
	return current
}

// NormalizeAction trims and lowercases a teacher action. "improve" is an
// alias of "improvement_requested"; everything else passes through.
func NormalizeAction(action string) string {
	value := strings.ToLower(strings.TrimSpace(action))
	if value == "improve" {
		return domain.ActionImprovementRequested
	}
	return value
}

// StatusForAction maps a teacher action to the resulting project status.
// Unknown actions leave the project REVIEWED.
func StatusForAction(action string) domain.ProjectStatus {
	switch NormalizeAction(action) {
	case domain.ActionApprove:
		return domain.StatusApproved
	case domain.ActionReject:
		return domain.StatusRejected
	case domain.ActionImprovementRequested:
		return domain.StatusImprovementRequested
	default:
		return domain.StatusReviewed
	}
}

// ApplyDecision copies a decision's scores onto the project and re-derives its
// status and displayed rating.
func ApplyDecision(p *domain.Project, d *domain.TeacherDecision) {
	score := d.FinalScore
	completion := d.CompletionPercentage
	rating := RatingFromScore(score)

	p.FinalScore = &score
	p.CompletionPercentage = &completion
	p.Status = StatusForAction(d.Action)
	p.Rating = &rating
}

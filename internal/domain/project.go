package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStatus tracks where a project is in the review workflow.
type ProjectStatus string

const (
	StatusPendingReview        ProjectStatus = "PENDING_REVIEW" // Initial state after upload
	StatusReviewed             ProjectStatus = "REVIEWED"       // At least one peer review exists
	StatusApproved             ProjectStatus = "APPROVED"
	StatusRejected             ProjectStatus = "REJECTED"
	StatusImprovementRequested ProjectStatus = "IMPROVEMENT_REQUESTED"
)

// ProjectStatuses lists every valid status in workflow order.
var ProjectStatuses = []ProjectStatus{
	StatusPendingReview,
	StatusReviewed,
	StatusApproved,
	StatusRejected,
	StatusImprovementRequested,
}

// Project is a student submission going through peer review and teacher grading.
type Project struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                string             `bson:"title" json:"title"`
	Author               string             `bson:"author" json:"author"`
	Description          string             `bson:"description,omitempty" json:"description,omitempty"`
	Files                []FileAttachment   `bson:"files" json:"files"`
	Status               ProjectStatus      `bson:"status" json:"status"`
	SubmittedAt          time.Time          `bson:"submittedAt" json:"submittedAt"`                                       // Set once on upload
	Rating               *float64           `bson:"rating,omitempty" json:"rating,omitempty"`                             // 0-5, one decimal
	FinalScore           *int               `bson:"finalScore,omitempty" json:"finalScore,omitempty"`                     // 0-100
	CompletionPercentage *int               `bson:"completionPercentage,omitempty" json:"completionPercentage,omitempty"` // 0-100
}

// ProjectFilter narrows a project listing. Search wins over Status when both are set.
type ProjectFilter struct {
	Status *ProjectStatus
	Search string
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Normalized teacher decision actions.
const (
	ActionApprove              = "approve"
	ActionReject               = "reject"
	ActionImprovementRequested = "improvement_requested"
)

// TeacherDecision is the instructor's verdict on a project. There is at most one per project.
type TeacherDecision struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID            primitive.ObjectID `bson:"projectId" json:"projectId"`
	Action               string             `bson:"action" json:"action"` // Normalized, see lifecycle.NormalizeAction
	Comment              string             `bson:"comment" json:"comment"`
	FinalScore           int                `bson:"finalScore" json:"finalScore"`
	CompletionPercentage int                `bson:"completionPercentage" json:"completionPercentage"`
	SubmittedAt          time.Time          `bson:"submittedAt" json:"submittedAt"` // Refreshed on every save
}

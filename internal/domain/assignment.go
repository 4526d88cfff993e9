package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewerAssignment designates a reviewer for a project.
// The full set for a project is replaced on every assignment request.
type ReviewerAssignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"projectId" json:"projectId"`
	Reviewer  string             `bson:"reviewer" json:"reviewer"`
}

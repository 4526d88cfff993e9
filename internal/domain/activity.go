package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a user-facing alert. Only the Read flag ever changes.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      string             `bson:"type" json:"type"`
	Message   string             `bson:"message" json:"message"`
	Time      string             `bson:"time" json:"time"` // Display string
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ActivityEvent is an immutable timeline entry. Project and actor fields are
// copies taken at write time, not references.
type ActivityEvent struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action       string             `bson:"action" json:"action"`
	Detail       string             `bson:"detail" json:"detail"`
	Time         string             `bson:"time" json:"time"` // Display string
	Icon         string             `bson:"icon" json:"icon"`
	ActionType   string             `bson:"actionType" json:"actionType"`
	ProjectID    primitive.ObjectID `bson:"projectId,omitempty" json:"projectId,omitempty"`
	ProjectTitle string             `bson:"projectTitle" json:"projectTitle"`
	StudentName  string             `bson:"studentName" json:"studentName"`
	ActorName    string             `bson:"actorName" json:"actorName"`
	ActorRole    Role               `bson:"actorRole" json:"actorRole"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

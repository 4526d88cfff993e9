package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one reviewer's rating and comment on a project.
// A reviewer may review a given project only once.
type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"projectId" json:"projectId"`
	Reviewer    string             `bson:"reviewer" json:"reviewer"`
	Rating      int                `bson:"rating" json:"rating"` // 1-5
	Comment     string             `bson:"comment" json:"comment"`
	SubmittedAt time.Time          `bson:"submittedAt" json:"submittedAt"`
}

// ReviewReply is a discussion message attached to a review.
type ReviewReply struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReviewID  primitive.ObjectID `bson:"reviewId" json:"reviewId"`
	Author    string             `bson:"author" json:"author"`
	Text      string             `bson:"text" json:"text"`
	Date      string             `bson:"date" json:"date"`           // Display string, never parsed
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"` // Used for ordering
}

package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/peer-review/internal/domain"
)

func TestCollectionIndexesEnforceUniqueness(t *testing.T) {
	indexes := collectionIndexes()

	unique := map[string]bson.D{
		reviewCollectionName:     {{Key: "projectId", Value: 1}, {Key: "reviewer", Value: 1}},
		assignmentCollectionName: {{Key: "projectId", Value: 1}, {Key: "reviewer", Value: 1}},
		decisionCollectionName:   {{Key: "projectId", Value: 1}},
		userCollectionName:       {{Key: "email", Value: 1}},
	}
	for name, keys := range unique {
		models := indexes[name]
		require.NotEmpty(t, models, name)
		assert.Equal(t, keys, models[0].Keys, name)
		require.NotNil(t, models[0].Options.Unique, name)
		assert.True(t, *models[0].Options.Unique, name)
	}
}

func TestProjectQuery(t *testing.T) {
	reviewed := domain.StatusReviewed

	assert.Equal(t, bson.M{}, projectQuery(domain.ProjectFilter{}))
	assert.Equal(t, bson.M{"status": reviewed}, projectQuery(domain.ProjectFilter{Status: &reviewed}))

	q := projectQuery(domain.ProjectFilter{Status: &reviewed, Search: "a.b"})
	assert.NotContains(t, q, "status")
	pattern := primitive.Regex{Pattern: `a\.b`, Options: "i"}
	assert.Equal(t, bson.A{bson.M{"title": pattern}, bson.M{"author": pattern}}, q["$or"])
}

func TestSetOrUnset(t *testing.T) {
	set, unset := bson.M{}, bson.M{}
	score := 90
	setOrUnset(set, unset, "finalScore", &score)
	setOrUnset[float64](set, unset, "rating", nil)

	assert.Equal(t, bson.M{"finalScore": 90}, set)
	assert.Equal(t, bson.M{"rating": ""}, unset)
}

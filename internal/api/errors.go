package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/peer-review/internal/service"
)

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// abortWithBindError reports a request body that failed to decode or validate.
func abortWithBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  "Validation error",
			"fields": validationDetails(verrs),
		})
		return
	}
	abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
}

// abortWithServiceError maps a service error to its HTTP status. Anything
// unrecognised is logged and reported as a generic 500.
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrReviewAlreadySubmitted),
		errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidArgument):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	default:
		loggerFrom(c).WithError(err).Error("request failed")
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

// objectIDParam reads an ObjectID path parameter. A malformed id cannot name
// an existing record, so it is reported as notFound.
func objectIDParam(c *gin.Context, name string, notFound error) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithServiceError(c, notFound)
		return primitive.NilObjectID, false
	}
	return id, true
}

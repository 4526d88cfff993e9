package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/peer-review/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	allowedOrigins []string,
	authService service.AuthService,
	projectService service.ProjectService,
	platformService service.PlatformService,
) {
	RegisterValidators()

	authHandler := NewAuthHandler(authService)
	projectHandler := NewProjectHandler(projectService)
	platformHandler := NewPlatformHandler(platformService, projectService)

	// Engine-level so that preflight requests for any path are answered.
	router.Use(CORS(allowedOrigins))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		projectGroup := apiGroup.Group("/projects")
		{
			projectGroup.GET("", projectHandler.ListProjects)
			projectGroup.POST("", projectHandler.CreateProject)
			projectGroup.GET("/:id/reviews", projectHandler.GetReviews)
			projectGroup.POST("/:id/reviews", projectHandler.SubmitReview)
			projectGroup.POST("/:id/assign-reviewers", projectHandler.AssignReviewers)
			projectGroup.POST("/:id/feedback", projectHandler.SaveTeacherDecision)
		}

		apiGroup.POST("/reviews/:id/replies", platformHandler.AddReviewReply)
		apiGroup.PATCH("/notifications/:id/read", platformHandler.MarkNotificationRead)
		apiGroup.GET("/platform/state", platformHandler.GetPlatformState)
	}
}

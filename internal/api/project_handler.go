package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/service"
)

// dateLayout renders calendar dates such as a project's submission day.
const dateLayout = "2006-01-02"

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// --- DTOs ---

type FileRequest struct {
	Name string `json:"name"`
	Size *int64 `json:"size"` // Missing or negative sizes are stored as 0
}

type CreateProjectRequest struct {
	Title       string        `json:"title" binding:"notblank"`
	Author      string        `json:"author" binding:"notblank"`
	Description string        `json:"description"`
	Files       []FileRequest `json:"files"`
}

type CreateReviewRequest struct {
	Reviewer string `json:"reviewer" binding:"notblank"`
	Rating   *int   `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment" binding:"notblank"`
}

type AssignReviewersRequest struct {
	Reviewers []string `json:"reviewers" binding:"required,min=1,dive,notblank"`
}

type TeacherDecisionRequest struct {
	Action               string `json:"action" binding:"notblank"`
	Comment              string `json:"comment" binding:"notblank"`
	FinalScore           *int   `json:"finalScore" binding:"required,min=0,max=100"`
	CompletionPercentage *int   `json:"completionPercentage" binding:"required,min=0,max=100"`
	TeacherName          string `json:"teacherName"`
}

type ProjectResponse struct {
	ID                   string                  `json:"id"`
	Title                string                  `json:"title"`
	Author               string                  `json:"author"`
	Description          string                  `json:"description"`
	Status               domain.ProjectStatus    `json:"status"`
	SubmittedAt          string                  `json:"submittedAt"`
	Rating               *float64                `json:"rating"`
	FinalScore           *int                    `json:"finalScore"`
	CompletionPercentage *int                    `json:"completionPercentage"`
	Files                []domain.FileAttachment `json:"files"`
}

type ReviewResponse struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Reviewer  string `json:"reviewer"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Date      string `json:"date"`
}

type TeacherDecisionResponse struct {
	Action               string `json:"action"`
	Comment              string `json:"comment"`
	FinalScore           int    `json:"finalScore"`
	CompletionPercentage int    `json:"completionPercentage"`
	SubmittedAt          string `json:"submittedAt"`
}

// --- Handler Methods ---

// ListProjects godoc
// @Summary List projects
// @Description A non-blank search matches title or author and takes precedence over status.
// @Tags Projects
// @Produce json
// @Param status query string false "Project status"
// @Param search query string false "Title or author substring"
// @Success 200 {array} ProjectResponse
// @Failure 400 {object} gin.H "Unknown status"
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProjectsToResponse(projects))
}

// CreateProject godoc
// @Summary Upload a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body CreateProjectRequest true "Project details"
// @Success 201 {object} ProjectResponse
// @Failure 400 {object} gin.H "Validation error"
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	files := make([]domain.FileInput, len(req.Files))
	for i, f := range req.Files {
		files[i] = domain.FileInput{Name: f.Name, Size: f.Size}
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), service.CreateProjectInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Files:       files,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProjectToResponse(project))
}

// GetReviews godoc
// @Summary List a project's reviews
// @Tags Reviews
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} ReviewResponse
// @Failure 404 {object} gin.H "Project not found"
// @Router /projects/{id}/reviews [get]
func (h *ProjectHandler) GetReviews(c *gin.Context) {
	projectID, ok := objectIDParam(c, "id", service.ErrProjectNotFound)
	if !ok {
		return
	}
	reviews, err := h.projectService.GetReviews(c.Request.Context(), projectID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapReviewsToResponse(reviews))
}

// SubmitReview godoc
// @Summary Submit a peer review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param review body CreateReviewRequest true "Review"
// @Success 201 {object} ReviewResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Project not found"
// @Failure 409 {object} gin.H "Reviewer already reviewed this project"
// @Router /projects/{id}/reviews [post]
func (h *ProjectHandler) SubmitReview(c *gin.Context) {
	projectID, ok := objectIDParam(c, "id", service.ErrProjectNotFound)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	review, err := h.projectService.SubmitReview(c.Request.Context(), projectID, service.SubmitReviewInput{
		Reviewer: req.Reviewer,
		Rating:   *req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapReviewToResponse(review))
}

// AssignReviewers godoc
// @Summary Replace a project's reviewer set
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param reviewers body AssignReviewersRequest true "Reviewer names"
// @Success 200 {object} map[string][]string "Assignments of every project"
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Project not found"
// @Router /projects/{id}/assign-reviewers [post]
func (h *ProjectHandler) AssignReviewers(c *gin.Context) {
	projectID, ok := objectIDParam(c, "id", service.ErrProjectNotFound)
	if !ok {
		return
	}
	var req AssignReviewersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	assignments, err := h.projectService.SetAssignment(c.Request.Context(), projectID, req.Reviewers)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// SaveTeacherDecision godoc
// @Summary Grade a project
// @Description Creates or replaces the project's decision; "improve" is accepted for improvement_requested.
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param decision body TeacherDecisionRequest true "Decision"
// @Success 200 {object} TeacherDecisionResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Project not found"
// @Router /projects/{id}/feedback [post]
func (h *ProjectHandler) SaveTeacherDecision(c *gin.Context) {
	projectID, ok := objectIDParam(c, "id", service.ErrProjectNotFound)
	if !ok {
		return
	}
	var req TeacherDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	result, err := h.projectService.SaveTeacherDecision(c.Request.Context(), projectID, service.TeacherDecisionInput{
		Action:               req.Action,
		Comment:              req.Comment,
		FinalScore:           *req.FinalScore,
		CompletionPercentage: *req.CompletionPercentage,
		TeacherName:          req.TeacherName,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapDecisionToResponse(&result.Decision))
}

// --- Mappers ---

// MapProjectToResponse converts a domain Project to its view. Files is never null.
func MapProjectToResponse(p *domain.Project) ProjectResponse {
	if p == nil {
		return ProjectResponse{}
	}
	files := p.Files
	if files == nil {
		files = []domain.FileAttachment{}
	}
	return ProjectResponse{
		ID:                   p.ID.Hex(),
		Title:                p.Title,
		Author:               p.Author,
		Description:          p.Description,
		Status:               p.Status,
		SubmittedAt:          formatDate(p.SubmittedAt),
		Rating:               p.Rating,
		FinalScore:           p.FinalScore,
		CompletionPercentage: p.CompletionPercentage,
		Files:                files,
	}
}

func MapProjectsToResponse(projects []domain.Project) []ProjectResponse {
	resp := make([]ProjectResponse, len(projects))
	for i := range projects {
		resp[i] = MapProjectToResponse(&projects[i])
	}
	return resp
}

func MapReviewToResponse(r *domain.Review) ReviewResponse {
	if r == nil {
		return ReviewResponse{}
	}
	return ReviewResponse{
		ID:        r.ID.Hex(),
		ProjectID: r.ProjectID.Hex(),
		Reviewer:  r.Reviewer,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Date:      formatDate(r.SubmittedAt),
	}
}

func MapReviewsToResponse(reviews []domain.Review) []ReviewResponse {
	resp := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		resp[i] = MapReviewToResponse(&reviews[i])
	}
	return resp
}

func MapDecisionToResponse(d *domain.TeacherDecision) TeacherDecisionResponse {
	if d == nil {
		return TeacherDecisionResponse{}
	}
	resp := TeacherDecisionResponse{
		Action:               d.Action,
		Comment:              d.Comment,
		FinalScore:           d.FinalScore,
		CompletionPercentage: d.CompletionPercentage,
	}
	if !d.SubmittedAt.IsZero() {
		resp.SubmittedAt = d.SubmittedAt.UTC().Format(timestampLayout)
	}
	return resp
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/peer-review/internal/domain"
	"alcyxob/peer-review/internal/service"
)

// timestampLayout renders instants that clients may parse back.
const timestampLayout = time.RFC3339

type PlatformHandler struct {
	platformService service.PlatformService
	projectService  service.ProjectService
}

func NewPlatformHandler(platformService service.PlatformService, projectService service.ProjectService) *PlatformHandler {
	return &PlatformHandler{
		platformService: platformService,
		projectService:  projectService,
	}
}

// --- DTOs ---

type ReviewReplyRequest struct {
	Text   string `json:"text" binding:"notblank"`
	Author string `json:"author" binding:"notblank"`
}

type ReviewReplyResponse struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Date   string `json:"date"`
}

type NotificationResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Time    string `json:"time"`
	Read    bool   `json:"read"`
}

type ActivityResponse struct {
	ID           string      `json:"id"`
	Action       string      `json:"action"`
	Detail       string      `json:"detail"`
	Time         string      `json:"time"`
	Icon         string      `json:"icon"`
	ProjectID    *string     `json:"projectId"`
	ProjectTitle string      `json:"projectTitle"`
	StudentName  string      `json:"studentName"`
	ActorName    string      `json:"actorName"`
	ActorRole    domain.Role `json:"actorRole"`
	ActionType   string      `json:"actionType"`
}

type PlatformStateResponse struct {
	Projects         []ProjectResponse                  `json:"projects"`
	Reviews          []ReviewResponse                   `json:"reviews"`
	Assignments      map[string][]string                `json:"assignments"`
	TeacherDecisions map[string]TeacherDecisionResponse `json:"teacherDecisions"`
	ReviewReplies    map[string][]ReviewReplyResponse   `json:"reviewReplies"`
	Notifications    []NotificationResponse             `json:"notifications"`
	ActivityTimeline []ActivityResponse                 `json:"activityTimeline"`
}

// --- Handler Methods ---

// GetPlatformState godoc
// @Summary Dashboard snapshot
// @Description Always 200. A section that cannot be read is returned empty.
// @Tags Platform
// @Produce json
// @Success 200 {object} PlatformStateResponse
// @Router /platform/state [get]
func (h *PlatformHandler) GetPlatformState(c *gin.Context) {
	state := h.platformService.GetPlatformState(c.Request.Context())
	c.JSON(http.StatusOK, MapPlatformStateToResponse(state))
}

// AddReviewReply godoc
// @Summary Reply to a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param reply body ReviewReplyRequest true "Reply"
// @Success 200 {object} ReviewReplyResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Review not found"
// @Router /reviews/{id}/replies [post]
func (h *PlatformHandler) AddReviewReply(c *gin.Context) {
	reviewID, ok := objectIDParam(c, "id", service.ErrReviewNotFound)
	if !ok {
		return
	}
	var req ReviewReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	reply, err := h.projectService.AddReviewReply(c.Request.Context(), reviewID, service.ReviewReplyInput{
		Author: req.Author,
		Text:   req.Text,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapReplyToResponse(reply))
}

// MarkNotificationRead godoc
// @Summary Mark a notification as read
// @Tags Platform
// @Param id path string true "Notification ID"
// @Success 200
// @Failure 404 {object} gin.H "Notification not found"
// @Router /notifications/{id}/read [patch]
func (h *PlatformHandler) MarkNotificationRead(c *gin.Context) {
	notificationID, ok := objectIDParam(c, "id", service.ErrNotificationNotFound)
	if !ok {
		return
	}
	if err := h.projectService.MarkNotificationRead(c.Request.Context(), notificationID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// --- Mappers ---

func MapReplyToResponse(r *domain.ReviewReply) ReviewReplyResponse {
	if r == nil {
		return ReviewReplyResponse{}
	}
	return ReviewReplyResponse{ID: r.ID.Hex(), Text: r.Text, Author: r.Author, Date: r.Date}
}

func MapNotificationToResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{ID: n.ID.Hex(), Type: n.Type, Message: n.Message, Time: n.Time, Read: n.Read}
}

func MapActivityToResponse(e *domain.ActivityEvent) ActivityResponse {
	resp := ActivityResponse{
		ID:           e.ID.Hex(),
		Action:       e.Action,
		Detail:       e.Detail,
		Time:         e.Time,
		Icon:         e.Icon,
		ProjectTitle: e.ProjectTitle,
		StudentName:  e.StudentName,
		ActorName:    e.ActorName,
		ActorRole:    e.ActorRole,
		ActionType:   e.ActionType,
	}
	if !e.ProjectID.IsZero() {
		hex := e.ProjectID.Hex()
		resp.ProjectID = &hex
	}
	return resp
}

// MapPlatformStateToResponse converts the snapshot to its wire shape. Every
// collection is rendered as [] or {} rather than null.
func MapPlatformStateToResponse(s *service.PlatformState) PlatformStateResponse {
	resp := PlatformStateResponse{
		Projects:         MapProjectsToResponse(s.Projects),
		Reviews:          MapReviewsToResponse(s.Reviews),
		Assignments:      make(map[string][]string, len(s.Assignments)),
		TeacherDecisions: make(map[string]TeacherDecisionResponse, len(s.TeacherDecisions)),
		ReviewReplies:    make(map[string][]ReviewReplyResponse, len(s.ReviewReplies)),
		Notifications:    make([]NotificationResponse, len(s.Notifications)),
		ActivityTimeline: make([]ActivityResponse, len(s.ActivityTimeline)),
	}
	for projectID, reviewers := range s.Assignments {
		resp.Assignments[projectID] = reviewers
	}
	for projectID, d := range s.TeacherDecisions {
		resp.TeacherDecisions[projectID] = MapDecisionToResponse(&d)
	}
	for reviewID, replies := range s.ReviewReplies {
		thread := make([]ReviewReplyResponse, len(replies))
		for i := range replies {
			thread[i] = MapReplyToResponse(&replies[i])
		}
		resp.ReviewReplies[reviewID] = thread
	}
	for i := range s.Notifications {
		resp.Notifications[i] = MapNotificationToResponse(&s.Notifications[i])
	}
	for i := range s.ActivityTimeline {
		resp.ActivityTimeline[i] = MapActivityToResponse(&s.ActivityTimeline[i])
	}
	return resp
}

// formatDate renders the calendar day of t, or "" when t is unknown.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picquest/rewards-backend/internal/services"
)

// submissionPageSize caps how many submissions a listing returns.
const submissionPageSize = 50

// SubmissionHandler handles submission-related HTTP requests
type SubmissionHandler struct {
	submissionService services.SubmissionService
	userService       services.UserService
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(submissionService services.SubmissionService, userService services.UserService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		userService:       userService,
	}
}

// CreateSubmission handles POST /submissions
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	var input services.CreateSubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.submissionService.Create(c.Request.Context(), user, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// ListSubmissions handles GET /submissions. With ?mine=1 only the caller's
// submissions are returned.
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	if c.Query("mine") == "1" {
		submissions, err := h.submissionService.ListForUser(c.Request.Context(), user.ID, submissionPageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, submissions)
		return
	}

	submissions, err := h.submissionService.ListRecent(c.Request.Context(), submissionPageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissions)
}

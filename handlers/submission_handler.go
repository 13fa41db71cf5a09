package handlers

import (
	"net/http"

	"contesthub/services"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

func (h *SubmissionHandler) GradeSubmission(c *gin.Context) {
	submissionID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req services.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.submissionService.GradeSubmission(submissionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SubmissionHandler) GetSubmissionResult(c *gin.Context) {
	submissionID, err := parseID(c, "id")
	if err != nil {
		return
	}

	result, err := h.submissionService.GetSubmissionResult(submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SubmissionHandler) GetMySubmissions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	submissions, err := h.submissionService.FindAllByUser(userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

func (h *SubmissionHandler) GetMyContestSubmissions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	contestID, err := parseID(c, "id")
	if err != nil {
		return
	}

	submissions, err := h.submissionService.FindAllByUserAndContest(userID.(uint), contestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

func (h *SubmissionHandler) GetContestSubmissions(c *gin.Context) {
	contestID, err := parseID(c, "id")
	if err != nil {
		return
	}

	submissions, err := h.submissionService.FindAllByContest(contestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	submissionID, err := parseID(c, "id")
	if err != nil {
		return
	}

	submission, err := h.submissionService.GetSubmissionForAdmin(submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

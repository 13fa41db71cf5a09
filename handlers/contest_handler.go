package handlers

import (
	"net/http"
	"strconv"

	"contesthub/services"

	"github.com/gin-gonic/gin"
)

type ContestHandler struct {
	contestService    *services.ContestService
	submissionService *services.SubmissionService
}

func NewContestHandler(contestService *services.ContestService, submissionService *services.SubmissionService) *ContestHandler {
	return &ContestHandler{
		contestService:    contestService,
		submissionService: submissionService,
	}
}

func (h *ContestHandler) GetContests(c *gin.Context) {
	var filter services.ContestFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contests, err := h.contestService.FindAll(&filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contests)
}

func (h *ContestHandler) GetContest(c *gin.Context) {
	contestID, err := parseID(c, "id")
	if err != nil {
		return
	}

	contest, err := h.contestService.GetContestForAdmin(contestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contest)
}

func (h *ContestHandler) CreateContest(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.ContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contest, err := h.contestService.CreateContest(&req, userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contest)
}

func (h *ContestHandler) UpdateContest(c *gin.Context) {
	contestID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req services.ContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contest, err := h.contestService.UpdateContest(contestID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contest)
}

func (h *ContestHandler) DeleteContest(c *gin.Context) {
	contestID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.contestService.DeleteContest(contestID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contest deleted successfully"})
}

func (h *ContestHandler) UpsertQuestions(c *gin.Context) {
	contestID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var questions []services.QuestionUpsertRequest
	if err := c.ShouldBindJSON(&questions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contest, err := h.contestService.AddAndUpdateQuestions(contestID, questions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contest)
}

func (h *ContestHandler) DeleteQuestions(c *gin.Context) {
	contestID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req struct {
		QuestionIDs []uint `json:"question_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contest, err := h.contestService.DeleteQuestions(contestID, req.QuestionIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contest)
}

// StartContest hands a participant the answer-free contest projection
// together with a freshly opened submission.
func (h *ContestHandler) StartContest(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	contestID, err := parseID(c, "id")
	if err != nil {
		return
	}

	submission, err := h.submissionService.StartSubmission(contestID, userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	contest, err := h.contestService.GetContestForUser(contestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contest":       contest,
		"submission_id": submission.ID,
	})
}

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, err
	}
	return uint(id), nil
}

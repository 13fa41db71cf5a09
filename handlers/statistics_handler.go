package handlers

import (
	"net/http"

	"contesthub/services"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService *services.StatisticsService
}

func NewStatisticsHandler(statisticsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{
		statisticsService: statisticsService,
	}
}

func (h *StatisticsHandler) GetOverviewStatistics(c *gin.Context) {
	stats, err := h.statisticsService.GetOverviewStatistics()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *StatisticsHandler) GetContestStatistics(c *gin.Context) {
	contestID, err := parseID(c, "id")
	if err != nil {
		return
	}

	stats, err := h.statisticsService.GetContestStatistics(contestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *StatisticsHandler) GetContestsByUser(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		return
	}

	records, err := h.statisticsService.GetContestsByUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

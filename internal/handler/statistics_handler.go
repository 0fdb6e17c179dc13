package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecole-stages/stage-api/internal/models"
	"github.com/ecole-stages/stage-api/pkg/response"
)

type statisticsService interface {
	Get(ctx context.Context) (*models.DeclarationStats, bool, error)
}

// StatisticsHandler exposes the aggregate declaration counts.
type StatisticsHandler struct {
	statistics statisticsService
}

// NewStatisticsHandler constructs StatisticsHandler.
func NewStatisticsHandler(statistics statisticsService) *StatisticsHandler {
	return &StatisticsHandler{statistics: statistics}
}

// Get godoc
// @Summary Declaration statistics
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics [get]
func (h *StatisticsHandler) Get(c *gin.Context) {
	stats, cacheHit, err := h.statistics.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, map[string]interface{}{"cache_hit": cacheHit})
}

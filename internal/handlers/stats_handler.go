package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmartEval-2025/assessment-platform/internal/services"
	"github.com/SmartEval-2025/assessment-platform/internal/utils"
)

type StatsHandler struct {
	BaseHandler
	statsService services.StatsService
}

func NewStatsHandler(statsService services.StatsService, logger utils.Logger) *StatsHandler {
	return &StatsHandler{
		BaseHandler:  NewBaseHandler(logger),
		statsService: statsService,
	}
}

// GetAssessmentStats returns aggregate statistics for an assessment
// @Summary Get assessment statistics
// @Description Returns submission rate, averages and grade distribution; creator only
// @Tags stats
// @Produce json
// @Param id path uint true "Assessment ID"
// @Success 200 {object} scoring.AssessmentStats
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/stats [get]
func (h *StatsHandler) GetAssessmentStats(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting assessment stats", "assessment_id", id)

	user := h.currentUser(c)
	if user == nil {
		return
	}

	stats, err := h.statsService.AssessmentStats(c.Request.Context(), id, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetStudentStats returns the current student's aggregate statistics
// @Summary Get my statistics
// @Description Returns success rate and activity streaks for the authenticated student
// @Tags stats
// @Produce json
// @Success 200 {object} scoring.StudentStats
// @Failure 401 {object} ErrorResponse
// @Router /students/me/stats [get]
func (h *StatsHandler) GetStudentStats(c *gin.Context) {
	h.LogRequest(c, "Getting student stats")

	user := h.currentUser(c)
	if user == nil {
		return
	}

	stats, err := h.statsService.StudentStats(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

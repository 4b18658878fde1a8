package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmartEval-2025/assessment-platform/internal/services"
	"github.com/SmartEval-2025/assessment-platform/internal/utils"
)

type ResultHandler struct {
	BaseHandler
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler:   NewBaseHandler(logger),
		resultService: resultService,
	}
}

// GetMySubmission returns the current student's result for an assessment
// @Summary Get my submission
// @Description Returns the authenticated student's graded result for an assessment
// @Tags results
// @Produce json
// @Param id path uint true "Assessment ID"
// @Success 200 {object} services.ResultResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/submission/me [get]
func (h *ResultHandler) GetMySubmission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user := h.currentUser(c)
	if user == nil {
		return
	}

	result, err := h.resultService.GetMine(c.Request.Context(), id, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListMyResults lists all results of the current student
// @Summary List my results
// @Description Lists every graded result of the authenticated student
// @Tags results
// @Produce json
// @Success 200 {array} services.ResultResponse
// @Failure 401 {object} ErrorResponse
// @Router /results/student/me [get]
func (h *ResultHandler) ListMyResults(c *gin.Context) {
	h.LogRequest(c, "Listing student results")

	user := h.currentUser(c)
	if user == nil {
		return
	}

	results, err := h.resultService.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ListAssessmentResults lists all results of an assessment
// @Summary List assessment results
// @Description Lists all graded results of an assessment; creator only, once the window has ended
// @Tags results
// @Produce json
// @Param id path uint true "Assessment ID"
// @Success 200 {array} services.ResultResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/results [get]
func (h *ResultHandler) ListAssessmentResults(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Listing assessment results", "assessment_id", id)

	user := h.currentUser(c)
	if user == nil {
		return
	}

	results, err := h.resultService.ListByAssessment(c.Request.Context(), id, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

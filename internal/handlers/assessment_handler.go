package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/services"
	"github.com/SmartEval-2025/assessment-platform/internal/utils"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

type AssessmentHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
	validator         *validator.Validator
}

func NewAssessmentHandler(
	assessmentService services.AssessmentService,
	validator *validator.Validator,
	logger utils.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
		validator:         validator,
	}
}

// CreateAssessment creates a new assessment
// @Summary Create assessment
// @Description Creates a new timed assessment with questions and assigned students
// @Tags assessments
// @Accept json
// @Produce json
// @Param assessment body services.CreateAssessmentRequest true "Assessment data"
// @Success 201 {object} services.AssessmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /assessments [post]
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	h.LogRequest(c, "Creating assessment")

	var req services.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user := h.currentUser(c)
	if user == nil {
		return
	}

	assessment, err := h.assessmentService.Create(c.Request.Context(), &req, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assessment)
}

// GetAssessment returns a single assessment
// @Summary Get assessment
// @Description Returns an assessment with its derived window phase
// @Tags assessments
// @Produce json
// @Param id path uint true "Assessment ID"
// @Success 200 {object} services.AssessmentResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id} [get]
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting assessment", "assessment_id", id)

	user := h.currentUser(c)
	if user == nil {
		return
	}

	assessment, err := h.assessmentService.GetByID(c.Request.Context(), id, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// GetAssessmentStatus returns the assessment window status
// @Summary Get assessment status
// @Description Returns the phase and remaining seconds of an assessment window
// @Tags assessments
// @Produce json
// @Param id path uint true "Assessment ID"
// @Success 200 {object} services.AssessmentStatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/status [get]
func (h *AssessmentHandler) GetAssessmentStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	status, err := h.assessmentService.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// ListMyAssessments lists assessments created by the current professor
// @Summary List my assessments
// @Description Lists assessments created by the authenticated professor
// @Tags assessments
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.AssessmentListResponse
// @Failure 401 {object} ErrorResponse
// @Router /assessments/professor/me [get]
func (h *AssessmentHandler) ListMyAssessments(c *gin.Context) {
	h.LogRequest(c, "Listing assessments by creator")

	user := h.currentUser(c)
	if user == nil {
		return
	}

	filters := h.listFilters(c)
	list, err := h.assessmentService.ListByCreator(c.Request.Context(), user.ID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// ListAssignedAssessments lists assessments assigned to the current student
// @Summary List assigned assessments
// @Description Lists assessments the authenticated student is assigned to
// @Tags assessments
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.AssessmentListResponse
// @Failure 401 {object} ErrorResponse
// @Router /assessments/student/me [get]
func (h *AssessmentHandler) ListAssignedAssessments(c *gin.Context) {
	h.LogRequest(c, "Listing assigned assessments")

	user := h.currentUser(c)
	if user == nil {
		return
	}

	filters := h.listFilters(c)
	list, err := h.assessmentService.ListAssigned(c.Request.Context(), user.Email, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// DeleteAssessment deletes an assessment
// @Summary Delete assessment
// @Description Deletes an assessment; only its creator may do this
// @Tags assessments
// @Produce json
// @Param id path uint true "Assessment ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id} [delete]
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting assessment", "assessment_id", id)

	user := h.currentUser(c)
	if user == nil {
		return
	}

	if err := h.assessmentService.Delete(c.Request.Context(), id, user.ID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Assessment deleted successfully"})
}

func (h *AssessmentHandler) listFilters(c *gin.Context) repositories.AssessmentFilters {
	return repositories.AssessmentFilters{
		Limit:     h.parseIntQuery(c, "limit", 20),
		Offset:    h.parseIntQuery(c, "offset", 0),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
}

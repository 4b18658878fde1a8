package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SmartEval-2025/assessment-platform/internal/services"
	"github.com/SmartEval-2025/assessment-platform/internal/utils"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *validator.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      validator,
	}
}

// StartSession starts or resumes a taking session
// @Summary Start taking session
// @Description Starts a timed taking session for an open assessment, or resumes the live one
// @Tags sessions
// @Produce json
// @Param id path uint true "Assessment ID"
// @Success 201 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /assessments/{id}/session [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Starting taking session", "assessment_id", id)

	user := h.currentUser(c)
	if user == nil {
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), id, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// SubmitAnswer records an answer for one question
// @Summary Submit answer
// @Description Records the selected option for a question in a live session; later calls overwrite
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Question index"
// @Param answer body services.SubmitAnswerRequest true "Selected option"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/answers/{index} [put]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	sessionID := c.Param("id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid index parameter",
			Details: "expected a non-negative integer",
		})
		return
	}

	var req services.SubmitAnswerRequest
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

	if err := h.sessionService.Answer(c.Request.Context(), sessionID, index, &req, user.ID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Answer recorded"})
}

// GetSessionProgress returns remaining time and answered count
// @Summary Get session progress
// @Description Returns the remaining seconds and answer progress of a live session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionProgressResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/remaining [get]
func (h *SessionHandler) GetSessionProgress(c *gin.Context) {
	sessionID := c.Param("id")

	user := h.currentUser(c)
	if user == nil {
		return
	}

	progress, err := h.sessionService.Progress(c.Request.Context(), sessionID, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// SubmitSession submits the session for grading
// @Summary Submit session
// @Description Stops the countdown and submits the buffered answers for grading
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.ResultResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	sessionID := c.Param("id")

	h.LogRequest(c, "Submitting taking session", "session_id", sessionID)

	user := h.currentUser(c)
	if user == nil {
		return
	}

	result, err := h.sessionService.Submit(c.Request.Context(), sessionID, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/services"
	"github.com/SmartEval-2025/assessment-platform/internal/utils"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

// ErrorResponse is the uniform error body returned by all handlers.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse wraps successful payloads where a bare object would
// be ambiguous.
type SuccessResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// BaseHandler carries the pieces every handler needs.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger
// when one is present.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	logger := utils.FromContext(c.Request.Context(), h.logger)
	args = append(args, "method", c.Request.Method, "path", c.Request.URL.Path)
	logger.Info(msg, args...)
}

// parseIDParam parses a uint path parameter. On failure it writes a
// 400 response and returns 0; callers must return immediately when the
// result is 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: "expected a positive integer, got " + strconv.Quote(raw),
		})
		return 0
	}
	return uint(id)
}

// parseIntQuery parses an optional integer query parameter with a
// fallback.
func (h *BaseHandler) parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// currentUser returns the authenticated user placed in the context by
// the auth middleware. On absence it writes a 401 response and returns
// nil.
func (h *BaseHandler) currentUser(c *gin.Context) *models.User {
	value, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return nil
	}
	return user
}

// handleServiceError translates service-layer errors into HTTP status
// codes with a consistent body.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, services.ErrAssessmentNotFound),
		errors.Is(err, services.ErrResultNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrAlreadySubmitted),
		errors.Is(err, services.ErrSessionInProgress),
		errors.Is(err, services.ErrTaskAlreadyComplete):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Conflict",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrAssessmentUpcoming),
		errors.Is(err, services.ErrAssessmentHasEnded),
		errors.Is(err, services.ErrAssessmentNotOpen),
		errors.Is(err, services.ErrAssessmentNotEnded):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Assessment window does not allow this action",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrNotAssigned), services.IsPermissionError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Permission denied",
			Details: err.Error(),
		})
	case services.IsValidationError(err), errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		logger := utils.FromContext(c.Request.Context(), h.logger)
		logger.Error("unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userRepo repositories.UserRepository
}

func NewUserHandler(userRepo repositories.UserRepository, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userRepo:    userRepo,
	}
}

// GetCurrentUser returns the authenticated user's profile
// @Summary Get current user
// @Description Returns the profile of the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListStudents lists registered students
// @Summary List students
// @Description Lists student accounts for assignment pickers
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Failure 500 {object} ErrorResponse
// @Router /users/students [get]
func (h *UserHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	students, err := h.userRepo.ListByRole(c.Request.Context(), models.RoleStudent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to list students",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, students)
}

// GetUser returns a user by ID
// @Summary Get user
// @Description Returns a user profile by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "User ID is required",
		})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

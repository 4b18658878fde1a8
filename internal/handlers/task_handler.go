package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/services"
	"github.com/SmartEval-2025/assessment-platform/internal/utils"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

type TaskHandler struct {
	BaseHandler
	taskService services.TaskService
	validator   *validator.Validator
}

func NewTaskHandler(
	taskService services.TaskService,
	validator *validator.Validator,
	logger utils.Logger,
) *TaskHandler {
	return &TaskHandler{
		BaseHandler: NewBaseHandler(logger),
		taskService: taskService,
		validator:   validator,
	}
}

// CreateTask creates a personal task
// @Summary Create task
// @Description Creates a personal task with a time window and priority
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body services.CreateTaskRequest true "Task data"
// @Success 201 {object} services.TaskResponse
// @Failure 400 {object} ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	h.LogRequest(c, "Creating task")

	var req services.CreateTaskRequest
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

	task, err := h.taskService.Create(c.Request.Context(), &req, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTask returns a single task
// @Summary Get task
// @Description Returns one of the authenticated user's tasks
// @Tags tasks
// @Produce json
// @Param id path uint true "Task ID"
// @Success 200 {object} services.TaskResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user := h.currentUser(c)
	if user == nil {
		return
	}

	task, err := h.taskService.GetByID(c.Request.Context(), id, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListTasks lists the current user's tasks
// @Summary List tasks
// @Description Lists the authenticated user's tasks filtered by status and priority
// @Tags tasks
// @Produce json
// @Param status query string false "Task status filter"
// @Param priority query string false "Task priority filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.TaskListResponse
// @Failure 401 {object} ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	h.LogRequest(c, "Listing tasks")

	user := h.currentUser(c)
	if user == nil {
		return
	}

	filters := repositories.TaskFilters{
		Limit:  h.parseIntQuery(c, "limit", 50),
		Offset: h.parseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		filters.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.TaskPriority(raw)
		filters.Priority = &priority
	}

	list, err := h.taskService.List(c.Request.Context(), user.ID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// UpdateTask updates a task
// @Summary Update task
// @Description Updates the fields of one of the authenticated user's tasks
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path uint true "Task ID"
// @Param task body services.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} services.TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating task", "task_id", id)

	var req services.UpdateTaskRequest
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

	task, err := h.taskService.Update(c.Request.Context(), id, &req, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// CompleteTask marks a task completed
// @Summary Complete task
// @Description Marks one of the authenticated user's tasks as completed
// @Tags tasks
// @Produce json
// @Param id path uint true "Task ID"
// @Success 200 {object} services.TaskResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tasks/{id}/complete [put]
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Completing task", "task_id", id)

	user := h.currentUser(c)
	if user == nil {
		return
	}

	task, err := h.taskService.Complete(c.Request.Context(), id, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatus changes only the status of a task
// @Summary Update task status
// @Description Moves one of the authenticated user's tasks to a new status
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path uint true "Task ID"
// @Param status body object true "New status"
// @Success 200 {object} services.TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/status [put]
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating task status", "task_id", id)

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
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

	req := services.UpdateTaskRequest{Status: &body.Status}
	task, err := h.taskService.Update(c.Request.Context(), id, &req, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task
// @Summary Delete task
// @Description Deletes one of the authenticated user's tasks
// @Tags tasks
// @Produce json
// @Param id path uint true "Task ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting task", "task_id", id)

	user := h.currentUser(c)
	if user == nil {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), id, user.ID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Task deleted successfully"})
}

// ListDueSoonTasks lists tasks approaching their deadline
// @Summary List due-soon tasks
// @Description Lists incomplete tasks whose deadline falls within the given horizon
// @Tags tasks
// @Produce json
// @Param within_hours query int false "Horizon in hours, default 24"
// @Success 200 {array} services.TaskResponse
// @Failure 401 {object} ErrorResponse
// @Router /tasks/due-soon [get]
func (h *TaskHandler) ListDueSoonTasks(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	withinHours := h.parseIntQuery(c, "within_hours", 24)
	if withinHours <= 0 {
		withinHours = 24
	}

	tasks, err := h.taskService.ListDueSoon(c.Request.Context(), user.ID, time.Duration(withinHours)*time.Hour)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

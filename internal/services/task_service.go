package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

type taskService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	events    NotificationEventService
}

func NewTaskService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, events NotificationEventService) TaskService {
	return &taskService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		events:    events,
	}
}

func (s *taskService) Create(ctx context.Context, req *CreateTaskRequest, studentID string) (*TaskResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("invalid task request", err)
	}
	if errs := validator.ValidateTaskWindow(req.StartAt, req.EndAt); len(errs) > 0 {
		return nil, NewValidationError("invalid task window", errs)
	}

	task := &models.Task{
		StudentID:   studentID,
		Title:       req.Title,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Status:      models.TaskPending,
		Priority:    models.TaskPriority(req.Priority),
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	if err := s.repo.Task().Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("Task created", "task_id", task.ID, "student_id", studentID)
	return s.toResponse(task), nil
}

func (s *taskService) GetByID(ctx context.Context, id uint, studentID string) (*TaskResponse, error) {
	task, err := s.ownedTask(ctx, id, studentID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(task), nil
}

func (s *taskService) List(ctx context.Context, studentID string, filters repositories.TaskFilters) (*TaskListResponse, error) {
	tasks, total, err := s.repo.Task().ListByStudent(ctx, studentID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	out := make([]*TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, s.toResponse(t))
	}
	return &TaskListResponse{Tasks: out, Total: total}, nil
}

func (s *taskService) Update(ctx context.Context, id uint, req *UpdateTaskRequest, studentID string) (*TaskResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("invalid task update", err)
	}

	task, err := s.ownedTask(ctx, id, studentID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.StartAt != nil {
		task.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		task.EndAt = *req.EndAt
	}
	if errs := validator.ValidateTaskWindow(task.StartAt, task.EndAt); len(errs) > 0 {
		return nil, NewValidationError("invalid task window", errs)
	}
	if req.Status != nil {
		task.Status = models.TaskStatus(*req.Status)
		if task.Status == models.TaskCompleted && task.CompletedAt == nil {
			now := time.Now().UTC()
			task.CompletedAt = &now
		}
	}
	if req.Priority != nil {
		task.Priority = models.TaskPriority(*req.Priority)
	}

	if err := s.repo.Task().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.toResponse(task), nil
}

// Complete marks the task done. Completing twice is an error so the
// client learns its view is stale.
func (s *taskService) Complete(ctx context.Context, id uint, studentID string) (*TaskResponse, error) {
	task, err := s.ownedTask(ctx, id, studentID)
	if err != nil {
		return nil, err
	}
	if task.Status == models.TaskCompleted {
		return nil, ErrTaskAlreadyComplete
	}

	now := time.Now().UTC()
	task.Status = models.TaskCompleted
	task.CompletedAt = &now

	if err := s.repo.Task().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	s.logger.Info("Task completed", "task_id", id, "student_id", studentID)
	return s.toResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, id uint, studentID string) error {
	if _, err := s.ownedTask(ctx, id, studentID); err != nil {
		return err
	}
	if err := s.repo.Task().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ListDueSoon returns incomplete tasks due inside the window and emits
// a due-soon event for each.
func (s *taskService) ListDueSoon(ctx context.Context, studentID string, within time.Duration) ([]*TaskResponse, error) {
	tasks, err := s.repo.Task().ListDueSoon(ctx, studentID, within)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}

	out := make([]*TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		if err := s.events.TaskDueSoon(ctx, t); err != nil {
			s.logger.Warn("failed to publish due-soon event", "task_id", t.ID, "error", err)
		}
		out = append(out, s.toResponse(t))
	}
	return out, nil
}

// ===== HELPERS =====

func (s *taskService) ownedTask(ctx context.Context, id uint, studentID string) (*models.Task, error) {
	task, err := s.repo.Task().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task.StudentID != studentID {
		return nil, NewPermissionError(studentID, id, "task", "access", "task belongs to another student")
	}
	return task, nil
}

func (s *taskService) toResponse(task *models.Task) *TaskResponse {
	return &TaskResponse{
		Task:    task,
		Overdue: task.IsOverdue(time.Now()),
	}
}

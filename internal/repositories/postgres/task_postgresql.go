package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
)

type TaskPostgreSQL struct {
	db *gorm.DB
}

func NewTaskPostgreSQL(db *gorm.DB) repositories.TaskRepository {
	return &TaskPostgreSQL{db: db}
}

func (t *TaskPostgreSQL) Create(ctx context.Context, task *models.Task) error {
	if err := t.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (t *TaskPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := t.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (t *TaskPostgreSQL) ListByStudent(ctx context.Context, studentID string, filters repositories.TaskFilters) ([]*models.Task, int64, error) {
	query := t.db.WithContext(ctx).Model(&models.Task{}).Where("student_id = ?", studentID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.DueBefore != nil {
		query = query.Where("end_at <= ?", *filters.DueBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	query = query.Order("end_at ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var tasks []*models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListDueSoon returns incomplete tasks whose deadline falls inside the
// window starting now.
func (t *TaskPostgreSQL) ListDueSoon(ctx context.Context, studentID string, within time.Duration) ([]*models.Task, error) {
	now := time.Now()
	var tasks []*models.Task
	err := t.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("status <> ?", models.TaskCompleted).
		Where("end_at > ? AND end_at <= ?", now, now.Add(within)).
		Order("end_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}
	return tasks, nil
}

func (t *TaskPostgreSQL) Update(ctx context.Context, task *models.Task) error {
	if err := t.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (t *TaskPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := t.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskOngoing   TaskStatus = "ONGOING"
	TaskCompleted TaskStatus = "COMPLETED"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

type Task struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	StudentID   string  `json:"student_id" gorm:"not null;index;size:255"`
	Title       string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	StartAt time.Time `json:"start_date_time" gorm:"not null"`
	EndAt   time.Time `json:"end_date_time" gorm:"not null;index"`

	Status   TaskStatus   `json:"status" gorm:"default:PENDING;index" validate:"omitempty,oneof=PENDING ONGOING COMPLETED"`
	Priority TaskPriority `json:"priority" gorm:"default:MEDIUM" validate:"omitempty,oneof=LOW MEDIUM HIGH"`

	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Task) TableName() string {
	return "tasks"
}

// IsOverdue is recomputed on every read; only Status is stored. A
// completed task is never overdue, whatever its end time.
func (t *Task) IsOverdue(now time.Time) bool {
	return now.After(t.EndAt) && t.Status != TaskCompleted
}

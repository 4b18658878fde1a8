package repositories

import (
	"context"
	"time"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type AssessmentFilters struct {
	CreatedBy     *string    `json:"created_by"`
	AssignedEmail *string    `json:"assigned_email"`
	DateFrom      *time.Time `json:"date_from"`
	DateTo        *time.Time `json:"date_to"`
	Limit         int        `json:"limit"`
	Offset        int        `json:"offset"`
	SortBy        string     `json:"sort_by"`    // "created_at", "title", "start_time"
	SortOrder     string     `json:"sort_order"` // "asc", "desc"
}

type TaskFilters struct {
	Status    *models.TaskStatus   `json:"status"`
	Priority  *models.TaskPriority `json:"priority"`
	DueBefore *time.Time           `json:"due_before"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// AssessmentRepository persists assessments together with their
// question lists.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id uint) (*models.Assessment, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Assessment, error)
	ListByCreator(ctx context.Context, creatorID string, filters AssessmentFilters) ([]*models.Assessment, int64, error)
	ListByAssignedEmail(ctx context.Context, email string, filters AssessmentFilters) ([]*models.Assessment, int64, error)
	Delete(ctx context.Context, id uint) error
}

// ResultRepository persists submitted results. Create must surface a
// duplicate-submission conflict distinctly so the service layer can
// map it to the right error.
type ResultRepository interface {
	Create(ctx context.Context, result *models.AssessmentResult) error
	GetByAssessmentAndStudent(ctx context.Context, assessmentID uint, studentID string) (*models.AssessmentResult, error)
	ListByAssessment(ctx context.Context, assessmentID uint) ([]*models.AssessmentResult, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.AssessmentResult, error)
	ExistsByAssessmentAndStudent(ctx context.Context, assessmentID uint, studentID string) (bool, error)
}

// TaskRepository persists personal tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	ListByStudent(ctx context.Context, studentID string, filters TaskFilters) ([]*models.Task, int64, error)
	ListDueSoon(ctx context.Context, studentID string, within time.Duration) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uint) error
}

// UserRepository is the read-only view of the identity provider's user
// directory.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmails(ctx context.Context, emails []string) ([]*models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)
}

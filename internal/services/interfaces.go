package services

import (
	"context"
	"time"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/schedule"
	"github.com/SmartEval-2025/assessment-platform/internal/scoring"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateAssessmentRequest = validator.AssessmentCreateRequest
type CreateTaskRequest = validator.TaskCreateRequest
type UpdateTaskRequest = validator.TaskUpdateRequest
type SubmitAnswerRequest = validator.AnswerRequest

type AssessmentResponse struct {
	*models.Assessment
	Phase         schedule.Phase `json:"phase"`
	QuestionCount int            `json:"question_count"`
	CanEdit       bool           `json:"can_edit"`
	CanDelete     bool           `json:"can_delete"`
	CanTake       bool           `json:"can_take"`
}

type AssessmentListResponse struct {
	Assessments []*AssessmentResponse `json:"assessments"`
	Total       int64                 `json:"total"`
}

// AssessmentStatusResponse is the lightweight polling view of an
// assessment's window.
type AssessmentStatusResponse struct {
	AssessmentID   uint           `json:"assessment_id"`
	Phase          schedule.Phase `json:"phase"`
	TimeUntilStart int            `json:"time_until_start"` // seconds, 0 once started
	TimeRemaining  int            `json:"time_remaining"`   // seconds, 0 once ended
}

// TakingQuestion is a question as shown to a student mid-session: the
// correct answer never leaves the server.
type TakingQuestion struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type SessionResponse struct {
	SessionID     string           `json:"session_id"`
	AssessmentID  uint             `json:"assessment_id"`
	Title         string           `json:"title"`
	Questions     []TakingQuestion `json:"questions"`
	TimeRemaining int              `json:"time_remaining"` // seconds
}

type SessionProgressResponse struct {
	SessionID     string `json:"session_id"`
	TimeRemaining int    `json:"time_remaining"`
	Answered      int    `json:"answered"`
	Total         int    `json:"total"`
	Submitted     bool   `json:"submitted"`
}

type ResultResponse struct {
	*models.AssessmentResult
	AssessmentTitle string  `json:"assessment_title,omitempty"`
	TotalQuestions  int     `json:"total_questions"`
	Percentage      float64 `json:"percentage"`
	Letter          string  `json:"letter"`
}

type TaskResponse struct {
	*models.Task
	Overdue bool `json:"overdue"`
}

type TaskListResponse struct {
	Tasks []*TaskResponse `json:"tasks"`
	Total int64           `json:"total"`
}

type FlowchartResponse struct {
	Diagram string `json:"diagram"`
	Source  string `json:"source"` // always "fallback" for rule-generated diagrams
}

// ===== SERVICE INTERFACES =====

// AssessmentService manages the professor-facing assessment lifecycle.
type AssessmentService interface {
	Create(ctx context.Context, req *CreateAssessmentRequest, creatorID string) (*AssessmentResponse, error)
	GetByID(ctx context.Context, id uint, userID string) (*AssessmentResponse, error)
	GetStatus(ctx context.Context, id uint) (*AssessmentStatusResponse, error)
	ListByCreator(ctx context.Context, creatorID string, filters repositories.AssessmentFilters) (*AssessmentListResponse, error)
	ListAssigned(ctx context.Context, studentEmail string, filters repositories.AssessmentFilters) (*AssessmentListResponse, error)
	Delete(ctx context.Context, id uint, userID string) error
}

// SessionService runs live taking sessions: one per student per open
// assessment, each with its own countdown and submission guard.
type SessionService interface {
	Start(ctx context.Context, assessmentID uint, student *models.User) (*SessionResponse, error)
	Answer(ctx context.Context, sessionID string, questionIndex int, req *SubmitAnswerRequest, studentID string) error
	Progress(ctx context.Context, sessionID string, studentID string) (*SessionProgressResponse, error)
	Submit(ctx context.Context, sessionID string, studentID string) (*ResultResponse, error)

	// ActiveSessions reports how many sessions are live.
	ActiveSessions() int
	// Shutdown stops every live session without submitting.
	Shutdown(ctx context.Context)
}

// ResultService grades and persists submissions and serves result
// queries.
type ResultService interface {
	SubmitAnswers(ctx context.Context, assessmentID uint, studentID string, answers []int) (*ResultResponse, error)
	GetMine(ctx context.Context, assessmentID uint, studentID string) (*ResultResponse, error)
	ListMine(ctx context.Context, studentID string) ([]*ResultResponse, error)
	ListByAssessment(ctx context.Context, assessmentID uint, userID string) ([]*ResultResponse, error)
	HasSubmitted(ctx context.Context, assessmentID uint, studentID string) (bool, error)
}

// StatsService aggregates assessment and student statistics.
type StatsService interface {
	AssessmentStats(ctx context.Context, assessmentID uint, userID string) (*scoring.AssessmentStats, error)
	StudentStats(ctx context.Context, studentID string) (*scoring.StudentStats, error)
}

// TaskService manages the personal task tracker.
type TaskService interface {
	Create(ctx context.Context, req *CreateTaskRequest, studentID string) (*TaskResponse, error)
	GetByID(ctx context.Context, id uint, studentID string) (*TaskResponse, error)
	List(ctx context.Context, studentID string, filters repositories.TaskFilters) (*TaskListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateTaskRequest, studentID string) (*TaskResponse, error)
	Complete(ctx context.Context, id uint, studentID string) (*TaskResponse, error)
	Delete(ctx context.Context, id uint, studentID string) error
	ListDueSoon(ctx context.Context, studentID string, within time.Duration) ([]*TaskResponse, error)
}

// ExportService renders an assessment's results as a downloadable
// file.
type ExportService interface {
	ExportCSV(ctx context.Context, assessmentID uint, userID string) ([]byte, string, error)
	ExportXLSX(ctx context.Context, assessmentID uint, userID string) ([]byte, string, error)
}

// FlowchartService generates flowchart diagrams from prompts.
type FlowchartService interface {
	Generate(ctx context.Context, req *validator.FlowchartRequest) (*FlowchartResponse, error)
}

// NotificationEventService publishes domain events for the
// notification pipeline.
type NotificationEventService interface {
	AssessmentPublished(ctx context.Context, assessment *models.Assessment) error
	ResultSubmitted(ctx context.Context, result *models.AssessmentResult, questionCount int) error
	TaskDueSoon(ctx context.Context, task *models.Task) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Assessment() AssessmentService
	Session() SessionService
	Result() ResultService
	Stats() StatsService
	Task() TaskService
	Export() ExportService
	Flowchart() FlowchartService
	NotificationEvent() NotificationEventService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

package validator

import "time"

// QuestionRequest is one question inside an assessment create request.
type QuestionRequest struct {
	Text          string   `json:"text" validate:"required,min=1,max=2000"`
	Options       []string `json:"options" validate:"required,min=2,max=10,dive,required,max=500"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
}

// AssessmentCreateRequest creates an assessment with its question list
// and taking window in one shot.
type AssessmentCreateRequest struct {
	Title            string            `json:"title" validate:"required,min=3,max=255"`
	Description      *string           `json:"description" validate:"omitempty,max=2000"`
	StartTime        time.Time         `json:"start_time" validate:"required"`
	EndTime          time.Time         `json:"end_time" validate:"required"`
	AssignedStudents []string          `json:"assigned_students" validate:"required,min=1,dive,required,email"`
	Questions        []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// AnswerRequest records one option choice inside a taking session.
type AnswerRequest struct {
	OptionIndex int `json:"option_index" validate:"gte=0"`
}

// TaskCreateRequest creates a personal task.
type TaskCreateRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	StartAt     time.Time `json:"start_date_time" validate:"required"`
	EndAt       time.Time `json:"end_date_time" validate:"required"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// TaskUpdateRequest partially updates a task. Nil fields are left
// untouched.
type TaskUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	StartAt     *time.Time `json:"start_date_time"`
	EndAt       *time.Time `json:"end_date_time"`
	Status      *string    `json:"status" validate:"omitempty,oneof=PENDING ONGOING COMPLETED"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// FlowchartRequest asks for a generated flowchart from a prompt.
type FlowchartRequest struct {
	Prompt string `json:"prompt" validate:"max=2000"`
}

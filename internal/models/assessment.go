package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Assessment struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	// Taking window, UTC. The phase (FUTURE/ONGOING/PAST) is never
	// stored; it is derived from these on every evaluation.
	StartTime time.Time `json:"start_time" gorm:"not null;index"`
	EndTime   time.Time `json:"end_time" gorm:"not null;index"`

	// Students assigned by email. Uniqueness enforced at creation.
	AssignedStudents datatypes.JSONSlice[string] `json:"assigned_students" gorm:"type:jsonb"`

	// Metadata
	CreatedBy string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:AssessmentID"`
	Creator   User       `json:"creator" gorm:"foreignKey:CreatedBy"`
}

// Question order is fixed at creation; the ordinal position is the
// correctness-matching key for submitted answer vectors.
type Question struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	AssessmentID uint `json:"assessment_id" gorm:"not null;index"`
	Position     int  `json:"position" gorm:"not null"`

	Text          string                      `json:"question_text" gorm:"type:text;not null" validate:"required"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"type:jsonb" validate:"min=2"`
	CorrectAnswer int                         `json:"correct_answer" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Assessment) TableName() string {
	return "assessments"
}

func (Question) TableName() string {
	return "questions"
}

// DurationSeconds is the full window length, used by the session engine
// to seed countdowns.
func (a *Assessment) DurationSeconds() int {
	return int(a.EndTime.Sub(a.StartTime).Seconds())
}

// IsAssigned reports whether the given student email is in the
// assigned set.
func (a *Assessment) IsAssigned(email string) bool {
	for _, e := range a.AssignedStudents {
		if e == email {
			return true
		}
	}
	return false
}

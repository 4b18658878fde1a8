package models

import (
	"time"

	"gorm.io/datatypes"
)

// AssessmentResult is the immutable record of one student's single
// submission. At most one row per (assessment, student) pair; the
// unique index is the server-side half of the submission guarantee.
type AssessmentResult struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	AssessmentID uint   `json:"assessment_id" gorm:"not null;uniqueIndex:idx_result_assessment_student"`
	StudentID    string `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_result_assessment_student"`

	// Submitted option indices, one per question in position order.
	// -1 marks an unanswered slot.
	Answers datatypes.JSONSlice[int] `json:"answers" gorm:"type:jsonb"`

	Score       int       `json:"score" gorm:"not null"`
	CompletedAt time.Time `json:"completed_at" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Assessment Assessment `json:"-" gorm:"foreignKey:AssessmentID"`
	Student    User       `json:"-" gorm:"foreignKey:StudentID"`
}

func (AssessmentResult) TableName() string {
	return "assessment_results"
}

// Percentage scores against the assigned question count, not the
// answered count. Blank slots count against the student.
func (r *AssessmentResult) Percentage(questionCount int) float64 {
	if questionCount == 0 {
		return 0
	}
	return float64(r.Score) / float64(questionCount) * 100
}

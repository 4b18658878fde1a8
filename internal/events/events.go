// Package events defines the domain events the platform emits and the
// publisher used to deliver them to the notification pipeline.
package events

import (
	"time"
)

// Event types published by the platform.
const (
	TypeAssessmentPublished = "assessment.published"
	TypeAssessmentDeleted   = "assessment.deleted"
	TypeResultSubmitted     = "result.submitted"
	TypeTaskDueSoon         = "task.due_soon"
)

// Source identifies this service in every published event.
const Source = "assessment-platform"

// Event is the envelope for all published domain events.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// AssessmentPublishedEvent announces a new assessment to its assigned
// students.
type AssessmentPublishedEvent struct {
	AssessmentID uint      `json:"assessment_id"`
	Title        string    `json:"title"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Students     []string  `json:"students"`
}

// ResultSubmittedEvent records a completed submission.
type ResultSubmittedEvent struct {
	AssessmentID uint    `json:"assessment_id"`
	StudentID    string  `json:"student_id"`
	Score        int     `json:"score"`
	Percentage   float64 `json:"percentage"`
}

// TaskDueSoonEvent flags a task approaching its deadline.
type TaskDueSoonEvent struct {
	TaskID    uint      `json:"task_id"`
	StudentID string    `json:"student_id"`
	Title     string    `json:"title"`
	DueAt     time.Time `json:"due_at"`
}

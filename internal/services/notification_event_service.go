package services

import (
	"context"
	"log/slog"

	"github.com/SmartEval-2025/assessment-platform/internal/events"
	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/scoring"
)

// notificationEventService translates domain happenings into published
// events. The notification pipeline downstream decides who gets told
// what; this service only reports facts.
type notificationEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewNotificationEventService(publisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		eventPublisher: publisher,
		logger:         logger,
	}
}

func (s *notificationEventService) AssessmentPublished(ctx context.Context, assessment *models.Assessment) error {
	return s.eventPublisher.Publish(ctx, events.TypeAssessmentPublished, events.AssessmentPublishedEvent{
		AssessmentID: assessment.ID,
		Title:        assessment.Title,
		StartTime:    assessment.StartTime,
		EndTime:      assessment.EndTime,
		Students:     assessment.AssignedStudents,
	})
}

func (s *notificationEventService) ResultSubmitted(ctx context.Context, result *models.AssessmentResult, questionCount int) error {
	return s.eventPublisher.Publish(ctx, events.TypeResultSubmitted, events.ResultSubmittedEvent{
		AssessmentID: result.AssessmentID,
		StudentID:    result.StudentID,
		Score:        result.Score,
		Percentage:   scoring.Percentage(result.Score, questionCount),
	})
}

func (s *notificationEventService) TaskDueSoon(ctx context.Context, task *models.Task) error {
	return s.eventPublisher.Publish(ctx, events.TypeTaskDueSoon, events.TaskDueSoonEvent{
		TaskID:    task.ID,
		StudentID: task.StudentID,
		Title:     task.Title,
		DueAt:     task.EndAt,
	})
}

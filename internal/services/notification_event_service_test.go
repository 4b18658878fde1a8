package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SmartEval-2025/assessment-platform/internal/events"
	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"gorm.io/datatypes"
)

func TestNotificationEventService_PublishEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	mockPublisher := events.NewMockEventPublisher(logger)
	service := NewNotificationEventService(mockPublisher, logger)

	ctx := context.Background()

	t.Run("AssessmentPublished", func(t *testing.T) {
		mockPublisher.ClearEvents()

		assessment := &models.Assessment{
			ID:               1,
			Title:            "Final Exam",
			StartTime:        time.Now().Add(time.Hour),
			EndTime:          time.Now().Add(2 * time.Hour),
			AssignedStudents: datatypes.JSONSlice[string]{"a@example.com", "b@example.com"},
		}

		if err := service.AssessmentPublished(ctx, assessment); err != nil {
			t.Fatalf("Failed to publish assessment event: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.Type != events.TypeAssessmentPublished {
			t.Errorf("Expected event type %q, got %q", events.TypeAssessmentPublished, event.Type)
		}
		if event.Source != "assessment-platform" {
			t.Errorf("Expected source 'assessment-platform', got %q", event.Source)
		}
		if event.ID == "" {
			t.Error("Event ID should not be empty")
		}

		data, ok := event.Data.(events.AssessmentPublishedEvent)
		if !ok {
			t.Fatalf("Event data has type %T, want AssessmentPublishedEvent", event.Data)
		}
		if data.AssessmentID != 1 || len(data.Students) != 2 {
			t.Errorf("Event data = %+v, want assessment 1 with 2 students", data)
		}
	})

	t.Run("ResultSubmitted", func(t *testing.T) {
		mockPublisher.ClearEvents()

		result := &models.AssessmentResult{
			AssessmentID: 7,
			StudentID:    "student-1",
			Score:        3,
			CompletedAt:  time.Now(),
		}

		if err := service.ResultSubmitted(ctx, result, 4); err != nil {
			t.Fatalf("Failed to publish result event: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		data, ok := published[0].Data.(events.ResultSubmittedEvent)
		if !ok {
			t.Fatalf("Event data has type %T, want ResultSubmittedEvent", published[0].Data)
		}
		if data.Percentage != 75.0 {
			t.Errorf("Expected percentage 75, got %v", data.Percentage)
		}
	})

	t.Run("TaskDueSoon", func(t *testing.T) {
		mockPublisher.ClearEvents()

		task := &models.Task{
			ID:        3,
			StudentID: "student-1",
			Title:     "Submit essay",
			EndAt:     time.Now().Add(12 * time.Hour),
		}

		if err := service.TaskDueSoon(ctx, task); err != nil {
			t.Fatalf("Failed to publish task event: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.TypeTaskDueSoon {
			t.Errorf("Expected event type %q, got %q", events.TypeTaskDueSoon, published[0].Type)
		}
	})
}

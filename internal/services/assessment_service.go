package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/schedule"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

type assessmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	events    NotificationEventService
}

func NewAssessmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, events NotificationEventService) AssessmentService {
	return &assessmentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		events:    events,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *assessmentService) Create(ctx context.Context, req *CreateAssessmentRequest, creatorID string) (*AssessmentResponse, error) {
	s.logger.Info("Creating assessment", "creator_id", creatorID, "title", req.Title)

	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("invalid assessment request", err)
	}
	if errs := validator.ValidateAssessmentWindow(req); len(errs) > 0 {
		return nil, NewValidationError("invalid assessment window", errs)
	}

	assessment := &models.Assessment{
		Title:            req.Title,
		Description:      req.Description,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		AssignedStudents: req.AssignedStudents,
		CreatedBy:        creatorID,
	}
	for i, q := range req.Questions {
		assessment.Questions = append(assessment.Questions, models.Question{
			Position:      i,
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	if err := s.repo.Assessment().Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	s.logger.Info("Assessment created", "assessment_id", assessment.ID, "questions", len(assessment.Questions))

	if err := s.events.AssessmentPublished(ctx, assessment); err != nil {
		// Event delivery is best effort; the assessment exists either way
		s.logger.Warn("failed to publish assessment event", "assessment_id", assessment.ID, "error", err)
	}

	return s.toResponse(assessment, creatorID), nil
}

func (s *assessmentService) GetByID(ctx context.Context, id uint, userID string) (*AssessmentResponse, error) {
	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return s.toResponse(assessment, userID), nil
}

// GetStatus reports which phase the assessment window is in. Phase is
// always derived from the clock at request time, never stored.
func (s *assessmentService) GetStatus(ctx context.Context, id uint) (*AssessmentStatusResponse, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	now := time.Now()
	return &AssessmentStatusResponse{
		AssessmentID:   assessment.ID,
		Phase:          schedule.Classify(now, assessment.StartTime, assessment.EndTime),
		TimeUntilStart: schedule.UntilStart(now, assessment.StartTime),
		TimeRemaining:  schedule.Remaining(now, assessment.EndTime),
	}, nil
}

func (s *assessmentService) ListByCreator(ctx context.Context, creatorID string, filters repositories.AssessmentFilters) (*AssessmentListResponse, error) {
	assessments, total, err := s.repo.Assessment().ListByCreator(ctx, creatorID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return s.toListResponse(assessments, total, creatorID), nil
}

func (s *assessmentService) ListAssigned(ctx context.Context, studentEmail string, filters repositories.AssessmentFilters) (*AssessmentListResponse, error) {
	assessments, total, err := s.repo.Assessment().ListByAssignedEmail(ctx, studentEmail, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned assessments: %w", err)
	}
	return s.toListResponse(assessments, total, ""), nil
}

func (s *assessmentService) Delete(ctx context.Context, id uint, userID string) error {
	assessment, err := s.repo.Assessment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAssessmentNotFound
		}
		return fmt.Errorf("failed to get assessment: %w", err)
	}

	if assessment.CreatedBy != userID {
		return NewPermissionError(userID, id, "assessment", "delete", "not the creator")
	}

	if err := s.repo.Assessment().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}

	s.logger.Info("Assessment deleted", "assessment_id", id, "user_id", userID)
	return nil
}

// ===== HELPERS =====

func (s *assessmentService) toResponse(assessment *models.Assessment, userID string) *AssessmentResponse {
	now := time.Now()
	phase := schedule.Classify(now, assessment.StartTime, assessment.EndTime)
	isCreator := userID != "" && assessment.CreatedBy == userID

	return &AssessmentResponse{
		Assessment:    assessment,
		Phase:         phase,
		QuestionCount: len(assessment.Questions),
		CanEdit:       isCreator && phase == schedule.PhaseFuture,
		CanDelete:     isCreator,
		CanTake:       phase == schedule.PhaseOngoing,
	}
}

func (s *assessmentService) toListResponse(assessments []*models.Assessment, total int64, userID string) *AssessmentListResponse {
	out := make([]*AssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, s.toResponse(a, userID))
	}
	return &AssessmentListResponse{Assessments: out, Total: total}
}

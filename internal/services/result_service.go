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
	"github.com/SmartEval-2025/assessment-platform/internal/scoring"
)

type resultService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
	events NotificationEventService
}

func NewResultService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, events NotificationEventService) ResultService {
	return &resultService{
		repo:   repo,
		db:     db,
		logger: logger,
		events: events,
	}
}

// SubmitAnswers grades the answer vector against the stored question
// list and persists the result. Grading happens here, server side; the
// client only ever supplies selected option indices. The unique index
// on (assessment_id, student_id) turns a racing duplicate into
// ErrAlreadySubmitted.
func (s *resultService) SubmitAnswers(ctx context.Context, assessmentID uint, studentID string, answers []int) (*ResultResponse, error) {
	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, assessmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	score := scoring.Grade(answers, assessment.Questions)
	result := &models.AssessmentResult{
		AssessmentID: assessmentID,
		StudentID:    studentID,
		Answers:      answers,
		Score:        score,
		CompletedAt:  time.Now().UTC(),
	}

	if err := s.repo.Result().Create(ctx, result); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	s.logger.Info("Result submitted",
		"assessment_id", assessmentID,
		"student_id", studentID,
		"score", score,
		"total", len(assessment.Questions))

	if err := s.events.ResultSubmitted(ctx, result, len(assessment.Questions)); err != nil {
		s.logger.Warn("failed to publish result event", "assessment_id", assessmentID, "error", err)
	}

	return s.toResponse(result, assessment), nil
}

func (s *resultService) GetMine(ctx context.Context, assessmentID uint, studentID string) (*ResultResponse, error) {
	result, err := s.repo.Result().GetByAssessmentAndStudent(ctx, assessmentID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	return s.toResponse(result, assessment), nil
}

func (s *resultService) ListMine(ctx context.Context, studentID string) ([]*ResultResponse, error) {
	results, err := s.repo.Result().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	out := make([]*ResultResponse, 0, len(results))
	for _, r := range results {
		assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, r.AssessmentID)
		if err != nil {
			// Assessment may have been deleted; keep the bare result
			out = append(out, s.toResponse(r, nil))
			continue
		}
		out = append(out, s.toResponse(r, assessment))
	}
	return out, nil
}

// ListByAssessment serves the professor's results table. Results are
// withheld until the taking window has ended.
func (s *resultService) ListByAssessment(ctx context.Context, assessmentID uint, userID string) ([]*ResultResponse, error) {
	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, assessmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	if assessment.CreatedBy != userID {
		return nil, NewPermissionError(userID, assessmentID, "assessment", "view_results", "not the creator")
	}
	if schedule.Classify(time.Now(), assessment.StartTime, assessment.EndTime) != schedule.PhasePast {
		return nil, ErrAssessmentNotEnded
	}

	results, err := s.repo.Result().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	out := make([]*ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, s.toResponse(r, assessment))
	}
	return out, nil
}

func (s *resultService) HasSubmitted(ctx context.Context, assessmentID uint, studentID string) (bool, error) {
	return s.repo.Result().ExistsByAssessmentAndStudent(ctx, assessmentID, studentID)
}

func (s *resultService) toResponse(result *models.AssessmentResult, assessment *models.Assessment) *ResultResponse {
	resp := &ResultResponse{AssessmentResult: result}
	if assessment != nil {
		resp.AssessmentTitle = assessment.Title
		resp.TotalQuestions = len(assessment.Questions)
		resp.Percentage = scoring.Percentage(result.Score, len(assessment.Questions))
		resp.Letter = scoring.Letter(resp.Percentage)
	}
	return resp
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/scoring"
)

type statsService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewStatsService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) StatsService {
	return &statsService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// AssessmentStats aggregates submissions for one assessment. Only the
// creator sees the numbers.
func (s *statsService) AssessmentStats(ctx context.Context, assessmentID uint, userID string) (*scoring.AssessmentStats, error) {
	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, assessmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	if assessment.CreatedBy != userID {
		return nil, NewPermissionError(userID, assessmentID, "assessment", "view_stats", "not the creator")
	}

	results, err := s.repo.Result().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	stats := scoring.AggregateAssessment(results, len(assessment.Questions), len(assessment.AssignedStudents))
	return &stats, nil
}

// StudentStats summarizes one student's completed assessments,
// including day streaks.
func (s *statsService) StudentStats(ctx context.Context, studentID string) (*scoring.StudentStats, error) {
	results, err := s.repo.Result().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list student results: %w", err)
	}

	questionCounts := make(map[uint]int, len(results))
	for _, r := range results {
		if _, ok := questionCounts[r.AssessmentID]; ok {
			continue
		}
		assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, r.AssessmentID)
		if err != nil {
			// Deleted assessments keep their results but grade against
			// a zero paper.
			continue
		}
		questionCounts[r.AssessmentID] = len(assessment.Questions)
	}

	stats := scoring.AggregateStudent(results, questionCounts, time.Now().UTC())
	return &stats, nil
}

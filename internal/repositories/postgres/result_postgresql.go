package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SmartEval-2025/assessment-platform/internal/cache"
	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
)

type ResultPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewResultPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ResultRepository {
	return &ResultPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create inserts the result. The unique index on (assessment_id,
// student_id) makes this the single enforcement point for the
// one-submission rule: a second insert comes back as ErrDuplicate no
// matter which replica or goroutine it raced through.
func (r *ResultPostgreSQL) Create(ctx context.Context, result *models.AssessmentResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		if isUniqueViolation(err) {
			return repositories.ErrDuplicate
		}
		return fmt.Errorf("failed to create result: %w", err)
	}
	r.cacheManager.InvalidateResult(ctx, result.AssessmentID, result.StudentID)
	return nil
}

func (r *ResultPostgreSQL) GetByAssessmentAndStudent(ctx context.Context, assessmentID uint, studentID string) (*models.AssessmentResult, error) {
	var result models.AssessmentResult
	err := r.db.WithContext(ctx).
		Where("assessment_id = ? AND student_id = ?", assessmentID, studentID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultPostgreSQL) ListByAssessment(ctx context.Context, assessmentID uint) ([]*models.AssessmentResult, error) {
	var results []*models.AssessmentResult
	err := r.db.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("completed_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) ListByStudent(ctx context.Context, studentID string) ([]*models.AssessmentResult, error) {
	var results []*models.AssessmentResult
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("completed_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list student results: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) ExistsByAssessmentAndStudent(ctx context.Context, assessmentID uint, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AssessmentResult{}).
		Where("assessment_id = ? AND student_id = ?", assessmentID, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check result existence: %w", err)
	}
	return count > 0, nil
}

// isUniqueViolation recognizes Postgres error 23505 alongside gorm's
// translated duplicate error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key value")
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SmartEval-2025/assessment-platform/internal/cache"
	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
)

type AssessmentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewAssessmentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create persists the assessment and its questions in one insert chain
// and invalidates creator-scoped listings.
func (a *AssessmentPostgreSQL) Create(ctx context.Context, assessment *models.Assessment) error {
	if err := a.db.WithContext(ctx).Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, a.cacheManager.Assessment, fmt.Sprintf("creator:%s:*", assessment.CreatedBy))
	cache.SafeInvalidatePattern(ctx, a.cacheManager.Assessment, "list:*")
	return nil
}

// GetByID retrieves the assessment without its question list, cached.
func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var assessment models.Assessment

	err := a.cacheManager.Assessment.CacheOrExecute(ctx, cacheKey, &assessment, cache.AssessmentCacheConfig.TTL, func() (interface{}, error) {
		var dbAssessment models.Assessment
		if err := a.db.WithContext(ctx).First(&dbAssessment, id).Error; err != nil {
			return nil, err
		}
		return &dbAssessment, nil
	})
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

// GetByIDWithQuestions retrieves the assessment with its full question
// list in position order.
func (a *AssessmentPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Assessment, error) {
	var assessment models.Assessment
	err := a.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		First(&assessment, id).Error
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) ListByCreator(ctx context.Context, creatorID string, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	query := a.db.WithContext(ctx).Model(&models.Assessment{}).Where("created_by = ?", creatorID)
	return a.list(query, filters)
}

// ListByAssignedEmail lists assessments whose assigned-student set
// contains the email, via jsonb containment.
func (a *AssessmentPostgreSQL) ListByAssignedEmail(ctx context.Context, email string, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	needle, err := json.Marshal([]string{email})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal email filter: %w", err)
	}
	query := a.db.WithContext(ctx).Model(&models.Assessment{}).
		Where("assigned_students @> ?", string(needle))
	return a.list(query, filters)
}

func (a *AssessmentPostgreSQL) list(query *gorm.DB, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	if filters.DateFrom != nil {
		query = query.Where("start_time >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("end_time <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assessments: %w", err)
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "start_time"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var assessments []*models.Assessment
	if err := query.Find(&assessments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, total, nil
}

// Delete soft-deletes the assessment and drops every cache entry
// touching it.
func (a *AssessmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := a.db.WithContext(ctx).Delete(&models.Assessment{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete assessment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	a.cacheManager.InvalidateAssessment(ctx, id)
	return nil
}

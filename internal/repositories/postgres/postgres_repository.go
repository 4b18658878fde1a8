package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories/casdoor"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db          *gorm.DB
	redisClient *redis.Client

	assessment repositories.AssessmentRepository
	result     repositories.ResultRepository
	task       repositories.TaskRepository
	user       repositories.UserRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	CasdoorConfig casdoor.CasdoorConfig
}

// NewPostgreSQLRepository creates the repository aggregate with all
// sub-repositories.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	repo := &PostgreSQLRepository{
		db:          config.DB,
		redisClient: config.RedisClient,
	}

	repo.assessment = NewAssessmentPostgreSQL(config.DB, config.RedisClient)
	repo.result = NewResultPostgreSQL(config.DB, config.RedisClient)
	repo.task = NewTaskPostgreSQL(config.DB)

	// User directory lives in Casdoor, not Postgres
	repo.user = casdoor.NewUserCasdoor(config.CasdoorConfig, config.RedisClient)

	return repo
}

func (r *PostgreSQLRepository) Assessment() repositories.AssessmentRepository { return r.assessment }
func (r *PostgreSQLRepository) Result() repositories.ResultRepository         { return r.result }
func (r *PostgreSQLRepository) Task() repositories.TaskRepository             { return r.task }
func (r *PostgreSQLRepository) User() repositories.UserRepository             { return r.user }

// WithTransaction executes fn with a repository bound to one database
// transaction.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:          tx,
			redisClient: r.redisClient,
			assessment:  NewAssessmentPostgreSQL(tx, r.redisClient),
			result:      NewResultPostgreSQL(tx, r.redisClient),
			task:        NewTaskPostgreSQL(tx),
			// User repository is external and transaction-free
			user: r.user,
		}
		return fn(txRepo)
	})
}

// Ping checks the database and cache connections.
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}
	return nil
}

// Close closes all connections.
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close redis: %w", err)
		}
	}
	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) *RepositoryManager {
	return &RepositoryManager{config: config}
}

// Initialize validates the connections and builds the repository
// aggregate.
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if err := rm.config.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)
	return nil
}

// GetRepository returns the repository aggregate.
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck pings every backing store.
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return rm.repo.Ping(ctx)
}

// Shutdown closes all repository connections.
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	return rm.repo.Close()
}

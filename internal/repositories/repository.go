package repositories

import "context"

// Repository aggregates all sub-repositories behind one handle.
type Repository interface {
	Assessment() AssessmentRepository
	Result() ResultRepository
	Task() TaskRepository

	// User domain (read-only, backed by the identity provider)
	User() UserRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

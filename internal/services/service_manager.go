package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/SmartEval-2025/assessment-platform/internal/events"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	DefaultTimeout time.Duration

	// EventPublisher delivers domain events. Nil falls back to an
	// in-memory publisher, which keeps single-node deployments and
	// tests free of a Kafka dependency.
	EventPublisher events.EventPublisher
}

// serviceManager implements ServiceManager
type serviceManager struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	assessmentService AssessmentService
	sessionService    SessionService
	resultService     ResultService
	statsService      StatsService
	taskService       TaskService
	exportService     ExportService
	flowchartService  FlowchartService
	eventService      NotificationEventService

	initialized bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, v *validator.Validator, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: v,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default
// configuration and an in-memory event publisher.
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, v *validator.Validator) ServiceManager {
	return NewServiceManager(db, repo, logger, v, ServiceManagerConfig{
		DefaultTimeout: 30 * time.Second,
	})
}

// Initialize wires all services together.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	publisher := sm.config.EventPublisher
	if publisher == nil {
		publisher = events.NewMockEventPublisher(sm.logger)
	}
	sm.eventService = NewNotificationEventService(publisher, sm.logger)

	sm.resultService = NewResultService(sm.repo, sm.db, sm.logger, sm.eventService)
	sm.assessmentService = NewAssessmentService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventService)
	sm.sessionService = NewSessionService(sm.repo, sm.db, sm.logger, sm.validator, sm.resultService)
	sm.statsService = NewStatsService(sm.repo, sm.db, sm.logger)
	sm.taskService = NewTaskService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventService)
	sm.exportService = NewExportService(sm.resultService, sm.logger)
	sm.flowchartService = NewFlowchartService(sm.logger, sm.validator)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

// HealthCheck pings the backing stores.
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	return sm.repo.Ping(ctx)
}

// Shutdown stops the live sessions first, then closes the event
// publisher.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return nil
	}

	sm.logger.Info("Shutting down service manager")
	sm.sessionService.Shutdown(ctx)

	if sm.config.EventPublisher != nil {
		if err := sm.config.EventPublisher.Close(); err != nil {
			sm.logger.Warn("failed to close event publisher", "error", err)
		}
	}

	sm.initialized = false
	return nil
}

// ===== SERVICE GETTERS =====

func (sm *serviceManager) get(name string, svc any) {
	if !sm.initialized || svc == nil {
		panic(fmt.Sprintf("%s service not initialized", name))
	}
}

func (sm *serviceManager) Assessment() AssessmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("assessment", sm.assessmentService)
	return sm.assessmentService
}

func (sm *serviceManager) Session() SessionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("session", sm.sessionService)
	return sm.sessionService
}

func (sm *serviceManager) Result() ResultService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("result", sm.resultService)
	return sm.resultService
}

func (sm *serviceManager) Stats() StatsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("stats", sm.statsService)
	return sm.statsService
}

func (sm *serviceManager) Task() TaskService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("task", sm.taskService)
	return sm.taskService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("export", sm.exportService)
	return sm.exportService
}

func (sm *serviceManager) Flowchart() FlowchartService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("flowchart", sm.flowchartService)
	return sm.flowchartService
}

func (sm *serviceManager) NotificationEvent() NotificationEventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("notification event", sm.eventService)
	return sm.eventService
}

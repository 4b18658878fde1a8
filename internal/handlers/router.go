package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SmartEval-2025/assessment-platform/internal/config"
	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/services"
	"github.com/SmartEval-2025/assessment-platform/internal/utils"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

type HandlerManager struct {
	assessmentHandler *AssessmentHandler
	sessionHandler    *SessionHandler
	resultHandler     *ResultHandler
	statsHandler      *StatsHandler
	taskHandler       *TaskHandler
	exportHandler     *ExportHandler
	flowchartHandler  *FlowchartHandler
	userHandler       *UserHandler
	authMiddleware    *CasdoorAuthMiddleware
	serviceManager    services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		assessmentHandler: NewAssessmentHandler(serviceManager.Assessment(), validator, logger),
		sessionHandler:    NewSessionHandler(serviceManager.Session(), validator, logger),
		resultHandler:     NewResultHandler(serviceManager.Result(), logger),
		statsHandler:      NewStatsHandler(serviceManager.Stats(), logger),
		taskHandler:       NewTaskHandler(serviceManager.Task(), validator, logger),
		exportHandler:     NewExportHandler(serviceManager.Export(), logger),
		flowchartHandler:  NewFlowchartHandler(serviceManager.Flowchart(), logger),
		userHandler:       NewUserHandler(userRepo, logger),
		authMiddleware:    authMiddleware,
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint (unauthenticated)
	router.GET("/health", HealthCheckHandler(func(c *gin.Context) error {
		return hm.serviceManager.HealthCheck(c.Request.Context())
	}))

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware()) // Apply authentication to all API routes
	{
		// Assessment routes
		assessments := v1.Group("/assessments")
		{
			// Create/delete assessments - Professors only
			assessments.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleProfessor), hm.assessmentHandler.CreateAssessment)
			assessments.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleProfessor), hm.assessmentHandler.DeleteAssessment)

			// View assessments - All authenticated users
			assessments.GET("/:id", hm.assessmentHandler.GetAssessment)
			assessments.GET("/:id/status", hm.assessmentHandler.GetAssessmentStatus)

			// Role-scoped listings
			assessments.GET("/professor/me", hm.authMiddleware.RequireRoleMiddleware(models.RoleProfessor), hm.assessmentHandler.ListMyAssessments)
			assessments.GET("/student/me", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.assessmentHandler.ListAssignedAssessments)

			// Results, stats and export - Professors only
			assessments.GET("/:id/results", hm.authMiddleware.RequireRoleMiddleware(models.RoleProfessor), hm.resultHandler.ListAssessmentResults)
			assessments.GET("/:id/stats", hm.authMiddleware.RequireRoleMiddleware(models.RoleProfessor), hm.statsHandler.GetAssessmentStats)
			assessments.GET("/:id/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleProfessor), hm.exportHandler.ExportResults)

			// Taking - Students only
			assessments.POST("/:id/session", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.sessionHandler.StartSession)
			assessments.GET("/:id/submission/me", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.resultHandler.GetMySubmission)
		}

		// Live taking session routes - Students only
		sessions := v1.Group("/sessions")
		sessions.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent))
		{
			sessions.PUT("/:id/answers/:index", hm.sessionHandler.SubmitAnswer)
			sessions.GET("/:id/remaining", hm.sessionHandler.GetSessionProgress)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitSession)
		}

		// Result routes - Students only
		results := v1.Group("/results")
		results.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent))
		{
			results.GET("/student/me", hm.resultHandler.ListMyResults)
		}

		// Student routes - Students only
		students := v1.Group("/students")
		students.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent))
		{
			students.GET("/me/stats", hm.statsHandler.GetStudentStats)
		}

		// Task tracker routes - any authenticated user
		tasks := v1.Group("/tasks")
		{
			tasks.POST("", hm.taskHandler.CreateTask)
			tasks.GET("", hm.taskHandler.ListTasks)
			tasks.GET("/due-soon", hm.taskHandler.ListDueSoonTasks)
			tasks.GET("/:id", hm.taskHandler.GetTask)
			tasks.PUT("/:id", hm.taskHandler.UpdateTask)
			tasks.PUT("/:id/status", hm.taskHandler.UpdateTaskStatus)
			tasks.PUT("/:id/complete", hm.taskHandler.CompleteTask)
			tasks.DELETE("/:id", hm.taskHandler.DeleteTask)
		}

		// Flowchart routes - any authenticated user
		flowchart := v1.Group("/flowchart")
		{
			flowchart.POST("/fallback", hm.flowchartHandler.GenerateFallbackFlowchart)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/me", hm.userHandler.GetCurrentUser)
			users.GET("/students", hm.authMiddleware.RequireRoleMiddleware(models.RoleProfessor), hm.userHandler.ListStudents)
			users.GET("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleProfessor), hm.userHandler.GetUser)
		}
	}
}

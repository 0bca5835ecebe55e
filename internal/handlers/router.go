package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/guided-platform/matching-service/internal/config"
	"github.com/guided-platform/matching-service/internal/metrics"
	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/repositories"
	"github.com/guided-platform/matching-service/internal/services"
	"github.com/guided-platform/matching-service/internal/utils"
	"github.com/guided-platform/matching-service/internal/validator"
)

type HandlerManager struct {
	matchHandler   *MatchHandler
	inviteHandler  *InviteHandler
	profileHandler *ProfileHandler
	reportHandler  *ReportHandler
	userHandler    *UserHandler
	authMiddleware *CasdoorAuthMiddleware
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
		matchHandler:   NewMatchHandler(serviceManager.Match(), validator, logger),
		inviteHandler:  NewInviteHandler(serviceManager.Invite(), validator, logger),
		profileHandler: NewProfileHandler(serviceManager.Profile(), validator, logger),
		reportHandler:  NewReportHandler(serviceManager.Report(), logger),
		userHandler:    NewUserHandler(userRepo, logger),
		authMiddleware: authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Match routes
		matches := v1.Group("/matches")
		{
			// Student-side discovery
			matches.GET("/mentors", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent, models.RoleFacilitator), hm.matchHandler.RankMentors)

			// Mentor-side discovery
			matches.GET("/students", hm.authMiddleware.RequireRoleMiddleware(models.RoleMentor, models.RoleFacilitator), hm.matchHandler.RankStudents)

			// Curated shortlist - Facilitators only
			matches.GET("/shortlist/:studentId", hm.authMiddleware.RequireRoleMiddleware(models.RoleFacilitator), hm.matchHandler.GetShortlist)
		}

		// Invite routes
		invites := v1.Group("/invites")
		{
			invites.POST("", hm.inviteHandler.CreateInvite)
			invites.GET("", hm.inviteHandler.ListInvites)
			invites.GET("/:id", hm.inviteHandler.GetInvite)

			// Lifecycle actions - actor derived from the authenticated role
			invites.POST("/:id/accept", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent, models.RoleMentor), hm.inviteHandler.AcceptInvite)
			invites.POST("/:id/reject", hm.inviteHandler.RejectInvite)
			invites.POST("/:id/approve", hm.authMiddleware.RequireRoleMiddleware(models.RoleFacilitator), hm.inviteHandler.ApproveInvite)
		}

		// Student profile routes
		students := v1.Group("/students")
		{
			students.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent, models.RoleFacilitator), hm.profileHandler.CreateStudent)
			students.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent, models.RoleFacilitator), hm.profileHandler.UpdateStudent)
			students.GET("/:id", hm.profileHandler.GetStudent)
		}

		// Mentor profile routes
		mentors := v1.Group("/mentors")
		{
			mentors.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleMentor, models.RoleFacilitator), hm.profileHandler.CreateMentor)
			mentors.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleMentor, models.RoleFacilitator), hm.profileHandler.UpdateMentor)
			mentors.GET("/:id", hm.profileHandler.GetMentor)
		}

		// Report routes - Facilitators only
		reports := v1.Group("/reports")
		reports.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleFacilitator))
		{
			reports.GET("/invites.xlsx", hm.reportHandler.ExportInvites)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/me", hm.userHandler.GetCurrentUser)
			users.GET("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleFacilitator), hm.userHandler.GetUser)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "matching-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

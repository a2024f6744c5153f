package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kanban-board-api/internal/config"
	"kanban-board-api/internal/handler"
	appmetrics "kanban-board-api/internal/metrics"
	"kanban-board-api/internal/middleware"
	"kanban-board-api/internal/realtime"
	"kanban-board-api/internal/repository"
	"kanban-board-api/internal/service"
)

// Setup wires repositories, services, handlers, and the realtime hub
// into a gin engine. The returned hub must be started with Run.
func Setup(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, m *appmetrics.Metrics, logger *zap.Logger) (*gin.Engine, *realtime.Hub) {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(nil))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}

	// Repositories
	boardRepo := repository.NewBoardRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Realtime hub
	hub := realtime.NewHub(redisClient, m, logger)

	// Services
	accessService := service.NewAccessService(boardRepo, memberRepo)
	boardService := service.NewBoardService(boardRepo, columnRepo, taskRepo, accessService, m, logger)
	columnService := service.NewColumnService(columnRepo, accessService, hub, m, logger)
	taskService := service.NewTaskService(taskRepo, columnRepo, accessService, hub, m, logger)
	invitationService := service.NewInvitationService(invitationRepo, memberRepo, accessService, hub, m, logger)
	memberService := service.NewMemberService(memberRepo, accessService, hub, logger)

	// Auth
	validator := middleware.NewTokenValidator(cfg.JWT.Secret)

	// Handlers
	boardHandler := handler.NewBoardHandler(boardService)
	columnHandler := handler.NewColumnHandler(columnService)
	taskHandler := handler.NewTaskHandler(taskService)
	invitationHandler := handler.NewInvitationHandler(invitationService)
	memberHandler := handler.NewMemberHandler(memberService)
	healthHandler := handler.NewHealthHandler(db)
	wsHandler := realtime.NewWSHandler(hub, validator, accessService, logger)

	// Health and metrics endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes with base path
	api := r.Group(cfg.Server.BasePath)
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)

		// Realtime stream (token via query parameter)
		api.GET("/ws", wsHandler.HandleWebSocket)

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(validator))
		{
			// Board routes
			authenticated.POST("/boards", boardHandler.CreateBoard)
			authenticated.GET("/boards", boardHandler.ListBoards)
			authenticated.GET("/boards/:boardId", boardHandler.GetBoard)
			authenticated.GET("/boards/:boardId/me", boardHandler.GetMyRole)
			authenticated.DELETE("/boards/:boardId", boardHandler.DeleteBoard)

			// Column routes
			authenticated.GET("/boards/:boardId/columns", columnHandler.ListColumns)
			authenticated.POST("/boards/:boardId/columns", columnHandler.CreateColumn)
			authenticated.PATCH("/boards/:boardId/columns/reorder", columnHandler.ReorderColumns)
			authenticated.PATCH("/columns/:columnId", columnHandler.UpdateColumn)
			authenticated.DELETE("/columns/:columnId", columnHandler.DeleteColumn)

			// Task routes
			authenticated.GET("/boards/:boardId/tasks", taskHandler.ListTasks)
			authenticated.POST("/boards/:boardId/tasks", taskHandler.CreateTask)
			authenticated.PATCH("/tasks/:taskId", taskHandler.UpdateTask)
			authenticated.DELETE("/tasks/:taskId", taskHandler.DeleteTask)

			// Member routes
			authenticated.GET("/boards/:boardId/members", memberHandler.ListMembers)
			authenticated.DELETE("/boards/:boardId/members/me", memberHandler.LeaveBoard)
			authenticated.DELETE("/boards/:boardId/members/:userId", memberHandler.RemoveMember)

			// Invitation routes
			authenticated.POST("/boards/:boardId/invitations", invitationHandler.InviteUser)
			authenticated.GET("/me/invitations", invitationHandler.ListMyInvitations)
			authenticated.POST("/invitations/:inviteId/respond", invitationHandler.RespondToInvitation)
		}
	}

	return r, hub
}

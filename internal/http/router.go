package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/PrathamAgarwal1/SkillSkirmish/internal/http/handlers"
	httpMW "github.com/PrathamAgarwal1/SkillSkirmish/internal/http/middleware"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware
	CORSOrigins    []string

	// TracingService names otelgin spans; empty disables the middleware.
	TracingService string

	HealthHandler       *httpH.HealthHandler
	RealtimeHandler     *httpH.RealtimeHandler
	RoomHandler         *httpH.RoomHandler
	NotificationHandler *httpH.NotificationHandler
	AssessmentHandler   *httpH.AssessmentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/realtime/stream", cfg.RealtimeHandler.Stream)
			protected.POST("/realtime/register", cfg.RealtimeHandler.Register)
		}

		// Rooms
		if cfg.RoomHandler != nil {
			protected.POST("/rooms/:id/join", cfg.RoomHandler.Join)
			protected.POST("/rooms/:id/leave", cfg.RoomHandler.Leave)
			protected.POST("/rooms/:id/messages", cfg.RoomHandler.SendMessage)
			protected.GET("/rooms/:id/messages", cfg.RoomHandler.ListMessages)
			protected.POST("/rooms/:id/timer", cfg.RoomHandler.SyncTimer)
			protected.POST("/rooms/:id/request-join", cfg.RoomHandler.RequestJoin)
			protected.POST("/rooms/:id/approve-join", cfg.RoomHandler.ApproveJoin)
			protected.POST("/rooms/:id/accept-invite", cfg.RoomHandler.AcceptInvite)
		}

		// Notifications
		if cfg.NotificationHandler != nil {
			protected.GET("/notifications", cfg.NotificationHandler.List)
			protected.POST("/notifications/invite", cfg.NotificationHandler.Invite)
			protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
			protected.DELETE("/notifications/:id", cfg.NotificationHandler.Delete)
		}

		// Assessment
		if cfg.AssessmentHandler != nil {
			protected.POST("/assessment/start", cfg.AssessmentHandler.Start)
			protected.POST("/assessment/submit", cfg.AssessmentHandler.Submit)
			protected.POST("/assessment/skip", cfg.AssessmentHandler.Skip)
		}
	}

	return r
}

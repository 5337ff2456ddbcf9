package app

import (
	"gorm.io/gorm"

	httpserver "github.com/PrathamAgarwal1/SkillSkirmish/internal/http"
	httpH "github.com/PrathamAgarwal1/SkillSkirmish/internal/http/handlers"
	httpMW "github.com/PrathamAgarwal1/SkillSkirmish/internal/http/middleware"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Realtime     *httpH.RealtimeHandler
	Room         *httpH.RoomHandler
	Notification *httpH.NotificationHandler
	Assessment   *httpH.AssessmentHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(db),
		Realtime:     httpH.NewRealtimeHandler(log, services.Rooms, services.Hub),
		Room:         httpH.NewRoomHandler(log, services.Rooms),
		Notification: httpH.NewNotificationHandler(log, services.Rooms),
		Assessment:   httpH.NewAssessmentHandler(log, services.Assessment),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *httpserver.Server {
	tracing := ""
	if cfg.Otel.Enabled {
		tracing = cfg.Otel.ServiceName
	}
	return httpserver.NewServer(":"+cfg.Port, httpserver.RouterConfig{
		Log:                 log,
		AuthMiddleware:      middleware.Auth,
		CORSOrigins:         cfg.CORSOrigins,
		TracingService:      tracing,
		HealthHandler:       handlers.Health,
		RealtimeHandler:     handlers.Realtime,
		RoomHandler:         handlers.Room,
		NotificationHandler: handlers.Notification,
		AssessmentHandler:   handlers.Assessment,
	})
}

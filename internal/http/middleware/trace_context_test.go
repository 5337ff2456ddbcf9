package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/ctxutil"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

func mustObservedRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(AttachTraceContext(), RequestLogger(&logger.Logger{SugaredLogger: zap.New(core).Sugar()}))
	return r, logs
}

func TestConnectionIDFromHeaderIsLogged(t *testing.T) {
	r, logs := mustObservedRouter(t)
	r.POST("/rooms/:id/timer", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	connID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/rooms/x/timer", nil)
	req.Header.Set("X-Connection-Id", connID.String())
	r.ServeHTTP(httptest.NewRecorder(), req)

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["connection_id"]; got != connID.String() {
		t.Fatalf("connection_id=%v want %s", got, connID)
	}
}

func TestConnectionIDSetByHandlerIsLogged(t *testing.T) {
	r, logs := mustObservedRouter(t)
	connID := uuid.New()
	r.POST("/realtime/register", func(c *gin.Context) {
		ctxutil.SetConnectionID(c.Request.Context(), connID)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/realtime/register", nil)
	req.Header.Set("X-Connection-Id", "not-a-uuid")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["connection_id"]; got != connID.String() {
		t.Fatalf("connection_id=%v want %s", got, connID)
	}
}

func TestRequestsWithoutConnectionOmitTheField(t *testing.T) {
	r, logs := mustObservedRouter(t)
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	if _, ok := logs.All()[0].ContextMap()["connection_id"]; ok {
		t.Fatal("connection_id logged for a request without one")
	}
	if rec.Header().Get("X-Trace-Id") == "" || rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("trace headers missing: %v", rec.Header())
	}
}

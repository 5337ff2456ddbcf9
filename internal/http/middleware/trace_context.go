package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/ctxutil"
)

const (
	headerTraceID      = "X-Trace-Id"
	headerRequestID    = "X-Request-Id"
	headerConnectionID = "X-Connection-Id"
)

// AttachTraceContext stamps each request with trace and request ids, reusing caller values.
// Realtime clients may send the connection id they act for in X-Connection-Id; handlers that
// parse one from the body record it with ctxutil.SetConnectionID instead.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)

		td := &ctxutil.TraceData{
			TraceID:   strings.TrimSpace(c.GetHeader(headerTraceID)),
			RequestID: strings.TrimSpace(c.GetHeader(headerRequestID)),
		}
		if td.RequestID == "" {
			td.RequestID = uuid.NewString()
		}
		if td.TraceID == "" && span.SpanContext().HasTraceID() {
			td.TraceID = span.SpanContext().TraceID().String()
		}
		if td.TraceID == "" {
			td.TraceID = uuid.NewString()
		}
		if connID, err := uuid.Parse(strings.TrimSpace(c.GetHeader(headerConnectionID))); err == nil {
			td.ConnectionID = connID.String()
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, td))
		c.Set("trace_id", td.TraceID)
		c.Set("request_id", td.RequestID)
		c.Writer.Header().Set(headerTraceID, td.TraceID)
		c.Writer.Header().Set(headerRequestID, td.RequestID)

		c.Next()

		if td.ConnectionID != "" {
			span.SetAttributes(attribute.String("realtime.connection_id", td.ConnectionID))
		}
	}
}

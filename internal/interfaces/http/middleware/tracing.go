package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/haccp/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxRequestIDLength = 128

// Tracing wraps otelgin and tags the server span with the request id.
// Actor ids are added by AnnotateActor once authentication has run.
func Tracing(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, opts...)
}

// AnnotateActor copies the request id and authenticated operator onto the active span
func AnnotateActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := c.Writer.Header().Get(logger.RequestIDHeader); id != "" {
				if len(id) > maxRequestIDLength {
					id = id[:maxRequestIDLength]
				}
				span.SetAttributes(attribute.String("request_id", id))
			}
			if claims, ok := Claims(c); ok {
				span.SetAttributes(
					attribute.String("enduser.id", claims.UserID),
					attribute.String("enduser.name", claims.Username),
				)
			}
		}
		c.Next()
	}
}

// Package middleware holds the gin middleware of the MES API.
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/infrastructure/auth"
	"github.com/haccp/backend/internal/infrastructure/logger"
	"github.com/haccp/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	claimsKey    = "auth_claims"
	bearerPrefix = "Bearer "
)

// TokenValidator verifies bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// operator on the request context
func Authenticate(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, shared.CodeUnauthorized, "missing bearer token")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			abortUnauthorized(c, shared.CodeUnauthorized, "missing bearer token")
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			code := shared.CodeUnauthorized
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			logger.GetGinLogger(c, nil).Warn("Rejected bearer token", zap.Error(err))
			abortUnauthorized(c, code, err.Error())
			return
		}

		c.Set(claimsKey, claims)
		ctx, reqLogger := logger.WithActorID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		logger.SetGinLogger(c, reqLogger)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.HTTPStatus(code),
		dto.NewErrorResponse(code, message, c.Writer.Header().Get(logger.RequestIDHeader)))
}

// Claims returns the authenticated claims, if any
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// ActorID returns the authenticated operator id, or nil when auth is disabled
func ActorID(c *gin.Context) *uuid.UUID {
	claims, ok := Claims(c)
	if !ok {
		return nil
	}
	id, err := claims.ActorID()
	if err != nil {
		return nil
	}
	return &id
}

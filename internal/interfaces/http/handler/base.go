package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/infrastructure/logger"
	"github.com/haccp/backend/internal/interfaces/http/dto"
	"github.com/haccp/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// requestID returns the id assigned by the logging middleware, falling back
// to the inbound header
func requestID(c *gin.Context) string {
	if id := c.Writer.Header().Get(logger.RequestIDHeader); id != "" {
		return id
	}
	return c.GetHeader(logger.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response, deriving the status from the code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.HTTPStatus(code), dto.NewErrorResponse(code, message, requestID(c)))
}

// BadRequest sends a 400 response with the INVALID_INPUT code
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, shared.CodeInvalidInput, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", requestID(c), details))
}

// HandleError converts domain errors to their status. Anything else is
// logged and answered with a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.GetGinLogger(c, nil).Error("Unhandled error", zap.Error(err))
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindJSON decodes and validates the body. It writes the error response and
// returns false when the body is unusable.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.handleBindError(c, err)
		return false
	}
	return true
}

// bindQuery decodes and validates query parameters
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.handleBindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) handleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		h.ValidationError(c, middleware.ValidationDetails(err))
		return
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}
	h.BadRequest(c, "Invalid request body: "+err.Error())
}

// uuidParam parses a path parameter as a UUID, answering 400 when malformed
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional query value
func optionalUUID(raw, name string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, shared.InvalidInput("invalid %s: must be a UUID", name)
	}
	return &id, nil
}

// actorOr returns the explicit actor when given, otherwise the caller
func actorOr(c *gin.Context, explicit dto.Ref) *uuid.UUID {
	if explicit.Valid {
		return explicit.Ptr()
	}
	return middleware.ActorID(c)
}

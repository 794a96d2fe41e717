// Package handler holds the gin handlers of the ledger API.
package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/logger"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/dto"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a BaseHandler logging unexpected errors to logger
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return BaseHandler{logger: logger}
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error envelope with an explicit status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// ValidationError sends a 400 naming the offending fields
func (h *BaseHandler) ValidationError(c *gin.Context, message string, details map[string]string) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(message, middleware.GetRequestID(c), details))
}

// HandleError maps domain errors to their status and hides everything
// else behind a 500
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		resp := dto.NewErrorResponse(domainErr.Code, domainErr.Message, middleware.GetRequestID(c))
		resp.Error.Details = domainErr.Details
		c.JSON(dto.GetHTTPStatus(domainErr.Code), resp)
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context(), h.logger).Error("Request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// requireCaller returns the authenticated caller or answers 401
func (h *BaseHandler) requireCaller(c *gin.Context) (identity.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, shared.CodeUnauthorized, "Authentication required")
		return identity.Caller{}, false
	}
	return caller, true
}

// bindJSON binds the body into req. An empty body is accepted when
// optional is true.
func (h *BaseHandler) bindJSON(c *gin.Context, req any, optional bool) bool {
	err := c.ShouldBindJSON(req)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	h.bindFailed(c, err, "Invalid request body")
	return false
}

// bindQuery binds the query string into req
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.bindFailed(c, err, "Invalid query parameters")
		return false
	}
	return true
}

func (h *BaseHandler) bindFailed(c *gin.Context, err error, fallback string) {
	if details := dto.ValidationDetails(err); details != nil {
		h.ValidationError(c, "Request validation failed", details)
		return
	}
	h.ValidationError(c, fallback, nil)
}

// pathUUID parses the :name path parameter
func (h *BaseHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.ValidationError(c, "Invalid "+name, map[string]string{name: "Invalid UUID format"})
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional UUID query parameter
func (h *BaseHandler) queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.ValidationError(c, "Invalid "+name, map[string]string{name: "Invalid UUID format"})
		return nil, false
	}
	return &id, true
}

// parseOptionalUUID parses an already validated optional UUID string
func parseOptionalUUID(raw *string) *uuid.UUID {
	if raw == nil || *raw == "" {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil
	}
	return &id
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guided-platform/matching-service/internal/repositories"
	"github.com/guided-platform/matching-service/internal/services"
	"github.com/guided-platform/matching-service/internal/utils"
)

// BaseHandler provides common helpers shared by all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// LogRequest logs an incoming request with the context logger
func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	logger := utils.GetContextLogger(c, h.logger)
	logger.Debug(msg, "method", c.Request.Method, "path", c.Request.URL.Path)
}

// LogError logs a handler-level error with the context logger
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	logger := utils.GetContextLogger(c, h.logger)
	logger.Error(msg, "error", err, "method", c.Request.Method, "path", c.Request.URL.Path)
}

// handleServiceError maps service errors to HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs services.ValidationErrors
	var permissionErr *services.PermissionError
	var transitionErr *services.IllegalTransitionError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs.Error(),
		})
	case errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrMentorNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	case errors.Is(err, services.ErrDuplicateInvite):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Invite already exists for this pair",
		})
	case errors.Is(err, services.ErrMentorAtCapacity):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Mentor has no remaining capacity",
		})
	case errors.As(err, &permissionErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
			Details: permissionErr.Reason,
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Invalid invite transition",
			Details: transitionErr.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

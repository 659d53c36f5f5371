package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizlab/quiz-service/internal/services"
	"github.com/quizlab/quiz-service/internal/utils"
	"github.com/quizlab/quiz-service/internal/validator"
)

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the bits every handler shares.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	fields := []any{"method", c.Request.Method, "path", c.Request.URL.Path}
	if requestID, ok := c.Get("request_id"); ok {
		fields = append(fields, "request_id", requestID)
	}
	h.logger.Debug(msg, fields...)
}

// parseIDParam returns 0 and writes the 400 response when the path
// parameter is not a positive integer.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service errors onto HTTP statuses. Unknown
// errors become opaque 500s; their detail stays in the logs.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var permissionErr *services.PermissionError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
	case errors.As(err, &permissionErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
		})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication required",
		})
	case errors.Is(err, services.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Quiz not found",
		})
	case errors.Is(err, services.ErrAttemptNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Attempt not found",
		})
	default:
		h.logger.Error("unhandled service error", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

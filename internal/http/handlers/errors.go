package handlers

import (
	"net/http"
	"time"

	"courses/internal/domain"
	"courses/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const validationMessage = "validation error"

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Timestamp string            `json:"timestamp"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func respondError(c *gin.Context, status int, message string, fields map[string]string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Errors:    fields,
	})
}

// RespondValidation writes a 400 with every field violation.
func RespondValidation(c *gin.Context, fields map[string]string) {
	respondError(c, http.StatusBadRequest, validationMessage, fields)
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	if v, ok := domain.AsValidation(err); ok {
		RespondValidation(c, v.Fields)
		return
	}
	switch {
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, err.Error(), nil)
	default:
		zap.L().Error("unhandled error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

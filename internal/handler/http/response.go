package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
)

// FailureResponse is the structured failure envelope: succeeded plus a
// human-readable message list.
type FailureResponse struct {
	Succeeded bool     `json:"succeeded"`
	Errors    []string `json:"errors"`
}

// RespondWithErrors sends the failure envelope and logs it.
func RespondWithErrors(c *gin.Context, statusCode int, logger *zap.Logger, messages ...string) {
	logger.Warn("API failure response",
		zap.Int("status_code", statusCode),
		zap.Strings("errors", messages),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, FailureResponse{Succeeded: false, Errors: messages})
}

// RespondWithServiceError maps a service error onto the taxonomy's status
// code and sends the failure envelope.
func RespondWithServiceError(c *gin.Context, err error, logger *zap.Logger) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal detail stays in the log, not the response.
		logger.Error("unhandled service error", zap.Error(err),
			zap.String("path", c.Request.URL.Path))
		message = domainErrors.ErrInternal.Error()
	}
	RespondWithErrors(c, status, logger, message)
}

func statusForError(err error) int {
	switch {
	case domainErrors.IsNotFound(err):
		return http.StatusNotFound
	case domainErrors.IsConflict(err):
		return http.StatusConflict
	case domainErrors.IsUnauthorized(err):
		return http.StatusUnauthorized
	case domainErrors.IsBadRequest(err):
		return http.StatusBadRequest
	case domainErrors.IsDependencyFailure(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"studiobook/models"
	"studiobook/utils"
)

// statusFor maps a service error to its HTTP status and a short message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrDuplicateWeekdayTemplate),
		errors.Is(err, models.ErrOverlappingOverride),
		errors.Is(err, models.ErrOverlappingBlocked):
		return http.StatusConflict, "Conflicts with an existing record"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "Record not found"
	case errors.Is(err, models.ErrMalformedInterval):
		return http.StatusBadRequest, "Malformed interval"
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, models.ErrRepositoryTimeout):
		return http.StatusGatewayTimeout, "Storage timed out"
	case errors.Is(err, models.ErrCacheUnavailable):
		return http.StatusServiceUnavailable, "Cache unavailable"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

func respondError(c *gin.Context, err error) {
	status, message := statusFor(err)
	details := err.Error()
	if status == http.StatusInternalServerError {
		details = "An unexpected error occurred. Please try again later."
		getLogger(c).Sugar().Errorw("Unexpected service error", "error", err)
	}
	utils.JSONError(c, status, message, details)
}

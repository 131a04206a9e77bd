package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"school-navigator/internal/dataset"
	"school-navigator/internal/service"
	"school-navigator/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP responses. fallback is the
// message sent for unexpected errors.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *dataset.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.ValidationErrorResponse(c, verr.FieldErrors)
	case errors.Is(err, dataset.ErrParse):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPermission):
		utils.ErrorResponse(c, http.StatusForbidden, "Admin access required")
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidCredential),
		errors.Is(err, service.ErrInvalidSession):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrQueueStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Service is shutting down, try again")
	case errors.Is(err, service.ErrPersist):
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to save changes")
	default:
		log.Printf("Error: %s: %v", fallback, err)
		utils.ErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/models"
)

// APIResponse is the uniform response envelope. Error carries the error
// class in the HTTP status; Message is always human-readable.
type APIResponse struct {
	Error   bool        `json:"error"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, APIResponse{
		Error:   false,
		Message: message,
		Data:    data,
	})
}

// respondError maps a service error onto the transport: 400 validation,
// 401/403 auth, 404 not found, 409 conflict, 500 anything else.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status := http.StatusInternalServerError
	message := "An unexpected error occurred"

	switch {
	case models.IsValidationError(err):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "Authentication required"
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
		message = "You do not have access to this resource"
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
		message = "Resource not found"
	case errors.Is(err, models.ErrSeatTaken):
		status = http.StatusConflict
		message = "Seat is already taken"
	case errors.Is(err, models.ErrTripFull):
		status = http.StatusConflict
		message = "Trip is sold out"
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	default:
		logger.WithError(err).Error("Unhandled error in request")
	}

	c.JSON(status, APIResponse{
		Error:   true,
		Message: message,
	})
}

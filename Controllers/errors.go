package Controllers

import (
	"errors"
	"net/http"

	"github.com/Aryan1411/hms/Models"

	"github.com/gin-gonic/gin"
)

// respondError maps the model error taxonomy onto HTTP status
// categories: not-found, conflict/validation, unauthorized, forbidden.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, Models.ErrSlotNotFound),
		errors.Is(err, Models.ErrSlotBookedOrMissing),
		errors.Is(err, Models.ErrAppointmentNotFound),
		errors.Is(err, Models.ErrTreatmentNotFound),
		errors.Is(err, Models.ErrEntityNotFound):
		status = http.StatusNotFound
	case errors.Is(err, Models.ErrSlotAlreadyBooked),
		errors.Is(err, Models.ErrAppointmentNotBooked),
		errors.Is(err, Models.ErrDuplicateUsername):
		status = http.StatusBadRequest
	case errors.Is(err, Models.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, Models.ErrAccountBlacklisted),
		errors.Is(err, Models.ErrAccountInactive):
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

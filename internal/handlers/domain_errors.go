package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/httperr"
)

// writeDomainError maps errors from the lifecycle core onto the API's error
// codes. Everything in the domain taxonomy is caller-facing; only unknown
// errors become a 500.
func writeDomainError(c *gin.Context, err error) {
	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		httperr.WriteDetails(c, http.StatusConflict, "invalid_transition", transitionErr.Error(), gin.H{
			"current_status":   transitionErr.From,
			"requested_status": transitionErr.To,
			"allowed":          transitionErr.Allowed,
		})
		return
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		httperr.Conflict(c, "time_conflict", "The requested slot overlaps an existing appointment.", gin.H{
			"conflicts": conflictErr.Conflicts,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrSalonNotFound),
		errors.Is(err, domain.ErrAppointmentNotFound),
		errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrProfessionalNotFound),
		errors.Is(err, domain.ErrServiceNotFound):
		httperr.NotFound(c, err.Error(), "Referenced entity was not found.")

	case errors.Is(err, domain.ErrEmptyServiceList),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrTooSoon),
		errors.Is(err, domain.ErrOutsideWorkingHours),
		errors.Is(err, domain.ErrUnboundedRecurrence),
		errors.Is(err, domain.ErrInvalidRecurrence),
		errors.Is(err, domain.ErrRecurrenceTooLong):
		httperr.BadRequest(c, err.Error(), "Request failed validation.")

	default:
		httperr.Internal(c, "internal_error", "Unexpected error.")
	}
}

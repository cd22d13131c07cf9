package api

import (
	"net/http"

	"slot-capacity-engine/internal/handler/httperr"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const (
	CodeCapacityExceeded    = "CAPACITY_EXCEEDED"
	CodeConcurrency         = "CONCURRENCY_EXHAUSTED"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeNotPermitted        = "NOT_PERMITTED"
	CodePaymentNotCompleted = "PAYMENT_NOT_COMPLETED"
	CodePaymentError        = "PAYMENT_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_FAILED"
	CodeBadRequest          = "BAD_REQUEST"
	CodeInternal            = "INTERNAL"

	retryAfterSeconds = 1
)

// abortWithUseCaseError maps use-case sentinels to HTTP. Concurrency is checked
// first: an exhausted retry still carries the version conflict that caused it.
func abortWithUseCaseError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrConcurrency):
		httperr.AbortRetryable(c, http.StatusServiceUnavailable, CodeConcurrency, err,
			"The resource is busy, please try again", retryAfterSeconds)
	case errs.Is(err, errs.ErrCapacityExceeded):
		httperr.AbortWithCode(c, http.StatusConflict, CodeCapacityExceeded, err, "Not enough capacity left", nil)
	case errs.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithCode(c, http.StatusConflict, CodeInvalidTransition, err, "Reservation cannot move to that state", nil)
	case errs.Is(err, errs.ErrNotPermitted):
		httperr.AbortWithCode(c, http.StatusForbidden, CodeNotPermitted, err, "Not permitted", nil)
	case errs.Is(err, errs.ErrPaymentNotCompleted):
		httperr.AbortWithCode(c, http.StatusPaymentRequired, CodePaymentNotCompleted, err, "Payment has not completed", nil)
	case errs.Is(err, errs.ErrPayment):
		httperr.AbortWithCode(c, http.StatusBadGateway, CodePaymentError, err, "Payment provider error", nil)
	case errs.Is(err, errs.ErrReservationNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, CodeNotFound, err, "Reservation not found", nil)
	case errs.Is(err, errs.ErrResourceNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, CodeNotFound, err, "Resource not found", nil)
	case errs.Is(err, errs.ErrDomainValidation):
		httperr.AbortWithCode(c, http.StatusUnprocessableEntity, CodeValidation, err, "Validation failed", nil)
	case errs.Is(err, queries.ErrInvalidCursor):
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, "Invalid cursor", nil)
	default:
		httperr.AbortWithCode(c, http.StatusInternalServerError, CodeInternal, err, "Internal server error", nil)
	}
}

func abortBadRequest(c *gin.Context, err error, msg string) {
	httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, msg, nil)
}

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	activitylogdomain "github.com/smallbiznis/billfold/internal/activitylog/domain"
	customerdomain "github.com/smallbiznis/billfold/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/billfold/internal/invoice/domain"
	"github.com/smallbiznis/billfold/pkg/db"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware converts domain errors collected by handlers into
// a single JSON error payload. Known error kinds map to short user-facing
// messages; anything unclassified surfaces as a 500 without masking.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "Something went wrong.",
		}
	case errors.Is(err, invoicedomain.ErrInvalidInvoiceID),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, invoicedomain.ErrInvalidAmount),
		errors.Is(err, invoicedomain.ErrInvalidCustomer),
		errors.Is(err, invoicedomain.ErrInvalidDate),
		errors.Is(err, activitylogdomain.ErrInvalidEntry):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: validationMessage(err),
		}
	case errors.Is(err, invoicedomain.ErrTransitionDenied):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "transition_denied",
			Message: "Status transition is not allowed.",
		}
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "Invoice not found.",
		}
	case errors.Is(err, customerdomain.ErrCustomerNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "Customer not found.",
		}
	case db.IsDuplicateKeyErr(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "Database Error: Duplicate record.",
		}
	default:
		// Unknown kinds propagate loudly instead of being dressed up as
		// client errors.
		return http.StatusInternalServerError, errorPayload{
			Type:    "storage_error",
			Message: "Database Error: Failed to complete the operation.",
		}
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, invoicedomain.ErrInvalidCustomer):
		return "Please select a customer."
	case errors.Is(err, invoicedomain.ErrInvalidAmount):
		return "Please enter an amount greater than $0."
	case errors.Is(err, invoicedomain.ErrInvalidStatus):
		return "Please select an invoice status."
	default:
		return "Missing Fields. Failed to process the request."
	}
}

package domain

import (
	"context"
	"errors"
	"time"
)

// RestoreKind tags why a restore-shaped transition was requested. The two
// call sites share one atomic operation and are indistinguishable in
// storage; the tag exists so callers and metrics can tell them apart.
type RestoreKind string

const (
	// KindRevert reverts an invoice to the status recorded in a prior
	// activity log entry, appending a duplicate of that entry.
	KindRevert RestoreKind = "revert"
	// KindDirectChange applies an ordinary status pick from the selector,
	// synthesizing the log triple from (chosen, displayed, now).
	KindDirectChange RestoreKind = "direct_change"
)

// ApplyTransitionRequest carries an edit-form submission: new customer,
// amount and status together with the status the form was opened with.
type ApplyTransitionRequest struct {
	InvoiceID   string
	CustomerID  string
	AmountCents int64
	OldStatus   Status
	NewStatus   Status
	Date        time.Time
}

// RestoreRequest carries the (from, to, date) triple exactly as supplied by
// the caller. The invoice ends up with status == FromStatus and a log row
// recording the triple unchanged.
type RestoreRequest struct {
	InvoiceID  string
	FromStatus Status
	ToStatus   Status
	Date       time.Time
	Kind       RestoreKind
}

type ListInvoiceRequest struct {
	// Status filters on the stored status when set (dashboard tabs).
	Status *Status
}

type ListInvoiceResponse struct {
	Invoices []View `json:"invoices"`
}

// Service coordinates every mutation of an invoice's status.
type Service interface {
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (View, error)

	// ApplyTransition appends the activity log entry and updates the
	// invoice as two independent writes. The writes are not wrapped in a
	// shared transaction: a failed invoice update leaves the log entry
	// behind.
	ApplyTransition(ctx context.Context, req ApplyTransitionRequest) error

	// Restore atomically sets the invoice status to req.FromStatus and
	// appends a log row with the supplied triple; both or neither apply.
	Restore(ctx context.Context, req RestoreRequest) error

	// Cancel is a direct change to canceled routed through the atomic path.
	Cancel(ctx context.Context, id string) error
}

var (
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrInvalidInvoiceID = errors.New("invalid_invoice_id")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidDate      = errors.New("invalid_date")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidCustomer  = errors.New("invalid_customer")
	ErrTransitionDenied = errors.New("transition_denied")
)

package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/billfold/internal/invoice/domain"
)

type updateInvoiceRequest struct {
	CustomerID  string `json:"customer_id" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required"`
	Status      string `json:"status" binding:"required"`
	OldStatus   string `json:"old_status" binding:"required"`
	Date        string `json:"date"`
}

type pickStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	DisplayedStatus string `json:"displayed_status" binding:"required"`
}

type restoreRequest struct {
	OldStatus     string `json:"old_status" binding:"required"`
	CurrentStatus string `json:"current_status" binding:"required"`
	Date          string `json:"date" binding:"required"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	req := invoicedomain.ListInvoiceRequest{}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := invoicedomain.Status(raw)
		req.Status = &status
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Invoices})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	item, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

// UpdateInvoice is the edit-form submission. The service appends the
// activity log entry and updates the invoice as two independent writes.
func (s *Server) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidStatus)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.invoiceSvc.ApplyTransition(c.Request.Context(), invoicedomain.ApplyTransitionRequest{
		InvoiceID:   c.Param("id"),
		CustomerID:  req.CustomerID,
		AmountCents: req.AmountCents,
		OldStatus:   invoicedomain.Status(req.OldStatus),
		NewStatus:   invoicedomain.Status(req.Status),
		Date:        date,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Updated Invoice."})
}

// PickInvoiceStatus is the status-selector dropdown. It reuses the atomic
// restore operation with a synthesized (chosen, displayed, now) triple.
func (s *Server) PickInvoiceStatus(c *gin.Context) {
	var req pickStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidStatus)
		return
	}

	if err := s.invoiceSvc.Restore(c.Request.Context(), invoicedomain.RestoreRequest{
		InvoiceID:  c.Param("id"),
		FromStatus: invoicedomain.Status(req.Status),
		ToStatus:   invoicedomain.Status(req.DisplayedStatus),
		Kind:       invoicedomain.KindDirectChange,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Updated Invoice Status."})
}

// RestoreInvoiceActivity reverts the invoice to a prior log entry's old
// status, appending a duplicate of that entry.
func (s *Server) RestoreInvoiceActivity(c *gin.Context) {
	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidStatus)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.invoiceSvc.Restore(c.Request.Context(), invoicedomain.RestoreRequest{
		InvoiceID:  c.Param("id"),
		FromStatus: invoicedomain.Status(req.OldStatus),
		ToStatus:   invoicedomain.Status(req.CurrentStatus),
		Date:       date,
		Kind:       invoicedomain.KindRevert,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Restored Invoice Activity Log."})
}

func (s *Server) CancelInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Canceled Invoice."})
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, invoicedomain.ErrInvalidDate
	}
	return t, nil
}

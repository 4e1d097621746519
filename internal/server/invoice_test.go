package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	activitylogdomain "github.com/smallbiznis/billfold/internal/activitylog/domain"
	"github.com/smallbiznis/billfold/internal/config"
	invoicedomain "github.com/smallbiznis/billfold/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeInvoiceService struct {
	applied  []invoicedomain.ApplyTransitionRequest
	restored []invoicedomain.RestoreRequest
	canceled []string
	err      error
}

func (f *fakeInvoiceService) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	return invoicedomain.ListInvoiceResponse{}, f.err
}

func (f *fakeInvoiceService) GetByID(ctx context.Context, id string) (invoicedomain.View, error) {
	if f.err != nil {
		return invoicedomain.View{}, f.err
	}
	return invoicedomain.View{DisplayStatus: invoicedomain.StatusPending}, nil
}

func (f *fakeInvoiceService) ApplyTransition(ctx context.Context, req invoicedomain.ApplyTransitionRequest) error {
	f.applied = append(f.applied, req)
	return f.err
}

func (f *fakeInvoiceService) Restore(ctx context.Context, req invoicedomain.RestoreRequest) error {
	f.restored = append(f.restored, req)
	return f.err
}

func (f *fakeInvoiceService) Cancel(ctx context.Context, id string) error {
	f.canceled = append(f.canceled, id)
	return f.err
}

type fakeActivityService struct {
	entries []activitylogdomain.View
	err     error
}

func (f *fakeActivityService) Append(ctx context.Context, req activitylogdomain.AppendRequest) (activitylogdomain.ActivityLog, error) {
	return activitylogdomain.ActivityLog{}, f.err
}

func (f *fakeActivityService) ListByInvoice(ctx context.Context, invoiceID string) ([]activitylogdomain.View, error) {
	return f.entries, f.err
}

func newTestServer(t *testing.T, invSvc invoicedomain.Service, actSvc activitylogdomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{Environment: "test"}
	logger := zaptest.NewLogger(t)

	r := gin.New()
	r.Use(ErrorHandlingMiddleware())

	s := NewServer(ServerParam{
		Cfg:         cfg,
		Log:         logger,
		InvoiceSvc:  invSvc,
		ActivitySvc: actSvc,
	})
	registerRoutes(r, s)
	return r
}

func TestUpdateInvoiceInvokesApplyTransition(t *testing.T) {
	svc := &fakeInvoiceService{}
	r := newTestServer(t, svc, &fakeActivityService{})

	body, _ := json.Marshal(map[string]any{
		"customer_id":  "42",
		"amount_cents": 15000,
		"status":       "paid",
		"old_status":   "pending",
		"date":         "2026-05-01",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/invoices/99", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.applied, 1)
	assert.Equal(t, "99", svc.applied[0].InvoiceID)
	assert.Equal(t, invoicedomain.StatusPending, svc.applied[0].OldStatus)
	assert.Equal(t, invoicedomain.StatusPaid, svc.applied[0].NewStatus)
}

func TestPickStatusUsesDirectChangeRestore(t *testing.T) {
	svc := &fakeInvoiceService{}
	r := newTestServer(t, svc, &fakeActivityService{})

	body, _ := json.Marshal(map[string]string{
		"status":           "paid",
		"displayed_status": "overdue",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/99/status", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.restored, 1)
	assert.Equal(t, invoicedomain.KindDirectChange, svc.restored[0].Kind)
	// The chosen status rides in the first slot of the pair.
	assert.Equal(t, invoicedomain.StatusPaid, svc.restored[0].FromStatus)
	assert.Equal(t, invoicedomain.StatusOverdue, svc.restored[0].ToStatus)
}

func TestRestoreUsesRevertKindAndEntryTriple(t *testing.T) {
	svc := &fakeInvoiceService{}
	r := newTestServer(t, svc, &fakeActivityService{})

	body, _ := json.Marshal(map[string]string{
		"old_status":     "paid",
		"current_status": "pending",
		"date":           "2026-04-02T10:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/99/restore", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.restored, 1)
	assert.Equal(t, invoicedomain.KindRevert, svc.restored[0].Kind)
	assert.Equal(t, invoicedomain.StatusPaid, svc.restored[0].FromStatus)
	assert.Equal(t, invoicedomain.StatusPending, svc.restored[0].ToStatus)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", invoicedomain.ErrInvoiceNotFound, http.StatusNotFound},
		{"validation", invoicedomain.ErrInvalidAmount, http.StatusBadRequest},
		{"transition denied", invoicedomain.ErrTransitionDenied, http.StatusUnprocessableEntity},
		{"unknown storage failure", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeInvoiceService{err: tt.err}
			r := newTestServer(t, svc, &fakeActivityService{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/99/cancel", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestListInvoiceActivityReturnsEntries(t *testing.T) {
	actSvc := &fakeActivityService{
		entries: []activitylogdomain.View{
			{CustomerName: "acme", ImageURL: "/customers/acme.png"},
		},
	}
	r := newTestServer(t, &fakeInvoiceService{}, actSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/99/activity", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "acme")
}

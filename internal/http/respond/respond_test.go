package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/khata/internal/http/respond"
	"github.com/MrJamesThe3rd/khata/internal/ledger"
	"github.com/MrJamesThe3rd/khata/internal/payroll"
	"github.com/MrJamesThe3rd/khata/internal/tax"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "VoucherNotFound", err: voucher.ErrNotFound, want: http.StatusNotFound},
		{name: "LedgerNotFoundWrapped", err: fmt.Errorf("loading group: %w", ledger.ErrNotFound), want: http.StatusNotFound},
		{name: "AlreadyReversed", err: &voucher.PersistenceError{Op: "create voucher", Err: voucher.ErrAlreadyReversed}, want: http.StatusConflict},
		{name: "PayrollRecorded", err: payroll.ErrAlreadyRecorded, want: http.StatusConflict},
		{name: "Unbalanced", err: &voucher.UnbalancedError{}, want: http.StatusUnprocessableEntity},
		{name: "MissingGroup", err: &ledger.MissingGroupError{Type: ledger.GroupLiability}, want: http.StatusUnprocessableEntity},
		{name: "InvalidChart", err: fmt.Errorf("%w: head %q has no code", ledger.ErrInvalidChart, "Sundries"), want: http.StatusUnprocessableEntity},
		{name: "UnknownState", err: tax.ErrUnknownState, want: http.StatusUnprocessableEntity},
		{name: "Unexpected", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respond.Status(tt.err))
		})
	}
}

func TestDecode(t *testing.T) {
	type request struct {
		Name string `json:"name" validate:"required"`
		Code string `json:"code" validate:"omitempty,max=4"`
	}

	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantBody   string
	}{
		{name: "Valid", body: `{"name":"Cash","code":"CASH"}`, wantOK: true, wantStatus: http.StatusOK},
		{name: "Malformed", body: `{"name":`, wantStatus: http.StatusBadRequest},
		{name: "Missing", body: `{"code":"CASH"}`, wantStatus: http.StatusUnprocessableEntity, wantBody: `{"field":"name","rule":"required"}`},
		{name: "TooLong", body: `{"name":"Cash","code":"CASHBOX"}`, wantStatus: http.StatusUnprocessableEntity, wantBody: `{"field":"code","rule":"max"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst request
			ok := respond.Decode(rec, req, &dst)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestError_RetryableConflict(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, &voucher.PersistenceError{Op: "create voucher", Err: voucher.ErrNumberConflict, Retryable: true})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

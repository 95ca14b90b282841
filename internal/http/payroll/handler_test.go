package payroll_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	handler "github.com/MrJamesThe3rd/khata/internal/http/payroll"
	"github.com/MrJamesThe3rd/khata/internal/ledger"
	"github.com/MrJamesThe3rd/khata/internal/payroll"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

type mockPoster struct {
	PostFunc func(ctx context.Context, req payroll.Request) (*payroll.Summary, error)
}

func (m *mockPoster) Post(ctx context.Context, req payroll.Request) (*payroll.Summary, error) {
	return m.PostFunc(ctx, req)
}

func TestHandler_Post(t *testing.T) {
	january := payroll.Period{Year: 2025, Month: time.January}
	voucherID := uuid.New()

	type testCase struct {
		name       string
		body       string
		summary    *payroll.Summary
		postErr    error
		wantReq    payroll.Request
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "Posted",
			body: `{"all_active":true,"year":2025,"month":1,"date":"2025-01-31","basis":"NET"}`,
			summary: &payroll.Summary{
				Count:      2,
				Total:      decimal.NewFromInt(117000),
				Gross:      decimal.NewFromInt(117000),
				Deductions: decimal.NewFromInt(4000),
				Net:        decimal.NewFromInt(113000),
				Basis:      payroll.BasisNet,
				Period:     january,
				Voucher:    &voucher.Voucher{ID: voucherID, Number: "PAY-20250131-0001"},
			},
			wantReq: payroll.Request{
				AllActive: true,
				Period:    january,
				Date:      time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
				Basis:     payroll.BasisNet,
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"voucher_number":"PAY-20250131-0001"`,
		},
		{
			name:       "EmptyBatch",
			body:       `{}`,
			summary:    &payroll.Summary{Period: january, Basis: payroll.BasisGross},
			wantReq:    payroll.Request{},
			wantStatus: http.StatusOK,
			wantBody:   `"message":"no staff pending payroll"`,
		},
		{
			name:       "AllActiveWithIDs",
			body:       `{"all_active":true,"employee_ids":["` + uuid.NewString() + `"]}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "MonthWithoutYear",
			body:       `{"month":1}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "BadBasis",
			body:       `{"basis":"HALF"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "MissingAccounts",
			body:       `{}`,
			postErr:    &ledger.MissingGroupError{Type: ledger.GroupExpense},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "RunNotRecorded",
			body:       `{}`,
			postErr:    errors.Join(payroll.ErrRunNotRecorded, errors.New("connection reset")),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payroll.Request

			svc := &mockPoster{
				PostFunc: func(_ context.Context, req payroll.Request) (*payroll.Summary, error) {
					got = req
					return tt.summary, tt.postErr
				},
			}

			r := chi.NewRouter()
			r.Route("/payroll", handler.NewHandler(svc).Routes)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payroll/", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}

			if tt.wantStatus == http.StatusCreated || tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantReq, got)
			}
		})
	}
}

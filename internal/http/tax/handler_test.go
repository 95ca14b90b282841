package tax_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	handler "github.com/MrJamesThe3rd/khata/internal/http/tax"
)

func TestHandler_Split(t *testing.T) {
	type testCase struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name:       "IntraState",
			query:      "rate=18&place_of_supply=karnataka",
			wantStatus: http.StatusOK,
			wantBody:   `{"rate":"18","cgst":"9","sgst":"9","igst":"0","inter_state":false}`,
		},
		{
			name:       "InterState",
			query:      "rate=18&place_of_supply=Maharashtra",
			wantStatus: http.StatusOK,
			wantBody:   `{"rate":"18","cgst":"0","sgst":"0","igst":"18","inter_state":true}`,
		},
		{
			name:       "CompanyStateOverride",
			query:      "rate=12&place_of_supply=Goa&company_state=GOA",
			wantStatus: http.StatusOK,
			wantBody:   `{"rate":"12","cgst":"6","sgst":"6","igst":"0","inter_state":false}`,
		},
		{
			name:       "WithAmounts",
			query:      "rate=18&place_of_supply=Karnataka&taxable=1000",
			wantStatus: http.StatusOK,
			wantBody: `{"rate":"18","cgst":"9","sgst":"9","igst":"0","inter_state":false,
				"amounts":{"taxable":"1000.00","cgst":"90.00","sgst":"90.00","igst":"0.00","total":"180.00"}}`,
		},
		{
			name:       "EmptyStateIsInterState",
			query:      "rate=5",
			wantStatus: http.StatusOK,
			wantBody:   `{"rate":"5","cgst":"0","sgst":"0","igst":"5","inter_state":true}`,
		},
		{
			name:       "StrictEmptyState",
			query:      "rate=5&strict=true",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "MissingRate",
			query:      "place_of_supply=Karnataka",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "NegativeRate",
			query:      "rate=-5",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Route("/tax", handler.NewHandler("Karnataka").Routes)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tax/split?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

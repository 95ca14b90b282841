package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	khataHttp "github.com/MrJamesThe3rd/khata/internal/http"
	"github.com/MrJamesThe3rd/khata/internal/http/auth"
	"github.com/MrJamesThe3rd/khata/internal/http/cashflow"
	"github.com/MrJamesThe3rd/khata/internal/http/export"
	"github.com/MrJamesThe3rd/khata/internal/http/importcsv"
	"github.com/MrJamesThe3rd/khata/internal/http/ledger"
	"github.com/MrJamesThe3rd/khata/internal/http/payroll"
	"github.com/MrJamesThe3rd/khata/internal/http/tax"
	"github.com/MrJamesThe3rd/khata/internal/http/voucher"
)

func newRouter(opts khataHttp.Options) http.Handler {
	return khataHttp.New(khataHttp.Handlers{
		Ledger:   ledger.NewHandler(nil, nil, nil),
		Vouchers: voucher.NewHandler(nil),
		Payroll:  payroll.NewHandler(nil),
		Tax:      tax.NewHandler("Karnataka"),
		Cashflow: cashflow.NewHandler(nil),
		Import:   importcsv.NewHandler(nil),
		Export:   export.NewHandler(nil, nil),
	}, opts)
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(khataHttp.Options{JWTSecret: "secret"}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_Auth(t *testing.T) {
	secret := "secret"
	token, err := auth.Sign([]byte(secret), "ops", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		secret     string
		token      string
		wantStatus int
	}{
		{name: "Open", wantStatus: http.StatusOK},
		{name: "TokenRequired", secret: secret, wantStatus: http.StatusUnauthorized},
		{name: "TokenAccepted", secret: secret, token: token, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tax/split?rate=18&place_of_supply=Karnataka", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			rec := httptest.NewRecorder()
			newRouter(khataHttp.Options{JWTSecret: tt.secret}).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/vouchers/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	newRouter(khataHttp.Options{AllowedOrigins: []string{"http://localhost:3000"}}).ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RejectsNonJSONVoucher(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vouchers/", nil)
	req.Header.Set("Content-Type", "text/plain")
	req.ContentLength = 4

	rec := httptest.NewRecorder()
	newRouter(khataHttp.Options{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

package cashflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/khata/internal/cashflow"
	handler "github.com/MrJamesThe3rd/khata/internal/http/cashflow"
)

type mockProjector struct {
	CollectFunc func(ctx context.Context, ref time.Time) ([]cashflow.Bucket, error)
}

func (m *mockProjector) Collect(ctx context.Context, ref time.Time) ([]cashflow.Bucket, error) {
	return m.CollectFunc(ctx, ref)
}

func serve(p *mockProjector, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/cashflow", handler.NewHandler(p).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_Project(t *testing.T) {
	t.Run("Buckets", func(t *testing.T) {
		var gotRef time.Time

		p := &mockProjector{
			CollectFunc: func(_ context.Context, ref time.Time) ([]cashflow.Bucket, error) {
				gotRef = ref

				return []cashflow.Bucket{
					{Label: "Mar", Month: time.March, Year: 2025, Inflow: decimal.NewFromInt(1000), Outflow: decimal.NewFromInt(400), Net: decimal.NewFromInt(600)},
					{Label: "Apr", Month: time.April, Year: 2025, Inflow: decimal.NewFromInt(300), Outflow: decimal.NewFromInt(500), Net: decimal.NewFromInt(-200), IsFuture: true},
				}, nil
			},
		}

		rec := serve(p, "/cashflow/?ref=2025-03-15")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), gotRef)

		var body struct {
			Ref     string `json:"ref"`
			Buckets []struct {
				Label    string `json:"label"`
				Month    int    `json:"month"`
				Net      string `json:"net"`
				IsFuture bool   `json:"is_future"`
			} `json:"buckets"`
			Actual struct {
				Net string `json:"net"`
			} `json:"actual"`
			Projected struct {
				Net string `json:"net"`
			} `json:"projected"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		assert.Equal(t, "2025-03-15", body.Ref)
		require.Len(t, body.Buckets, 2)
		assert.Equal(t, 3, body.Buckets[0].Month)
		assert.True(t, body.Buckets[1].IsFuture)
		assert.Equal(t, "-200.00", body.Buckets[1].Net)
		assert.Equal(t, "600.00", body.Actual.Net)
		assert.Equal(t, "-200.00", body.Projected.Net)
	})

	t.Run("BadRef", func(t *testing.T) {
		rec := serve(&mockProjector{}, "/cashflow/?ref=March")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("SourceError", func(t *testing.T) {
		p := &mockProjector{
			CollectFunc: func(context.Context, time.Time) ([]cashflow.Bucket, error) {
				return nil, errors.New("receipts for Jan 2025: connection refused")
			},
		}

		rec := serve(p, "/cashflow/?ref=2025-03-15")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

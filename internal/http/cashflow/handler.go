package cashflow

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/khata/internal/cashflow"
	"github.com/MrJamesThe3rd/khata/internal/http/respond"
)

type Projector interface {
	Collect(ctx context.Context, ref time.Time) ([]cashflow.Bucket, error)
}

type Handler struct {
	projector Projector
	now       func() time.Time
}

func NewHandler(projector Projector) *Handler {
	return &Handler{projector: projector, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.project)
}

type bucketResponse struct {
	Label    string `json:"label"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Inflow   string `json:"inflow"`
	Outflow  string `json:"outflow"`
	Net      string `json:"net"`
	IsFuture bool   `json:"is_future"`
}

type flowResponse struct {
	Inflow  string `json:"inflow"`
	Outflow string `json:"outflow"`
	Net     string `json:"net"`
}

type projectionResponse struct {
	Ref       string           `json:"ref"`
	Buckets   []bucketResponse `json:"buckets"`
	Actual    flowResponse     `json:"actual"`
	Projected flowResponse     `json:"projected"`
}

func toFlowResponse(f cashflow.Flow) flowResponse {
	return flowResponse{
		Inflow:  f.Inflow.StringFixed(2),
		Outflow: f.Outflow.StringFixed(2),
		Net:     f.Net.StringFixed(2),
	}
}

func (h *Handler) project(w http.ResponseWriter, r *http.Request) {
	ref := h.now()

	if s := r.URL.Query().Get("ref"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid ref", http.StatusBadRequest)
			return
		}

		ref = t
	}

	buckets, err := h.projector.Collect(r.Context(), ref)
	if err != nil {
		respond.Error(w, err)
		return
	}

	totals := cashflow.Totals(buckets)

	resp := projectionResponse{
		Ref:       ref.Format(time.DateOnly),
		Buckets:   make([]bucketResponse, len(buckets)),
		Actual:    toFlowResponse(totals.Actual),
		Projected: toFlowResponse(totals.Projected),
	}

	for i, b := range buckets {
		resp.Buckets[i] = bucketResponse{
			Label:    b.Label,
			Year:     b.Year,
			Month:    int(b.Month),
			Inflow:   b.Inflow.StringFixed(2),
			Outflow:  b.Outflow.StringFixed(2),
			Net:      b.Net.StringFixed(2),
			IsFuture: b.IsFuture,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

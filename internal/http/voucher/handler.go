package voucher

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/khata/internal/http/respond"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

type Service interface {
	Post(ctx context.Context, in voucher.Input) (*voucher.Voucher, error)
	Get(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error)
	List(ctx context.Context, filter voucher.ListFilter) ([]*voucher.Voucher, error)
	Reverse(ctx context.Context, id uuid.UUID, date time.Time, narration string) (*voucher.Voucher, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.post)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/reverse", h.reverse)
}

type entryRequest struct {
	AccountID    uuid.UUID       `json:"account_id" validate:"required"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Currency     string          `json:"currency" validate:"omitempty,len=3,alpha"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	CostCenterID *uuid.UUID      `json:"cost_center_id,omitempty"`
}

type postVoucherRequest struct {
	Date      string         `json:"date" validate:"required,datetime=2006-01-02"`
	Type      voucher.Type   `json:"type" validate:"required,oneof=PAYMENT RECEIPT JOURNAL CONTRA"`
	Narration string         `json:"narration" validate:"max=500"`
	Reference string         `json:"reference" validate:"max=100"`
	Entries   []entryRequest `json:"entries" validate:"required,min=1,dive"`
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	var req postVoucherRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	date, _ := time.Parse(time.DateOnly, req.Date)

	in := voucher.Input{
		Date:      date,
		Type:      req.Type,
		Narration: req.Narration,
		Reference: req.Reference,
		Entries:   make([]voucher.EntryInput, len(req.Entries)),
	}

	for i, e := range req.Entries {
		in.Entries[i] = voucher.EntryInput{
			AccountID:    e.AccountID,
			Debit:        e.Debit,
			Credit:       e.Credit,
			Currency:     e.Currency,
			ExchangeRate: e.ExchangeRate,
			CostCenterID: e.CostCenterID,
		}
	}

	v, err := h.svc.Post(r.Context(), in)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(v))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := voucher.ListFilter{}

	if s := r.URL.Query().Get("type"); s != "" {
		t := voucher.Type(s)
		if !t.Valid() {
			http.Error(w, "invalid type", http.StatusBadRequest)
			return
		}

		filter.Type = &t
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}

		filter.StartDate = &t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}

		filter.EndDate = &t
	}

	vs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(vs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(v))
}

type reverseRequest struct {
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Narration string `json:"narration" validate:"max=500"`
}

func (h *Handler) reverse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	// The body is optional: an empty one reverses on the original date.
	var req reverseRequest
	if r.ContentLength != 0 && !respond.Decode(w, r, &req) {
		return
	}

	var date time.Time
	if req.Date != "" {
		date, _ = time.Parse(time.DateOnly, req.Date)
	}

	v, err := h.svc.Reverse(r.Context(), id, date, req.Narration)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(v))
}

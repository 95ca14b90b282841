package payroll

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/khata/internal/http/respond"
	"github.com/MrJamesThe3rd/khata/internal/payroll"
)

type Poster interface {
	Post(ctx context.Context, req payroll.Request) (*payroll.Summary, error)
}

type Handler struct {
	svc Poster
}

func NewHandler(svc Poster) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.post)
}

type postRequest struct {
	EmployeeIDs []uuid.UUID   `json:"employee_ids"`
	AllActive   bool          `json:"all_active" validate:"excluded_with=EmployeeIDs"`
	Year        int           `json:"year" validate:"required_with=Month,omitempty,min=2000,max=9999"`
	Month       int           `json:"month" validate:"required_with=Year,omitempty,min=1,max=12"`
	Date        string        `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Basis       payroll.Basis `json:"basis" validate:"omitempty,oneof=GROSS NET"`
}

type summaryResponse struct {
	Period        string  `json:"period"`
	Basis         string  `json:"basis"`
	Employees     int     `json:"employees"`
	Total         string  `json:"total"`
	Gross         string  `json:"gross"`
	Deductions    string  `json:"deductions"`
	Net           string  `json:"net"`
	VoucherID     *string `json:"voucher_id,omitempty"`
	VoucherNumber string  `json:"voucher_number,omitempty"`
	Message       string  `json:"message,omitempty"`
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	preq := payroll.Request{
		EmployeeIDs: req.EmployeeIDs,
		AllActive:   req.AllActive,
		Period:      payroll.Period{Year: req.Year, Month: time.Month(req.Month)},
		Basis:       req.Basis,
	}

	if req.Date != "" {
		preq.Date, _ = time.Parse(time.DateOnly, req.Date)
	}

	sum, err := h.svc.Post(r.Context(), preq)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := summaryResponse{
		Period:     sum.Period.String(),
		Basis:      string(sum.Basis),
		Employees:  sum.Count,
		Total:      sum.Total.StringFixed(2),
		Gross:      sum.Gross.StringFixed(2),
		Deductions: sum.Deductions.StringFixed(2),
		Net:        sum.Net.StringFixed(2),
	}

	if sum.Empty() {
		resp.Message = "no staff pending payroll"
		respond.JSON(w, http.StatusOK, resp)

		return
	}

	resp.VoucherID = new(sum.Voucher.ID.String())
	resp.VoucherNumber = sum.Voucher.Number

	respond.JSON(w, http.StatusCreated, resp)
}

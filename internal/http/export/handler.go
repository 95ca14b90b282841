package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/khata/internal/cashflow"
	"github.com/MrJamesThe3rd/khata/internal/export"
	"github.com/MrJamesThe3rd/khata/internal/http/respond"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Daybook interface {
	Daybook(ctx context.Context, from, to time.Time, w io.Writer) (int, error)
}

type Projector interface {
	Collect(ctx context.Context, ref time.Time) ([]cashflow.Bucket, error)
}

type Handler struct {
	daybook   Daybook
	projector Projector
	now       func() time.Time
}

func NewHandler(daybook Daybook, projector Projector) *Handler {
	return &Handler{
		daybook:   daybook,
		projector: projector,
		now:       time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/daybook.csv", h.daybookCSV)
	r.Get("/cashflow.xlsx", h.cashflowXLSX)
}

// daybookCSV exports vouchers dated from..to. The range defaults to the
// current month.
func (h *Handler) daybookCSV(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid from", http.StatusBadRequest)
			return
		}

		from = t
	}

	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid to", http.StatusBadRequest)
			return
		}

		to = t
	}

	if to.Before(from) {
		http.Error(w, "to is before from", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer

	n, err := h.daybook.Daybook(r.Context(), from, to, &buf)
	if err != nil {
		respond.Error(w, err)
		return
	}

	slog.Info("day book exported", "from", from.Format(time.DateOnly), "to", to.Format(time.DateOnly), "vouchers", n)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"daybook_%s_%s.csv\"", from.Format("20060102"), to.Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write day book", "error", err)
	}
}

func (h *Handler) cashflowXLSX(w http.ResponseWriter, r *http.Request) {
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

	var buf bytes.Buffer
	if err := export.CashflowXLSX(buckets, &buf); err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"cashflow_%s.xlsx\"", ref.Format("200601")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write workbook", "error", err)
	}
}

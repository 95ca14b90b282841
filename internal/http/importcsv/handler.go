package importcsv

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/khata/internal/http/respond"
	"github.com/MrJamesThe3rd/khata/internal/importer"
)

type Importer interface {
	Import(ctx context.Context, format importer.Format, r io.Reader) (*importer.Result, error)
}

type Handler struct {
	importSvc Importer
}

func NewHandler(importSvc Importer) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type postedDTO struct {
	ID        uuid.UUID `json:"id"`
	Number    string    `json:"number"`
	Reference string    `json:"reference,omitempty"`
}

type failureDTO struct {
	Ref   string `json:"ref"`
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type importResponse struct {
	Imported int          `json:"imported"`
	Posted   []postedDTO  `json:"posted"`
	Failed   []failureDTO `json:"failed"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatDaybook
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(r.Context(), format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := importResponse{
		Imported: len(res.Posted),
		Posted:   make([]postedDTO, 0, len(res.Posted)),
		Failed:   make([]failureDTO, 0, len(res.Failed)),
	}

	for _, v := range res.Posted {
		resp.Posted = append(resp.Posted, postedDTO{ID: v.ID, Number: v.Number, Reference: v.Reference})
	}

	for _, f := range res.Failed {
		resp.Failed = append(resp.Failed, failureDTO{Ref: f.Ref, Line: f.Line, Error: f.Err.Error()})
	}

	status := http.StatusOK
	if len(res.Posted) == 0 && len(res.Failed) > 0 {
		status = http.StatusUnprocessableEntity
	}

	respond.JSON(w, status, resp)
}

package tax

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/khata/internal/http/respond"
	"github.com/MrJamesThe3rd/khata/internal/tax"
)

type Handler struct {
	companyState string
}

// NewHandler serves GST splits. companyState is used when a request names no
// company state of its own.
func NewHandler(companyState string) *Handler {
	return &Handler{companyState: companyState}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/split", h.split)
}

type splitQuery struct {
	Rate          string `json:"rate" validate:"required,number"`
	PlaceOfSupply string `json:"place_of_supply" validate:"max=64"`
	CompanyState  string `json:"company_state" validate:"max=64"`
	Taxable       string `json:"taxable" validate:"omitempty,number"`
	Strict        bool   `json:"strict"`
}

type amountsResponse struct {
	Taxable string `json:"taxable"`
	CGST    string `json:"cgst"`
	SGST    string `json:"sgst"`
	IGST    string `json:"igst"`
	Total   string `json:"total"`
}

type splitResponse struct {
	Rate       string           `json:"rate"`
	CGST       string           `json:"cgst"`
	SGST       string           `json:"sgst"`
	IGST       string           `json:"igst"`
	InterState bool             `json:"inter_state"`
	Amounts    *amountsResponse `json:"amounts,omitempty"`
}

func (h *Handler) split(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := splitQuery{
		Rate:          q.Get("rate"),
		PlaceOfSupply: q.Get("place_of_supply"),
		CompanyState:  q.Get("company_state"),
		Taxable:       q.Get("taxable"),
		Strict:        q.Get("strict") == "true",
	}

	if !respond.Valid(w, &query) {
		return
	}

	if query.CompanyState == "" {
		query.CompanyState = h.companyState
	}

	rate, err := decimal.NewFromString(query.Rate)
	if err != nil || rate.IsNegative() {
		http.Error(w, "rate must be a non-negative number", http.StatusBadRequest)
		return
	}

	var c tax.Components
	if query.Strict {
		c, err = tax.SplitStrict(rate, query.PlaceOfSupply, query.CompanyState)
		if err != nil {
			respond.Error(w, err)
			return
		}
	} else {
		c = tax.Split(rate, query.PlaceOfSupply, query.CompanyState)
	}

	resp := splitResponse{
		Rate:       c.Rate().String(),
		CGST:       c.CGST.String(),
		SGST:       c.SGST.String(),
		IGST:       c.IGST.String(),
		InterState: c.IsInterState(),
	}

	if query.Taxable != "" {
		taxable, err := decimal.NewFromString(query.Taxable)
		if err != nil {
			http.Error(w, "invalid taxable", http.StatusBadRequest)
			return
		}

		a := c.Apply(taxable)
		resp.Amounts = &amountsResponse{
			Taxable: taxable.StringFixed(2),
			CGST:    a.CGST.StringFixed(2),
			SGST:    a.SGST.StringFixed(2),
			IGST:    a.IGST.StringFixed(2),
			Total:   a.Total.StringFixed(2),
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

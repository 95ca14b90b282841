// Package respond writes JSON bodies and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/khata/internal/ledger"
	"github.com/MrJamesThe3rd/khata/internal/payroll"
	"github.com/MrJamesThe3rd/khata/internal/tax"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

type errorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
	Fields  []fieldProblem `json:"fields,omitempty"`
}

type fieldProblem struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON body into dst and validates it against its struct tags.
// It writes the error response itself and reports whether the caller may go on.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return false
	}

	return Valid(w, dst)
}

// Valid checks v against its struct tags, writing a 422 listing the failing
// fields when it does not pass.
func Valid(w http.ResponseWriter, v any) bool {
	if err := validate.Struct(v); err != nil {
		resp := errorResponse{Error: "validation failed"}

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				resp.Fields = append(resp.Fields, fieldProblem{Field: fe.Field(), Rule: fe.Tag()})
			}
		}

		JSON(w, http.StatusUnprocessableEntity, resp)

		return false
	}

	return true
}

// Error maps err to a status code and writes it. Unexpected errors are logged
// and hidden from the client.
func Error(w http.ResponseWriter, err error) {
	var ue *voucher.UnbalancedError
	if errors.As(err, &ue) {
		JSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: ue.Error(),
			Details: map[string]any{
				"total_debit":  ue.TotalDebit.StringFixed(2),
				"total_credit": ue.TotalCredit.StringFixed(2),
			},
		})

		return
	}

	var pe *voucher.PersistenceError
	if errors.As(err, &pe) && pe.Retryable {
		w.Header().Set("Retry-After", "1")
		JSON(w, http.StatusServiceUnavailable, errorResponse{Error: "voucher numbering is busy, retry"})

		return
	}

	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		JSON(w, status, errorResponse{Error: "internal error"})

		return
	}

	JSON(w, status, errorResponse{Error: err.Error()})
}

// Status is the HTTP status for a domain error.
func Status(err error) int {
	switch {
	case errors.Is(err, voucher.ErrNotFound),
		errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, voucher.ErrAlreadyReversed),
		errors.Is(err, voucher.ErrReversalOfReversal),
		errors.Is(err, voucher.ErrNumberConflict),
		errors.Is(err, ledger.ErrDuplicateCode),
		errors.Is(err, payroll.ErrAlreadyRecorded):
		return http.StatusConflict
	case errors.Is(err, voucher.ErrUnbalanced),
		errors.Is(err, voucher.ErrInvalidType),
		errors.Is(err, voucher.ErrNoEntries),
		errors.Is(err, voucher.ErrNegativeAmount),
		errors.Is(err, voucher.ErrInvalidExchangeRate),
		errors.Is(err, voucher.ErrUnknownAccount),
		errors.Is(err, ledger.ErrInvalidGroupType),
		errors.Is(err, ledger.ErrGroupTypeMismatch),
		errors.Is(err, ledger.ErrGroupCycle),
		errors.Is(err, ledger.ErrMissingAccountGroup),
		errors.Is(err, ledger.ErrInvalidChart),
		errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrInvalidBasis),
		errors.Is(err, payroll.ErrNegativeNetSalary),
		errors.Is(err, tax.ErrUnknownState):
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

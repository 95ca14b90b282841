package voucher

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

type entryResponse struct {
	ID            uuid.UUID  `json:"id"`
	AccountID     uuid.UUID  `json:"account_id"`
	Debit         string     `json:"debit"`
	Credit        string     `json:"credit"`
	Currency      string     `json:"currency"`
	ExchangeRate  string     `json:"exchange_rate"`
	CostCenterID  *uuid.UUID `json:"cost_center_id,omitempty"`
	ForeignAmount *string    `json:"foreign_amount,omitempty"`
}

type voucherResponse struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	Date        string          `json:"date"`
	Type        voucher.Type    `json:"type"`
	Narration   string          `json:"narration"`
	Reference   string          `json:"reference,omitempty"`
	Status      voucher.Status  `json:"status"`
	ReversalOf  *uuid.UUID      `json:"reversal_of,omitempty"`
	TotalDebit  string          `json:"total_debit"`
	TotalCredit string          `json:"total_credit"`
	Entries     []entryResponse `json:"entries"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toResponse(v *voucher.Voucher) voucherResponse {
	debit, credit := v.Totals()

	resp := voucherResponse{
		ID:          v.ID,
		Number:      v.Number,
		Date:        v.Date.Format(time.DateOnly),
		Type:        v.Type,
		Narration:   v.Narration,
		Reference:   v.Reference,
		Status:      v.Status,
		ReversalOf:  v.ReversalOf,
		TotalDebit:  debit.StringFixed(2),
		TotalCredit: credit.StringFixed(2),
		Entries:     make([]entryResponse, len(v.Entries)),
		CreatedAt:   v.CreatedAt,
	}

	for i, e := range v.Entries {
		resp.Entries[i] = entryResponse{
			ID:           e.ID,
			AccountID:    e.AccountID,
			Debit:        e.Debit.StringFixed(2),
			Credit:       e.Credit.StringFixed(2),
			Currency:     e.Currency,
			ExchangeRate: e.ExchangeRate.String(),
			CostCenterID: e.CostCenterID,
		}

		if e.ForeignAmount != nil {
			resp.Entries[i].ForeignAmount = new(e.ForeignAmount.StringFixed(2))
		}
	}

	return resp
}

func toResponseList(vs []*voucher.Voucher) []voucherResponse {
	resp := make([]voucherResponse, len(vs))
	for i, v := range vs {
		resp[i] = toResponse(v)
	}

	return resp
}

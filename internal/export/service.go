package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/khata/internal/cashflow"
	"github.com/MrJamesThe3rd/khata/internal/ledger"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

const cashflowSheet = "Cash Flow"

// DaybookHeader is the column layout the day book importer reads back.
var DaybookHeader = []string{
	"ref", "date", "type", "narration", "account", "debit", "credit", "currency", "rate", "cost_center",
}

type Vouchers interface {
	List(ctx context.Context, filter voucher.ListFilter) ([]*voucher.Voucher, error)
}

type Accounts interface {
	ListHeads(ctx context.Context) ([]*ledger.Head, error)
	ListCostCenters(ctx context.Context) ([]*ledger.CostCenter, error)
}

// Service writes journal and projection reports.
type Service struct {
	vouchers Vouchers
	accounts Accounts
}

func NewService(vouchers Vouchers, accounts Accounts) *Service {
	return &Service{
		vouchers: vouchers,
		accounts: accounts,
	}
}

// Daybook writes every voucher dated from..to, inclusive, as ';' separated CSV
// with one line per entry. Accounts are written by code, or by name for heads
// that have none. It returns the number of vouchers written.
func (s *Service) Daybook(ctx context.Context, from, to time.Time, w io.Writer) (int, error) {
	vouchers, err := s.vouchers.List(ctx, voucher.ListFilter{StartDate: &from, EndDate: &to})
	if err != nil {
		return 0, fmt.Errorf("listing vouchers: %w", err)
	}

	heads, centers, err := s.names(ctx)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(DaybookHeader); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for _, v := range vouchers {
		for i, e := range v.Entries {
			narration := ""
			if i == 0 {
				narration = v.Narration
			}

			rate := ""
			if e.Currency != voucher.DefaultCurrency {
				rate = e.ExchangeRate.String()
			}

			costCenter := ""
			if e.CostCenterID != nil {
				costCenter = centers[*e.CostCenterID]
			}

			record := []string{
				v.Number,
				v.Date.Format("2006-01-02"),
				string(v.Type),
				narration,
				heads[e.AccountID],
				amount(e.Debit.StringFixed(2)),
				amount(e.Credit.StringFixed(2)),
				e.Currency,
				rate,
				costCenter,
			}

			if err := cw.Write(record); err != nil {
				return 0, fmt.Errorf("writing %s: %w", v.Number, err)
			}
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing day book: %w", err)
	}

	return len(vouchers), nil
}

func (s *Service) names(ctx context.Context) (map[uuid.UUID]string, map[uuid.UUID]string, error) {
	hs, err := s.accounts.ListHeads(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing heads: %w", err)
	}

	ccs, err := s.accounts.ListCostCenters(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing cost centers: %w", err)
	}

	heads := make(map[uuid.UUID]string, len(hs))
	for _, h := range hs {
		heads[h.ID] = h.Code
		if h.Code == "" {
			heads[h.ID] = h.Name
		}
	}

	centers := make(map[uuid.UUID]string, len(ccs))
	for _, cc := range ccs {
		centers[cc.ID] = cc.Code
	}

	return heads, centers, nil
}

// amount leaves the empty side of an entry blank.
func amount(s string) string {
	if s == "0.00" {
		return ""
	}

	return s
}

// CashflowXLSX writes a projection as a one-sheet workbook with a totals
// block that keeps actual and projected months apart.
func CashflowXLSX(buckets []cashflow.Bucket, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", cashflowSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	estimate, err := f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Italic: true, Color: "808080"}})
	if err != nil {
		return fmt.Errorf("creating estimate style: %w", err)
	}

	header := []any{"Month", "Year", "Inflow", "Outflow", "Net", "Kind"}
	if err := f.SetSheetRow(cashflowSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := f.SetCellStyle(cashflowSheet, "A1", "F1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	row := 2
	for _, b := range buckets {
		kind, style := "Actual", money
		if b.IsFuture {
			kind, style = "Projected", estimate
		}

		values := []any{
			b.Label,
			b.Year,
			b.Inflow.InexactFloat64(),
			b.Outflow.InexactFloat64(),
			b.Net.InexactFloat64(),
			kind,
		}

		if err := writeRow(f, row, values, style); err != nil {
			return err
		}

		row++
	}

	sum := cashflow.Totals(buckets)
	row++

	for _, t := range []struct {
		label string
		flow  cashflow.Flow
	}{
		{"Total actual", sum.Actual},
		{"Total projected", sum.Projected},
	} {
		values := []any{t.label, "", t.flow.Inflow.InexactFloat64(), t.flow.Outflow.InexactFloat64(), t.flow.Net.InexactFloat64(), ""}
		if err := writeRow(f, row, values, money); err != nil {
			return err
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellStyle(cashflowSheet, cell, cell, bold); err != nil {
			return fmt.Errorf("styling totals: %w", err)
		}

		row++
	}

	if err := f.SetColWidth(cashflowSheet, "A", "A", 16); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if err := f.SetColWidth(cashflowSheet, "C", "E", 14); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func writeRow(f *excelize.File, row int, values []any, amountStyle int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(cashflowSheet, first, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}

	from, _ := excelize.CoordinatesToCellName(3, row)
	to, _ := excelize.CoordinatesToCellName(5, row)

	if err := f.SetCellStyle(cashflowSheet, from, to, amountStyle); err != nil {
		return fmt.Errorf("styling row %d: %w", row, err)
	}

	return nil
}

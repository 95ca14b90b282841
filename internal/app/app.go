// Package app assembles the services shared by the API server, the operator
// CLI and the TUI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/khata/internal/cashflow"
	cashflowStore "github.com/MrJamesThe3rd/khata/internal/cashflow/store"
	"github.com/MrJamesThe3rd/khata/internal/config"
	"github.com/MrJamesThe3rd/khata/internal/export"
	"github.com/MrJamesThe3rd/khata/internal/importer"
	"github.com/MrJamesThe3rd/khata/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/khata/internal/ledger/store"
	"github.com/MrJamesThe3rd/khata/internal/payroll"
	payrollStore "github.com/MrJamesThe3rd/khata/internal/payroll/store"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
	voucherStore "github.com/MrJamesThe3rd/khata/internal/voucher/store"
)

type App struct {
	Config *config.Config

	Ledger    *ledger.Service
	Vouchers  *voucher.Service
	Payroll   *payroll.Service
	Projector *cashflow.Projector
	Importer  *importer.Service
	Export    *export.Service
}

// New builds every service over db. The well-known heads are resolved from the
// stored chart; when the chart has not been seeded yet payroll posting reports
// the missing group until SetAccounts is called after a seed.
func New(ctx context.Context, cfg *config.Config, db *sql.DB) (*App, error) {
	ledgerSvc := ledger.NewService(ledgerStore.New(db))

	voucherSvc := voucher.NewService(voucherStore.New(db),
		voucher.WithMaxAttempts(cfg.Ledger.PostRetries),
		voucher.WithBaseCurrency(cfg.Ledger.BaseCurrency),
	)
	voucherSvc.OnPosted(logPosted)

	wk, err := ledgerSvc.Bootstrap(ctx)
	if err != nil {
		if !errors.Is(err, ledger.ErrMissingAccountGroup) {
			return nil, fmt.Errorf("resolving well-known accounts: %w", err)
		}

		slog.Warn("chart of accounts not seeded, payroll posting unavailable", "error", err)
	}

	return &App{
		Config:    cfg,
		Ledger:    ledgerSvc,
		Vouchers:  voucherSvc,
		Payroll:   payroll.NewService(payrollStore.New(db), voucherSvc, wk),
		Projector: cashflow.NewProjector(cashflowStore.New(db)),
		Importer:  importer.NewService(ledgerSvc, voucherSvc),
		Export:    export.NewService(voucherSvc, ledgerSvc),
	}, nil
}

// Seed applies chart and hands the resolved heads to payroll.
func (a *App) Seed(ctx context.Context, chart *ledger.Chart) (ledger.WellKnown, error) {
	wk, err := a.Ledger.Seed(ctx, chart)
	if err != nil {
		return ledger.WellKnown{}, err
	}

	a.Payroll.SetAccounts(wk)

	return wk, nil
}

func logPosted(_ context.Context, v *voucher.Voucher) {
	debit, _ := v.Totals()

	attrs := []any{
		"number", v.Number,
		"type", v.Type,
		"date", v.Date.Format("2006-01-02"),
		"amount", debit.StringFixed(2),
	}
	if v.ReversalOf != nil {
		attrs = append(attrs, "reversal_of", v.ReversalOf.String())
	}

	slog.Info("voucher posted", attrs...)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/khata/internal/app"
	"github.com/MrJamesThe3rd/khata/internal/config"
	"github.com/MrJamesThe3rd/khata/internal/database"
	khataHttp "github.com/MrJamesThe3rd/khata/internal/http"
	cashflowHandler "github.com/MrJamesThe3rd/khata/internal/http/cashflow"
	exportHandler "github.com/MrJamesThe3rd/khata/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/khata/internal/http/importcsv"
	ledgerHandler "github.com/MrJamesThe3rd/khata/internal/http/ledger"
	payrollHandler "github.com/MrJamesThe3rd/khata/internal/http/payroll"
	taxHandler "github.com/MrJamesThe3rd/khata/internal/http/tax"
	voucherHandler "github.com/MrJamesThe3rd/khata/internal/http/voucher"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	a, err := app.New(ctx, cfg, db)
	if err != nil {
		slog.Error("failed to start services", "error", err)
		os.Exit(1)
	}

	router := khataHttp.New(khataHttp.Handlers{
		Ledger:   ledgerHandler.NewHandler(a.Ledger, a.Vouchers, a.Payroll.SetAccounts),
		Vouchers: voucherHandler.NewHandler(a.Vouchers),
		Payroll:  payrollHandler.NewHandler(a.Payroll),
		Tax:      taxHandler.NewHandler(cfg.Ledger.CompanyState),
		Cashflow: cashflowHandler.NewHandler(a.Projector),
		Import:   importHandler.NewHandler(a.Importer),
		Export:   exportHandler.NewHandler(a.Export, a.Projector),
	}, khataHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", srv.Addr, "auth", cfg.Auth.JWTSecret != "")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

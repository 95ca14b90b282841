package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/khata/internal/http/auth"
	"github.com/MrJamesThe3rd/khata/internal/http/cashflow"
	"github.com/MrJamesThe3rd/khata/internal/http/export"
	"github.com/MrJamesThe3rd/khata/internal/http/importcsv"
	"github.com/MrJamesThe3rd/khata/internal/http/ledger"
	"github.com/MrJamesThe3rd/khata/internal/http/payroll"
	"github.com/MrJamesThe3rd/khata/internal/http/tax"
	"github.com/MrJamesThe3rd/khata/internal/http/voucher"
)

type Handlers struct {
	Ledger   *ledger.Handler
	Vouchers *voucher.Handler
	Payroll  *payroll.Handler
	Tax      *tax.Handler
	Cashflow *cashflow.Handler
	Import   *importcsv.Handler
	Export   *export.Handler
}

type Options struct {
	AllowedOrigins []string
	// JWTSecret enables bearer-token checks on /api/v1 when set.
	JWTSecret string
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(auth.Middleware([]byte(opts.JWTSecret)))
		}

		r.Route("/ledger", h.Ledger.Routes)

		r.Route("/vouchers", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Vouchers.Routes(r)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Payroll.Routes(r)
		})

		r.Route("/tax", h.Tax.Routes)
		r.Route("/cashflow", h.Cashflow.Routes)
		r.Route("/import", h.Import.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}

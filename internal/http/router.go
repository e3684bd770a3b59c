package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/scrooge/internal/http/catalog"
	"github.com/MrJamesThe3rd/scrooge/internal/http/export"
	"github.com/MrJamesThe3rd/scrooge/internal/http/importcsv"
	"github.com/MrJamesThe3rd/scrooge/internal/http/rule"
	"github.com/MrJamesThe3rd/scrooge/internal/http/transaction"
)

type Options struct {
	AllowedOrigins []string
	// Timeout bounds every request except imports, which carry their own limit.
	Timeout time.Duration
}

func New(
	opts Options,
	transactionsV1 *transaction.Handler,
	importV1 *importcsv.Handler,
	rulesV1 *rule.Handler,
	exportV1 *export.Handler,
	catalogV1 *catalog.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/import", importV1.Routes)
		r.Get("/formats", importV1.Formats)

		r.Group(func(r chi.Router) {
			if opts.Timeout > 0 {
				r.Use(middleware.Timeout(opts.Timeout))
			}

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})

			r.Route("/rules", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				rulesV1.Routes(r)
			})

			r.Route("/export", exportV1.Routes)
			r.Get("/accounts", catalogV1.Accounts)
			r.Get("/tags", catalogV1.Tags)
		})
	})

	return router
}

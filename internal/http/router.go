package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cibercrimen/casetrack/internal/auth"
	"github.com/cibercrimen/casetrack/internal/http/cases"
	"github.com/cibercrimen/casetrack/internal/http/importcsv"
	"github.com/cibercrimen/casetrack/internal/http/report"
	"github.com/cibercrimen/casetrack/internal/http/stats"
)

func New(
	verifier *auth.Verifier,
	casesV1 *cases.Handler,
	statsV1 *stats.Handler,
	importV1 *importcsv.Handler,
	reportV1 *report.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(verifier.Middleware)

		r.Route("/cases", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			casesV1.Routes(r)
		})

		r.Route("/stats", statsV1.Routes)

		r.Route("/import", importV1.Routes)

		r.Route("/report", reportV1.Routes)
	})

	return router
}

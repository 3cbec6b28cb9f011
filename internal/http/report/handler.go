package report

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cibercrimen/casetrack/internal/cybercase"
	"github.com/cibercrimen/casetrack/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter := cybercase.Filter{
		Search:    r.URL.Query().Get("search"),
		CrimeType: r.URL.Query().Get("crime_type"),
	}

	if s := r.URL.Query().Get("date_from"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.DateFrom = new(t)
		}
	}

	if s := r.URL.Query().Get("date_to"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.DateTo = new(t)
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.Filename(filter, time.Now())))

	if _, err := h.svc.WriteCSV(r.Context(), filter, w); err != nil {
		// Headers are already out; the truncated body is the best signal left.
		slog.Error("failed to write report", "error", err)
	}
}

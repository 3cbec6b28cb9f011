package stats

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/cibercrimen/casetrack/internal/auth"
	"github.com/cibercrimen/casetrack/internal/stats"
)

type Handler struct {
	svc *stats.Service
}

func NewHandler(svc *stats.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.dashboard)
}

type crimeTypeStat struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type summaryResponse struct {
	TotalCases     int             `json:"total_cases"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ActiveCases    int             `json:"active_cases"`
	ResolvedCases  int             `json:"resolved_cases"`
	MonthlyCases   []int           `json:"monthly_cases"`
	CrimeTypeStats []crimeTypeStat `json:"crime_type_stats"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	summary, err := h.svc.Dashboard(r.Context(), identity.UserID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := summaryResponse{
		TotalCases:     summary.TotalCases,
		TotalAmount:    summary.TotalAmount,
		ActiveCases:    summary.ActiveCases,
		ResolvedCases:  summary.ResolvedCases,
		MonthlyCases:   summary.MonthlyCases[:],
		CrimeTypeStats: make([]crimeTypeStat, 0, len(summary.CrimeTypes)),
	}

	for _, ct := range summary.CrimeTypes {
		resp.CrimeTypeStats = append(resp.CrimeTypeStats, crimeTypeStat{
			Type:  ct.Type,
			Count: ct.Count,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

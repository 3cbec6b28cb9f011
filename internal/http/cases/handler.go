package cases

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cibercrimen/casetrack/internal/auth"
	"github.com/cibercrimen/casetrack/internal/cybercase"
)

type Handler struct {
	svc *cybercase.Service
}

func NewHandler(svc *cybercase.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createCaseRequest struct {
	CaseDate                string              `json:"case_date"`
	ExpedientNumber         string              `json:"expedient_number"`
	CrimeType               cybercase.CrimeType `json:"crime_type"`
	Status                  cybercase.Status    `json:"investigation_status"`
	StolenAmount            decimal.Decimal     `json:"stolen_amount"`
	SenderAccountData       string              `json:"sender_account_data"`
	ReceiverAccountData     string              `json:"receiver_account_data"`
	ReceiverAccountResearch string              `json:"receiver_account_research"`
	Observations            string              `json:"observations"`
	Victim                  string              `json:"victim"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	caseDate, err := parseDate(req.CaseDate)
	if err != nil {
		writeServiceError(w, errBadCaseDate)
		return
	}

	identity, _ := auth.FromContext(r.Context())

	c, err := h.svc.Create(r.Context(), cybercase.CreateParams{
		CaseDate:                caseDate,
		ExpedientNumber:         req.ExpedientNumber,
		CrimeType:               req.CrimeType,
		Status:                  req.Status,
		StolenAmount:            req.StolenAmount,
		SenderAccountData:       req.SenderAccountData,
		ReceiverAccountData:     req.ReceiverAccountData,
		ReceiverAccountResearch: req.ReceiverAccountResearch,
		Observations:            req.Observations,
		Victim:                  req.Victim,
	}, identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(c)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
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

	page := cybercase.Page{
		Number: queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}.Normalize()

	list, err := h.svc.List(r.Context(), filter, page)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toListResponse(list, page)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(c)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateCaseRequest struct {
	CaseDate                *string              `json:"case_date,omitempty"`
	ExpedientNumber         *string              `json:"expedient_number,omitempty"`
	CrimeType               *cybercase.CrimeType `json:"crime_type,omitempty"`
	Status                  *cybercase.Status    `json:"investigation_status,omitempty"`
	StolenAmount            *decimal.Decimal     `json:"stolen_amount,omitempty"`
	SenderAccountData       *string              `json:"sender_account_data,omitempty"`
	ReceiverAccountData     *string              `json:"receiver_account_data,omitempty"`
	ReceiverAccountResearch *string              `json:"receiver_account_research,omitempty"`
	Observations            *string              `json:"observations,omitempty"`
	Victim                  *string              `json:"victim,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := cybercase.UpdateParams{
		ExpedientNumber:         req.ExpedientNumber,
		CrimeType:               req.CrimeType,
		Status:                  req.Status,
		StolenAmount:            req.StolenAmount,
		SenderAccountData:       req.SenderAccountData,
		ReceiverAccountData:     req.ReceiverAccountData,
		ReceiverAccountResearch: req.ReceiverAccountResearch,
		Observations:            req.Observations,
		Victim:                  req.Victim,
	}

	if req.CaseDate != nil {
		t, err := parseDate(*req.CaseDate)
		if err != nil {
			writeServiceError(w, errBadCaseDate)
			return
		}

		params.CaseDate = new(t)
	}

	c, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(c)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

// errBadCaseDate is a malformed date in a mutation body; like every other
// input failure it carries the offending field.
var errBadCaseDate = &cybercase.ValidationError{
	Fields: map[string]string{"case_date": "must be formatted as 2006-01-02"},
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}

	return n
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// writeServiceError maps the domain errors onto HTTP statuses. Validation
// failures carry the per-field reasons so the UI can highlight inputs.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *cybercase.ValidationError
	if errors.As(err, &verr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)

		if err := json.NewEncoder(w).Encode(validationResponse{
			Error:  verr.Error(),
			Fields: verr.Fields,
		}); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	if errors.Is(err, cybercase.ErrNotFound) {
		http.Error(w, "case not found", http.StatusNotFound)
		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}

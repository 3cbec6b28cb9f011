package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cibercrimen/casetrack/internal/auth"
	"github.com/cibercrimen/casetrack/internal/cybercase"
	"github.com/cibercrimen/casetrack/internal/importer"
)

type Handler struct {
	importSvc *importer.Service
	caseSvc   *cybercase.Service
}

func NewHandler(importSvc *importer.Service, caseSvc *cybercase.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		caseSvc:   caseSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type caseResponse struct {
	ID              uuid.UUID           `json:"id"`
	CaseDate        string              `json:"case_date"`
	ExpedientNumber string              `json:"expedient_number"`
	CrimeType       cybercase.CrimeType `json:"crime_type"`
	Status          cybercase.Status    `json:"investigation_status"`
	StolenAmount    decimal.Decimal     `json:"stolen_amount"`
	Victim          string              `json:"victim"`
	CreatedAt       time.Time           `json:"created_at"`
}

type importSuccessResponse struct {
	Imported int            `json:"imported"`
	Cases    []caseResponse `json:"cases"`
}

type paramsDTO struct {
	CaseDate        string              `json:"case_date"`
	ExpedientNumber string              `json:"expedient_number"`
	CrimeType       cybercase.CrimeType `json:"crime_type"`
	Status          cybercase.Status    `json:"investigation_status"`
	StolenAmount    decimal.Decimal     `json:"stolen_amount"`
	Victim          string              `json:"victim"`
}

type conflictDTO struct {
	Incoming paramsDTO    `json:"incoming"`
	Existing caseResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []paramsDTO   `json:"new"`
	Conflicts []conflictDTO `json:"conflicts"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	source := importer.Source(r.FormValue("source"))
	if source == "" {
		source = importer.SourceFiscalia
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(source, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	identity, _ := auth.FromContext(r.Context())

	result, err := h.caseSvc.ImportBatch(r.Context(), params, identity.UserID)
	if err != nil {
		var verr *cybercase.ValidationError
		if errors.As(err, &verr) {
			// err carries the row prefix around the validation failure.
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]paramsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toCaseResponse(c.Existing),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(result.Imported)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toSuccessResponse(cases []*cybercase.Case) importSuccessResponse {
	responses := make([]caseResponse, 0, len(cases))
	for _, c := range cases {
		responses = append(responses, toCaseResponse(c))
	}

	return importSuccessResponse{
		Imported: len(cases),
		Cases:    responses,
	}
}

func toCaseResponse(c *cybercase.Case) caseResponse {
	return caseResponse{
		ID:              c.ID,
		CaseDate:        c.CaseDate.Format(time.DateOnly),
		ExpedientNumber: c.ExpedientNumber,
		CrimeType:       c.CrimeType,
		Status:          c.Status,
		StolenAmount:    c.StolenAmount,
		Victim:          c.Victim,
		CreatedAt:       c.CreatedAt,
	}
}

func toParamsDTO(p cybercase.CreateParams) paramsDTO {
	return paramsDTO{
		CaseDate:        p.CaseDate.Format(time.DateOnly),
		ExpedientNumber: p.ExpedientNumber,
		CrimeType:       p.CrimeType,
		Status:          p.Status,
		StolenAmount:    p.StolenAmount,
		Victim:          p.Victim,
	}
}

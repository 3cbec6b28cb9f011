package cases

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cibercrimen/casetrack/internal/cybercase"
)

type caseResponse struct {
	ID                      uuid.UUID           `json:"id"`
	CaseDate                string              `json:"case_date"`
	ExpedientNumber         string              `json:"expedient_number"`
	CrimeType               cybercase.CrimeType `json:"crime_type"`
	Status                  cybercase.Status    `json:"investigation_status"`
	StolenAmount            decimal.Decimal     `json:"stolen_amount"`
	SenderAccountData       string              `json:"sender_account_data"`
	ReceiverAccountData     string              `json:"receiver_account_data"`
	ReceiverAccountResearch string              `json:"receiver_account_research,omitempty"`
	Observations            string              `json:"observations,omitempty"`
	Victim                  string              `json:"victim"`
	CreatedBy               string              `json:"created_by"`
	CreatedAt               time.Time           `json:"created_at"`
	UpdatedAt               time.Time           `json:"updated_at"`
}

func toResponse(c *cybercase.Case) caseResponse {
	return caseResponse{
		ID:                      c.ID,
		CaseDate:                c.CaseDate.Format(time.DateOnly),
		ExpedientNumber:         c.ExpedientNumber,
		CrimeType:               c.CrimeType,
		Status:                  c.Status,
		StolenAmount:            c.StolenAmount,
		SenderAccountData:       c.SenderAccountData,
		ReceiverAccountData:     c.ReceiverAccountData,
		ReceiverAccountResearch: c.ReceiverAccountResearch,
		Observations:            c.Observations,
		Victim:                  c.Victim,
		CreatedBy:               c.CreatedBy,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

type listResponse struct {
	Cases      []caseResponse `json:"cases"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

func toListResponse(list *cybercase.CaseList, page cybercase.Page) listResponse {
	resp := listResponse{
		Cases:      make([]caseResponse, 0, len(list.Cases)),
		Total:      list.Total,
		Page:       page.Number,
		Limit:      page.Limit,
		TotalPages: list.TotalPages(page.Limit),
	}

	for _, c := range list.Cases {
		resp.Cases = append(resp.Cases, toResponse(c))
	}

	return resp
}

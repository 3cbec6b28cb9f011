package cybercase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=cybercase
type Repository interface {
	CreateCase(ctx context.Context, c *Case) error
	GetCase(ctx context.Context, id uuid.UUID) (*Case, error)
	UpdateCase(ctx context.Context, c *Case) error
	DeleteCase(ctx context.Context, id uuid.UUID) error

	ListCases(ctx context.Context, filter Filter, page Page) (*CaseList, error)

	BeginImport(ctx context.Context) (ImportTx, error)
}

type ImportTx interface {
	FindByExpedientNumbers(ctx context.Context, numbers []string) ([]*Case, error)
	CreateCases(ctx context.Context, cases []*Case) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("field"); name != "" {
			return name
		}

		return fld.Name
	})

	return &Service{repo: repo, validate: v}
}

// CreateParams carries the caller-supplied fields for a new case.
// CreatedBy is never part of it; the service stamps the caller identity.
type CreateParams struct {
	CaseDate                time.Time       `field:"case_date" validate:"required"`
	ExpedientNumber         string          `field:"expedient_number" validate:"required"`
	CrimeType               CrimeType       `field:"crime_type" validate:"required"`
	Status                  Status          `field:"investigation_status" validate:"required"`
	StolenAmount            decimal.Decimal `field:"stolen_amount"`
	SenderAccountData       string          `field:"sender_account_data" validate:"required"`
	ReceiverAccountData     string          `field:"receiver_account_data" validate:"required"`
	ReceiverAccountResearch string          `field:"receiver_account_research"`
	Observations            string          `field:"observations"`
	Victim                  string          `field:"victim" validate:"required"`
}

// UpdateParams carries a partial update; only non-nil fields are applied.
type UpdateParams struct {
	CaseDate                *time.Time
	ExpedientNumber         *string
	CrimeType               *CrimeType
	Status                  *Status
	StolenAmount            *decimal.Decimal
	SenderAccountData       *string
	ReceiverAccountData     *string
	ReceiverAccountResearch *string
	Observations            *string
	Victim                  *string
}

// maxAmount is the first value that no longer fits NUMERIC(15,2).
var maxAmount = decimal.New(1, 13)

func (s *Service) checkParams(params CreateParams) error {
	fields := map[string]string{}

	if err := s.validate.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating case params: %w", err)
		}

		for _, fe := range verrs {
			fields[fe.Field()] = "is required"
		}
	}

	switch {
	case params.StolenAmount.IsNegative():
		fields["stolen_amount"] = "must not be negative"
	case params.StolenAmount.Exponent() < -2:
		fields["stolen_amount"] = "at most two decimal places"
	case params.StolenAmount.Abs().GreaterThanOrEqual(maxAmount):
		fields["stolen_amount"] = "exceeds the maximum supported amount"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

// normalizeDate strips any time component, keeping the calendar date at UTC midnight.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (params CreateParams) toCase(createdBy string) *Case {
	return &Case{
		CaseDate:                normalizeDate(params.CaseDate),
		ExpedientNumber:         params.ExpedientNumber,
		CrimeType:               params.CrimeType,
		Status:                  params.Status,
		StolenAmount:            params.StolenAmount,
		SenderAccountData:       params.SenderAccountData,
		ReceiverAccountData:     params.ReceiverAccountData,
		ReceiverAccountResearch: params.ReceiverAccountResearch,
		Observations:            params.Observations,
		Victim:                  params.Victim,
		CreatedBy:               createdBy,
	}
}

// Create validates the params, stamps the caller identity and persists a new case.
// The store assigns id and timestamps.
func (s *Service) Create(ctx context.Context, params CreateParams, createdBy string) (*Case, error) {
	if createdBy == "" {
		return nil, newValidationError("created_by", "caller identity is required")
	}

	if err := s.checkParams(params); err != nil {
		return nil, err
	}

	c := params.toCase(createdBy)

	if err := s.repo.CreateCase(ctx, c); err != nil {
		if errors.Is(err, ErrDuplicateExpedient) {
			return nil, newValidationError("expedient_number", "already exists")
		}

		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Case, error) {
	return s.repo.GetCase(ctx, id)
}

// Update applies a partial update. Id and creator are immutable; the merged
// record is re-validated against the same rules as Create. UpdatedAt is
// refreshed by the store even when no field changes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Case, error) {
	c, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.CaseDate != nil {
		c.CaseDate = normalizeDate(*params.CaseDate)
	}

	if params.ExpedientNumber != nil {
		c.ExpedientNumber = *params.ExpedientNumber
	}

	if params.CrimeType != nil {
		c.CrimeType = *params.CrimeType
	}

	if params.Status != nil {
		c.Status = *params.Status
	}

	if params.StolenAmount != nil {
		c.StolenAmount = *params.StolenAmount
	}

	if params.SenderAccountData != nil {
		c.SenderAccountData = *params.SenderAccountData
	}

	if params.ReceiverAccountData != nil {
		c.ReceiverAccountData = *params.ReceiverAccountData
	}

	if params.ReceiverAccountResearch != nil {
		c.ReceiverAccountResearch = *params.ReceiverAccountResearch
	}

	if params.Observations != nil {
		c.Observations = *params.Observations
	}

	if params.Victim != nil {
		c.Victim = *params.Victim
	}

	if err := s.checkParams(CreateParams{
		CaseDate:                c.CaseDate,
		ExpedientNumber:         c.ExpedientNumber,
		CrimeType:               c.CrimeType,
		Status:                  c.Status,
		StolenAmount:            c.StolenAmount,
		SenderAccountData:       c.SenderAccountData,
		ReceiverAccountData:     c.ReceiverAccountData,
		ReceiverAccountResearch: c.ReceiverAccountResearch,
		Observations:            c.Observations,
		Victim:                  c.Victim,
	}); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCase(ctx, c); err != nil {
		if errors.Is(err, ErrDuplicateExpedient) {
			return nil, newValidationError("expedient_number", "already exists")
		}

		return nil, err
	}

	return c, nil
}

// Delete removes the case by id. Deleting a nonexistent id returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCase(ctx, id)
}

// List returns one page of cases matching the filter together with the
// total count of all matching records.
func (s *Service) List(ctx context.Context, filter Filter, page Page) (*CaseList, error) {
	return s.repo.ListCases(ctx, filter.Normalize(), page.Normalize())
}

// ImportResult reports the outcome of a batch import.
type ImportResult struct {
	Imported  []*Case
	New       []CreateParams
	Conflicts []Conflict
}

// Conflict pairs an incoming row with the stored case sharing its expedient number.
type Conflict struct {
	Incoming CreateParams
	Existing *Case
}

// ImportBatch creates many cases inside one store transaction. Rows whose
// expedient number already exists are reported as conflicts; when any
// conflict is found nothing is written, so the caller can resolve and retry.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams, createdBy string) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	if createdBy == "" {
		return nil, newValidationError("created_by", "caller identity is required")
	}

	numbers := make([]string, 0, len(params))
	seen := make(map[string]int, len(params))

	for i, p := range params {
		if err := s.checkParams(p); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		// A file can collide with itself; the store check below only
		// catches collisions with already-persisted cases.
		if first, ok := seen[p.ExpedientNumber]; ok {
			return nil, fmt.Errorf("row %d: %w", i+1,
				newValidationError("expedient_number", fmt.Sprintf("duplicates row %d", first)))
		}

		seen[p.ExpedientNumber] = i + 1
		numbers = append(numbers, p.ExpedientNumber)
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	existing, err := itx.FindByExpedientNumbers(ctx, numbers)
	if err != nil {
		return nil, fmt.Errorf("find existing expedients: %w", err)
	}

	lookup := make(map[string]*Case, len(existing))
	for _, c := range existing {
		lookup[c.ExpedientNumber] = c
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		if found, ok := lookup[p.ExpedientNumber]; ok {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: found})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	cases := make([]*Case, len(newParams))
	for i, p := range newParams {
		cases[i] = p.toCase(createdBy)
	}

	if err := itx.CreateCases(ctx, cases); err != nil {
		// A writer outside the advisory lock can still take an expedient
		// number between the conflict check and the insert.
		if errors.Is(err, ErrDuplicateExpedient) {
			return nil, newValidationError("expedient_number", "already exists")
		}

		return nil, fmt.Errorf("create cases: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: cases}, nil
}

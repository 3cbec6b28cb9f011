package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cibercrimen/casetrack/internal/cybercase"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanCase reads a case row from the scanner.
// Column order must match caseColumns.
func scanCase(s scanner) (*cybercase.Case, error) {
	var c cybercase.Case

	var crimeType, status string

	var research, observations sql.NullString

	if err := s.Scan(
		&c.ID, &c.CaseDate, &c.ExpedientNumber, &crimeType, &status, &c.StolenAmount,
		&c.SenderAccountData, &c.ReceiverAccountData, &research, &observations,
		&c.Victim, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.CrimeType = cybercase.CrimeType(crimeType)
	c.Status = cybercase.Status(status)
	c.ReceiverAccountResearch = research.String
	c.Observations = observations.String

	return &c, nil
}

// isUniqueViolation reports whether err is the expedient number unique
// constraint being violated.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

const insertCaseQuery = `
	INSERT INTO cyber_cases (
		case_date, expedient_number, crime_type, investigation_status, stolen_amount,
		sender_account_data, receiver_account_data, receiver_account_research,
		observations, victim, created_by, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func (s *Store) CreateCase(ctx context.Context, c *cybercase.Case) error {
	err := s.db.QueryRowContext(ctx, insertCaseQuery,
		c.CaseDate,
		c.ExpedientNumber,
		c.CrimeType,
		c.Status,
		c.StolenAmount,
		c.SenderAccountData,
		c.ReceiverAccountData,
		c.ReceiverAccountResearch,
		c.Observations,
		c.Victim,
		c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return cybercase.ErrDuplicateExpedient
		}

		return fmt.Errorf("creating case: %w", err)
	}

	return nil
}

func (s *Store) GetCase(ctx context.Context, id uuid.UUID) (*cybercase.Case, error) {
	query := `SELECT ` + selectCaseColumns + ` FROM cyber_cases WHERE id = $1`

	c, err := scanCase(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cybercase.ErrNotFound
		}

		return nil, fmt.Errorf("getting case: %w", err)
	}

	return c, nil
}

// UpdateCase persists all mutable fields of the case and refreshes
// updated_at. Id, created_by and created_at never change.
func (s *Store) UpdateCase(ctx context.Context, c *cybercase.Case) error {
	query := `
		UPDATE cyber_cases
		SET case_date = $1, expedient_number = $2, crime_type = $3,
		    investigation_status = $4, stolen_amount = $5, sender_account_data = $6,
		    receiver_account_data = $7, receiver_account_research = $8,
		    observations = $9, victim = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.CaseDate,
		c.ExpedientNumber,
		c.CrimeType,
		c.Status,
		c.StolenAmount,
		c.SenderAccountData,
		c.ReceiverAccountData,
		c.ReceiverAccountResearch,
		c.Observations,
		c.Victim,
		c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cybercase.ErrNotFound
		}

		if isUniqueViolation(err) {
			return cybercase.ErrDuplicateExpedient
		}

		return fmt.Errorf("updating case: %w", err)
	}

	return nil
}

// DeleteCase removes the record permanently. There is no tombstone;
// a missing id reports cybercase.ErrNotFound.
func (s *Store) DeleteCase(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cyber_cases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting case: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting case: %w", err)
	}

	if affected == 0 {
		return cybercase.ErrNotFound
	}

	return nil
}

// importLockKey serializes concurrent bulk imports so the
// check-then-insert on expedient numbers cannot race itself.
func importLockKey() int64 {
	h := fnv.New64a()
	h.Write([]byte("cyber_cases_import"))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context) (cybercase.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey()); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindByExpedientNumbers(ctx context.Context, numbers []string) ([]*cybercase.Case, error) {
	if len(numbers) == 0 {
		return nil, nil
	}

	query := `SELECT ` + selectCaseColumns + `
		FROM cyber_cases
		WHERE expedient_number = ANY($1)
		ORDER BY expedient_number`

	rows, err := itx.tx.QueryContext(ctx, query, numbers)
	if err != nil {
		return nil, fmt.Errorf("finding expedients: %w", err)
	}
	defer rows.Close()

	var cases []*cybercase.Case

	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning case: %w", err)
		}

		cases = append(cases, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expedient rows: %w", err)
	}

	return cases, nil
}

func (itx *importTx) CreateCases(ctx context.Context, cases []*cybercase.Case) error {
	for _, c := range cases {
		err := itx.tx.QueryRowContext(ctx, insertCaseQuery,
			c.CaseDate,
			c.ExpedientNumber,
			c.CrimeType,
			c.Status,
			c.StolenAmount,
			c.SenderAccountData,
			c.ReceiverAccountData,
			c.ReceiverAccountResearch,
			c.Observations,
			c.Victim,
			c.CreatedBy,
		).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return cybercase.ErrDuplicateExpedient
			}

			return fmt.Errorf("creating case: %w", err)
		}
	}

	return nil
}

package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/cibercrimen/casetrack/internal/cybercase"
)

const selectCaseColumns = `id, case_date, expedient_number, crime_type, investigation_status,
	stolen_amount, sender_account_data, receiver_account_data, receiver_account_research,
	observations, victim, created_by, created_at, updated_at`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// likeEscaper keeps search input literal inside ILIKE patterns;
// Postgres treats backslash as the default LIKE escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterConditions compiles the filter into one predicate set.
// Absent fields contribute nothing; all present fields are AND-ed.
func filterConditions(f cybercase.Filter) sq.And {
	conds := sq.And{}

	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(f.Search) + "%"
		conds = append(conds, sq.Or{
			sq.ILike{"expedient_number": pattern},
			sq.ILike{"crime_type": pattern},
			sq.ILike{"victim": pattern},
		})
	}

	if f.CrimeType != "" {
		conds = append(conds, sq.Eq{"crime_type": f.CrimeType})
	}

	if f.DateFrom != nil {
		conds = append(conds, sq.GtOrEq{"case_date": *f.DateFrom})
	}

	if f.DateTo != nil {
		conds = append(conds, sq.LtOrEq{"case_date": *f.DateTo})
	}

	return conds
}

// ListCases runs the count and the page fetch against the same compiled
// predicate. The two reads are separate statements, so under concurrent
// writes they may see slightly different snapshots; both always apply
// identical conditions.
func (s *Store) ListCases(ctx context.Context, filter cybercase.Filter, page cybercase.Page) (*cybercase.CaseList, error) {
	page = page.Normalize()
	conds := filterConditions(filter.Normalize())

	countSQL, countArgs, err := psql.
		Select("COUNT(*)").
		From("cyber_cases").
		Where(conds).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building count query: %w", err)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting cases: %w", err)
	}

	columns := strings.Fields(strings.ReplaceAll(selectCaseColumns, ",", " "))

	pageSQL, pageArgs, err := psql.
		Select(columns...).
		From("cyber_cases").
		Where(conds).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building page query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	defer rows.Close()

	cases := []*cybercase.Case{}

	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning case: %w", err)
		}

		cases = append(cases, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating case rows: %w", err)
	}

	return &cybercase.CaseList{Cases: cases, Total: total}, nil
}

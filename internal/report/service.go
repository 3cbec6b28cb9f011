package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/cibercrimen/casetrack/internal/cybercase"
)

// pageSize is how many cases each store round-trip fetches while streaming.
const pageSize = 200

// Service produces CSV reports of case records for the prosecution office.
// The column layout matches the "denuncias" import format, so a report can
// be re-imported elsewhere.
type Service struct {
	cases *cybercase.Service
}

func NewService(caseSvc *cybercase.Service) *Service {
	return &Service{cases: caseSvc}
}

var reportHeader = []string{
	"Fecha del caso",
	"Número de expediente",
	"Tipo de delito",
	"Estado de investigación",
	"Monto sustraído",
	"Cuenta emisora",
	"Cuenta receptora",
	"Investigación cuenta receptora",
	"Observaciones",
	"Víctima",
}

// WriteCSV streams every case matching the filter to w, in listing order
// (newest first), walking the store page by page. It returns the number
// of records written.
func (s *Service) WriteCSV(ctx context.Context, filter cybercase.Filter, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(reportHeader); err != nil {
		return 0, fmt.Errorf("writing report header: %w", err)
	}

	written := 0
	page := cybercase.Page{Number: 1, Limit: pageSize}

	for {
		list, err := s.cases.List(ctx, filter, page)
		if err != nil {
			return written, fmt.Errorf("listing cases for report: %w", err)
		}

		for _, c := range list.Cases {
			if err := cw.Write(record(c)); err != nil {
				return written, fmt.Errorf("writing report row: %w", err)
			}

			written++
		}

		if len(list.Cases) == 0 || written >= list.Total {
			break
		}

		page.Number++
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return written, fmt.Errorf("flushing report: %w", err)
	}

	return written, nil
}

// record renders one case in the "denuncias" column layout. Amounts use
// the European decimal comma the office tooling expects.
func record(c *cybercase.Case) []string {
	return []string{
		c.CaseDate.Format("02-01-2006"),
		c.ExpedientNumber,
		string(c.CrimeType),
		string(c.Status),
		europeanAmount(c.StolenAmount.StringFixed(2)),
		c.SenderAccountData,
		c.ReceiverAccountData,
		c.ReceiverAccountResearch,
		c.Observations,
		c.Victim,
	}
}

// europeanAmount converts "1500.50" into "1500,50". Thousand separators
// are not emitted; the import side accepts both.
func europeanAmount(s string) string {
	out := []byte(s)
	for i, b := range out {
		if b == '.' {
			out[i] = ','
		}
	}

	return string(out)
}

// Filename suggests a report file name from the filter and current time.
func Filename(filter cybercase.Filter, now time.Time) string {
	name := "casos"
	if filter.CrimeType != "" {
		name += "_" + sanitize(filter.CrimeType)
	}

	return fmt.Sprintf("%s_%s.csv", name, now.Format("20060102"))
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}

	return string(out)
}

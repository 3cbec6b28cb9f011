package fiscalia

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cibercrimen/casetrack/internal/cybercase"
	enc "github.com/cibercrimen/casetrack/internal/encoding"
)

// Parser reads fiscalía CSV case exports and produces case create params.
// It auto-detects which export layout is being used by matching column
// headers against known profiles, and tolerates preamble and footer rows.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]cybercase.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching export format found: expected columns for denuncias or legado")
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts case params from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file
// (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]cybercase.CreateParams, error) {
	var params []cybercase.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(row, cols[p.DateCol], p.DateFormat)
		if !ok {
			// Footer or summary rows have no date; skip them.
			continue
		}

		expedient := cellValue(row, cols[p.ExpedientCol])
		if expedient == "" {
			return nil, fmt.Errorf("row %d: missing expedient number", rowNum)
		}

		victim := cellValue(row, cols[p.VictimCol])
		if victim == "" {
			return nil, fmt.Errorf("row %d: missing victim", rowNum)
		}

		amount, err := parseAmount(cellValue(row, cols[p.AmountCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount: %w", rowNum, err)
		}

		cp := cybercase.CreateParams{
			CaseDate:            date,
			ExpedientNumber:     expedient,
			CrimeType:           cybercase.CrimeType(cellValue(row, cols[p.CrimeCol])),
			Status:              cybercase.Status(cellValue(row, cols[p.StatusCol])),
			StolenAmount:        amount,
			SenderAccountData:   cellValue(row, cols[p.SenderCol]),
			ReceiverAccountData: cellValue(row, cols[p.ReceiverCol]),
			Victim:              victim,
		}

		// Optional columns may be absent even in a matching layout; a plain
		// map read would alias index 0 (the date column).
		if idx, ok := cols[p.ResearchCol]; ok {
			cp.ReceiverAccountResearch = cellValue(row, idx)
		}

		if idx, ok := cols[p.ObsCol]; ok {
			cp.Observations = cellValue(row, idx)
		}

		params = append(params, cp)
	}

	return params, nil
}

// parseDate tries to parse a date from the given cell index.
// Returns false for empty cells or unparseable values.
func parseDate(row []string, idx int, layout string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

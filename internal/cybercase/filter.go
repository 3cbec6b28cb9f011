package cybercase

import (
	"strings"
	"time"
)

// Filter describes the optional constraints for listing cases.
// All supplied constraints combine with logical AND; a zero field
// contributes no constraint at all.
type Filter struct {
	// Search matches case-insensitively as a substring against the
	// expedient number, the crime type, or the victim.
	Search string
	// CrimeType matches exactly (case-sensitive).
	CrimeType string
	// DateFrom and DateTo are inclusive bounds on the case date.
	// Either may be set alone.
	DateFrom *time.Time
	DateTo   *time.Time
}

// Normalize trims the string filters so that blank input is treated
// the same as absent input.
func (f Filter) Normalize() Filter {
	f.Search = strings.TrimSpace(f.Search)
	f.CrimeType = strings.TrimSpace(f.CrimeType)

	return f
}

// IsZero reports whether the filter constrains anything at all.
func (f Filter) IsZero() bool {
	f = f.Normalize()
	return f.Search == "" && f.CrimeType == "" && f.DateFrom == nil && f.DateTo == nil
}

// DefaultLimit is the page size used when the caller does not supply one.
const DefaultLimit = 10

// Page describes a 1-indexed page request.
type Page struct {
	Number int
	Limit  int
}

// Normalize coerces out-of-range values: pages below 1 become 1 and
// non-positive limits fall back to DefaultLimit.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}

	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}

	return p
}

// Offset returns the number of records to skip for this page.
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Limit
}

// CaseList is one page of matching cases together with the total count
// of all records matching the filter, regardless of page.
type CaseList struct {
	Cases []*Case
	Total int
}

// TotalPages returns how many pages of the given limit the total spans.
func (l CaseList) TotalPages(limit int) int {
	if limit < 1 {
		limit = DefaultLimit
	}

	return (l.Total + limit - 1) / limit
}

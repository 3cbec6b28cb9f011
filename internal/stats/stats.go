package stats

import (
	"github.com/shopspring/decimal"
)

// MonthBuckets is the number of buckets in the monthly histogram,
// index 0 = January through index 11 = December.
const MonthBuckets = 12

// Summary is the dashboard statistics object, always computed over the
// entire record set.
type Summary struct {
	TotalCases    int
	TotalAmount   decimal.Decimal
	ActiveCases   int
	ResolvedCases int
	MonthlyCases  [MonthBuckets]int
	CrimeTypes    []CrimeTypeCount
}

// CrimeTypeCount is the number of cases recorded for one crime type.
// The type is the literal stored string, so values outside the fixed
// catalog appear under their own name.
type CrimeTypeCount struct {
	Type  string
	Count int
}

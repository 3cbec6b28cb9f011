package cybercase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CrimeType identifies the kind of cyber crime a case concerns.
// The catalog below is what the UI offers, but the store keeps the raw
// string, so values outside the catalog can still show up in aggregates.
type CrimeType string

const (
	CrimeHacking       CrimeType = "Hacking"
	CrimePhishing      CrimeType = "Phishing"
	CrimeMalware       CrimeType = "Malware"
	CrimeRansomware    CrimeType = "Ransomware"
	CrimeCyberFraud    CrimeType = "Fraude cibernético"
	CrimeIdentityTheft CrimeType = "Robo de identidad"
	CrimeCyberstalking CrimeType = "Ciberacoso"
	CrimeImpersonation CrimeType = "Suplantación de identidad"
)

// CrimeTypeCatalog returns the fixed crime type catalog offered to callers.
func CrimeTypeCatalog() []CrimeType {
	return []CrimeType{
		CrimeHacking,
		CrimePhishing,
		CrimeMalware,
		CrimeRansomware,
		CrimeCyberFraud,
		CrimeIdentityTheft,
		CrimeCyberstalking,
		CrimeImpersonation,
	}
}

// Status represents the investigation status of a case.
type Status string

const (
	StatusPending    Status = "Pendiente"
	StatusInProgress Status = "En proceso"
	StatusCompleted  Status = "Completado"
	StatusNoResponse Status = "Sin respuesta"
	StatusRejected   Status = "Rechazado"
)

// StatusCatalog returns the fixed investigation status catalog.
func StatusCatalog() []Status {
	return []Status{
		StatusPending,
		StatusInProgress,
		StatusCompleted,
		StatusNoResponse,
		StatusRejected,
	}
}

// Active reports whether the status counts as an open investigation.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusInProgress
}

// Resolved reports whether the status counts as a resolved investigation.
func (s Status) Resolved() bool {
	return s == StatusCompleted
}

// Case represents a single tracked cyber-crime investigation record.
type Case struct {
	ID                      uuid.UUID
	CaseDate                time.Time // calendar date, stored at UTC midnight
	ExpedientNumber         string    // external case reference, unique
	CrimeType               CrimeType
	Status                  Status
	StolenAmount            decimal.Decimal
	SenderAccountData       string
	ReceiverAccountData     string
	ReceiverAccountResearch string
	Observations            string
	Victim                  string
	CreatedBy               string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

package importer

import (
	"io"

	"github.com/cibercrimen/casetrack/internal/cybercase"
)

// Source identifies which reporting office produced the CSV export.
type Source string

const (
	SourceFiscalia Source = "fiscalia"
)

type Importer interface {
	Parse(r io.Reader) ([]cybercase.CreateParams, error)
}

package importer

import (
	"fmt"
	"io"

	"github.com/cibercrimen/casetrack/internal/cybercase"
	"github.com/cibercrimen/casetrack/internal/importer/fiscalia"
)

type Service struct {
	fiscaliaImporter Importer
}

func NewService() *Service {
	return &Service{
		fiscaliaImporter: fiscalia.NewParser(),
	}
}

func (s *Service) Import(source Source, r io.Reader) ([]cybercase.CreateParams, error) {
	var imp Importer

	switch source {
	case SourceFiscalia:
		imp = s.fiscaliaImporter
	default:
		return nil, fmt.Errorf("unknown source: %s", source)
	}

	return imp.Parse(r)
}

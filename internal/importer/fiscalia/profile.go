package fiscalia

// Profile describes the column layout of one fiscalía CSV export format.
// Adding a new format is just adding a new Profile to the profiles slice.
type Profile struct {
	Name       string
	DateFormat string

	DateCol      string
	ExpedientCol string
	CrimeCol     string
	StatusCol    string
	AmountCol    string
	SenderCol    string
	ReceiverCol  string
	VictimCol    string

	// Optional columns; empty means the format does not carry them.
	ResearchCol string
	ObsCol      string
}

// requiredCols returns the column names that must be present for this
// profile to match a header row.
func (p Profile) requiredCols() []string {
	return []string{
		p.DateCol,
		p.ExpedientCol,
		p.CrimeCol,
		p.StatusCol,
		p.AmountCol,
		p.SenderCol,
		p.ReceiverCol,
		p.VictimCol,
	}
}

// profiles is the ordered list of export formats to try during
// auto-detection. More specific profiles come first.
var profiles = []Profile{
	{
		Name:         "denuncias",
		DateFormat:   "02-01-2006",
		DateCol:      "Fecha del caso",
		ExpedientCol: "Número de expediente",
		CrimeCol:     "Tipo de delito",
		StatusCol:    "Estado de investigación",
		AmountCol:    "Monto sustraído",
		SenderCol:    "Cuenta emisora",
		ReceiverCol:  "Cuenta receptora",
		VictimCol:    "Víctima",
		ResearchCol:  "Investigación cuenta receptora",
		ObsCol:       "Observaciones",
	},
	{
		Name:         "legado",
		DateFormat:   "02/01/2006",
		DateCol:      "Fecha",
		ExpedientCol: "Expediente",
		CrimeCol:     "Delito",
		StatusCol:    "Estado",
		AmountCol:    "Monto",
		SenderCol:    "Cuenta origen",
		ReceiverCol:  "Cuenta destino",
		VictimCol:    "Afectado",
	},
}

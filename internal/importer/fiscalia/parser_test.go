package fiscalia_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/cibercrimen/casetrack/internal/cybercase"
	"github.com/cibercrimen/casetrack/internal/importer/fiscalia"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParser_Denuncias(t *testing.T) {
	csv := `Reporte de casos de ciberdelincuencia - generado 01-04-2025
Dependencia;Unidad de Delitos Informáticos

Fecha del caso;Número de expediente;Tipo de delito;Estado de investigación;Monto sustraído;Cuenta emisora;Cuenta receptora;Investigación cuenta receptora;Observaciones;Víctima
14-03-2025;EXP-2025-0001;Phishing;Pendiente;1.500,50;BBVA 0123456789;Santander 9876543210;En trámite con el banco;Correo falso del banco;María López
02-01-2025;EXP-2025-0002;Ransomware;En proceso;25.000,00;Banorte 1111222233;Desconocida;;;Comercial Ruiz SA

Total de casos;2
`

	p := fiscalia.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, date(2025, 3, 14), params[0].CaseDate)
	assert.Equal(t, "EXP-2025-0001", params[0].ExpedientNumber)
	assert.Equal(t, cybercase.CrimePhishing, params[0].CrimeType)
	assert.Equal(t, cybercase.StatusPending, params[0].Status)
	assert.True(t, params[0].StolenAmount.Equal(amount("1500.50")))
	assert.Equal(t, "BBVA 0123456789", params[0].SenderAccountData)
	assert.Equal(t, "Santander 9876543210", params[0].ReceiverAccountData)
	assert.Equal(t, "En trámite con el banco", params[0].ReceiverAccountResearch)
	assert.Equal(t, "Correo falso del banco", params[0].Observations)
	assert.Equal(t, "María López", params[0].Victim)

	assert.Equal(t, date(2025, 1, 2), params[1].CaseDate)
	assert.Equal(t, cybercase.CrimeRansomware, params[1].CrimeType)
	assert.True(t, params[1].StolenAmount.Equal(amount("25000.00")))
	assert.Empty(t, params[1].ReceiverAccountResearch)
	assert.Empty(t, params[1].Observations)
}

func TestParser_Legado(t *testing.T) {
	csv := `Fecha;Expediente;Delito;Estado;Monto;Cuenta origen;Cuenta destino;Afectado
14/03/2025;EXP-2024-0917;Fraude cibernético;Completado;980,00;HSBC 555;Azteca 777;Juan Pérez
`

	p := fiscalia.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, date(2025, 3, 14), params[0].CaseDate)
	assert.Equal(t, "EXP-2024-0917", params[0].ExpedientNumber)
	assert.Equal(t, cybercase.CrimeCyberFraud, params[0].CrimeType)
	assert.Equal(t, cybercase.StatusCompleted, params[0].Status)
	assert.True(t, params[0].StolenAmount.Equal(amount("980.00")))
	assert.Equal(t, "Juan Pérez", params[0].Victim)
	// The legacy layout carries no research or observation columns.
	assert.Empty(t, params[0].ReceiverAccountResearch)
	assert.Empty(t, params[0].Observations)
}

func TestParser_DenunciasWithoutOptionalColumns(t *testing.T) {
	// Some offices trim the export to the required columns only; the
	// optional fields must stay empty, not pick up another column's cell.
	csv := `Fecha del caso;Número de expediente;Tipo de delito;Estado de investigación;Monto sustraído;Cuenta emisora;Cuenta receptora;Víctima
14-03-2025;EXP-2025-0001;Phishing;Pendiente;1.500,50;BBVA 0123456789;Santander 9876543210;María López
`

	p := fiscalia.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "EXP-2025-0001", params[0].ExpedientNumber)
	assert.Equal(t, "María López", params[0].Victim)
	assert.Empty(t, params[0].ReceiverAccountResearch)
	assert.Empty(t, params[0].Observations)
}

func TestParser_UnknownCrimeTypeKeptVerbatim(t *testing.T) {
	csv := `Fecha;Expediente;Delito;Estado;Monto;Cuenta origen;Cuenta destino;Afectado
01/02/2025;EXP-2025-0100;Vishing;Pendiente;10,00;A;B;Pedro Gómez
`

	p := fiscalia.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, cybercase.CrimeType("Vishing"), params[0].CrimeType)
}

func TestParser_MissingExpedient(t *testing.T) {
	csv := `Fecha;Expediente;Delito;Estado;Monto;Cuenta origen;Cuenta destino;Afectado
01/02/2025;;Phishing;Pendiente;10,00;A;B;Pedro Gómez
`

	p := fiscalia.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing expedient number")
}

func TestParser_InvalidAmount(t *testing.T) {
	csv := `Fecha;Expediente;Delito;Estado;Monto;Cuenta origen;Cuenta destino;Afectado
01/02/2025;EXP-2025-0100;Phishing;Pendiente;no-numérico;A;B;Pedro Gómez
`

	p := fiscalia.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}

func TestParser_NoMatchingFormat(t *testing.T) {
	csv := `foo;bar
1;2
`

	p := fiscalia.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestParser_Windows1252Input(t *testing.T) {
	// Exports from older office machines arrive in Windows-1252.
	utf8CSV := `Fecha;Expediente;Delito;Estado;Monto;Cuenta origen;Cuenta destino;Afectado
05/03/2025;EXP-2025-0200;Suplantación de identidad;Pendiente;3.250,75;BBVA 1;Azteca 2;José Núñez
`

	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := fiscalia.NewParser()
	params, err := p.Parse(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, cybercase.CrimeImpersonation, params[0].CrimeType)
	assert.Equal(t, "José Núñez", params[0].Victim)
	assert.True(t, params[0].StolenAmount.Equal(amount("3250.75")))
}

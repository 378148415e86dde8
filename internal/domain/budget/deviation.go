// Package budget implementa los servicios de dominio presupuestarios:
// conversión UR -> pesos y clasificación de desvíos por rubro.
package budget

import "github.com/shopspring/decimal"

// Severity clasificación del desvío de un rubro.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityAlert   Severity = "alert"
)

// AlertThresholdPercent umbral fijo de alerta (política, no configurable por
// proyecto en el diseño actual).
var AlertThresholdPercent = decimal.NewFromInt(20)

var hundred = decimal.NewFromInt(100)

// DeviationPercent devuelve el desvío porcentual sobre el estimado.
// Estimado <= 0 => exactamente 0 (nunca NaN ni error), sin importar el real.
func DeviationPercent(estimated, actual decimal.Decimal) decimal.Decimal {
	if !estimated.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return actual.Sub(estimated).Div(estimated).Mul(hundred)
}

// Classify mapea el desvío porcentual a severidad:
// ok si <= 0; warning si 0 < p <= 20; alert si p > 20.
// El borde exacto de 20.0 clasifica como warning.
func Classify(deviationPercent decimal.Decimal) Severity {
	switch {
	case deviationPercent.LessThanOrEqual(decimal.Zero):
		return SeverityOK
	case deviationPercent.LessThanOrEqual(AlertThresholdPercent):
		return SeverityWarning
	default:
		return SeverityAlert
	}
}

package budget_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/obra-control/internal/domain/budget"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDeviationPercent(t *testing.T) {
	tests := []struct {
		name      string
		estimated string
		actual    string
		want      string
	}{
		{"sin desvío", "100", "100", "0"},
		{"sobrecosto 20%", "100", "120", "20"},
		{"ahorro", "100", "80", "-20"},
		{"estimado cero nunca NaN", "0", "500", "0"},
		{"estimado negativo también cero", "-10", "500", "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := budget.DeviationPercent(dec(tc.estimated), dec(tc.actual))
			assert.True(t, dec(tc.want).Equal(got), "esperado %s, fue %s", tc.want, got)
		})
	}
}

// Bordes de clasificación: 20.0 exacto es warning; 20.0001 ya es alert; 0 es ok.
func TestClassify_Bordes(t *testing.T) {
	tests := []struct {
		percent string
		want    budget.Severity
	}{
		{"-5", budget.SeverityOK},
		{"0", budget.SeverityOK},
		{"0.0001", budget.SeverityWarning},
		{"20", budget.SeverityWarning},
		{"20.0001", budget.SeverityAlert},
		{"150", budget.SeverityAlert},
	}
	for _, tc := range tests {
		t.Run(tc.percent, func(t *testing.T) {
			assert.Equal(t, tc.want, budget.Classify(dec(tc.percent)))
		})
	}
}

func TestConvertUnits(t *testing.T) {
	pesos, err := budget.ConvertUnits(dec("100"), dec("1450.75"))
	assert.NoError(t, err)
	assert.True(t, dec("145075").Equal(pesos), "fue %s", pesos)
}

// UR negativo se rechaza en validación, antes de tocar persistencia.
func TestConvertUnits_NegativoRechazado(t *testing.T) {
	_, err := budget.ConvertUnits(dec("-1"), dec("1450.75"))
	assert.Error(t, err)
}

package budget

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/domain"
)

// ConvertUnits convierte un presupuesto autorizado en UR a pesos con la
// cotización puntual leída al momento del save. La cotización queda capturada
// en el rubro y no se revisa retroactivamente.
// UR negativo se rechaza en validación, independiente de la persistencia.
func ConvertUnits(budgetUnits, rate decimal.Decimal) (decimal.Decimal, error) {
	if budgetUnits.LessThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return budgetUnits.Mul(rate), nil
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetCategory representa un rubro del presupuesto de una obra.
// El presupuesto se autoriza en UR (unidad indexada) y se guarda redundante en
// pesos capturando la cotización vigente al momento del save:
//
//	BudgetPesos = BudgetUnits * cotización-en-ese-momento
//
// La cotización NO se revisa retroactivamente: cambiarla después solo afecta
// saves futuros. BudgetPesos es un valor derivado, nunca segunda fuente de verdad.
type BudgetCategory struct {
	ID          string
	ProjectID   string
	Name        string
	BudgetUnits decimal.Decimal // presupuesto en UR
	BudgetPesos decimal.Decimal // derivado al guardar
	RateAtSave  decimal.Decimal // cotización UR usada en el último save
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumptionRecord registra el consumo de un insumo en una OT.
// A lo sumo un registro activo por par (OT, insumo): una segunda carga
// sobrescribe la primera (upsert), nunca agrega fila duplicada. Esa clave es
// la defensa principal contra acumulación por reintentos.
type ConsumptionRecord struct {
	ID                string
	WorkOrderID       string
	SupplyID          string
	QuantityConsumed  decimal.Decimal
	QuantityEstimated *decimal.Decimal // baseline de planificación, copiado al crear
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

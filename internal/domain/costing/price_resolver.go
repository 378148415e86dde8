// Package costing implementa los servicios de dominio del motor de
// conciliación de costos: resolución de precio efectivo por insumo y costo
// real de una OT como función pura de consumos y recepciones.
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/domain/entity"
)

// WeightedAveragePrices calcula el precio promedio ponderado por recepción de
// cada insumo a partir de las líneas de OC con stock recibido:
//
//	precio = sum(UnitPrice * QuantityReceived) / sum(QuantityReceived)
//
// Ponderar por cantidad protege contra tomar el precio de una sola OC cuando
// varias OCs entregaron el mismo insumo a precios negociados distintos.
// Las líneas sin recepción (QuantityReceived <= 0) no participan.
func WeightedAveragePrices(lines []*entity.PurchaseOrderLine) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)   // sum(precio * cantidad)
	received := make(map[string]decimal.Decimal) // sum(cantidad)
	for _, line := range lines {
		if !line.QuantityReceived.GreaterThan(decimal.Zero) {
			continue
		}
		totals[line.SupplyID] = totals[line.SupplyID].Add(line.UnitPrice.Mul(line.QuantityReceived))
		received[line.SupplyID] = received[line.SupplyID].Add(line.QuantityReceived)
	}
	prices := make(map[string]decimal.Decimal, len(totals))
	for supplyID, total := range totals {
		prices[supplyID] = total.Div(received[supplyID])
	}
	return prices
}

// EffectivePrice resuelve el precio unitario efectivo de un insumo, en orden
// de prioridad: promedio ponderado por recepción, último precio observado del
// insumo, precio de referencia del catálogo, y 0 si no existe ninguno.
func EffectivePrice(supply *entity.Supply, weighted map[string]decimal.Decimal) decimal.Decimal {
	if supply == nil {
		return decimal.Zero
	}
	if price, ok := weighted[supply.ID]; ok {
		return price
	}
	if supply.UnitPrice != nil {
		return *supply.UnitPrice
	}
	return supply.ReferencePrice
}

// ActualCost calcula el costo real de una OT desde cero:
//
//	costo = sum(QuantityConsumed * precioEfectivo(insumo))
//
// Conjunto de consumos vacío => 0 (no nil, no error). Es un recálculo total,
// no incremental: llamarlo dos veces sin escrituras intermedias da el mismo
// resultado, y tras cualquier edición de consumo o recepción siempre es
// correcto sin seguimiento de deltas.
func ActualCost(records []*entity.ConsumptionRecord, supplies map[string]*entity.Supply, weighted map[string]decimal.Decimal) decimal.Decimal {
	cost := decimal.Zero
	for _, rec := range records {
		price := EffectivePrice(supplies[rec.SupplyID], weighted)
		cost = cost.Add(rec.QuantityConsumed.Mul(price))
	}
	return cost
}

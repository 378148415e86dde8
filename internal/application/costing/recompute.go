// Package costing implementa los casos de uso del motor de conciliación de
// costos: recálculo del costo real de una OT y registro de consumos.
package costing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/application/ports"
	"github.com/tu-usuario/obra-control/internal/domain"
	domaincosting "github.com/tu-usuario/obra-control/internal/domain/costing"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

// RecomputeUseCase recalcula el costo real de una OT de forma transaccional.
// Es idempotente y su único efecto es sobrescribir WorkOrder.ActualCost: dos
// ediciones concurrentes al conjunto de consumos se autocorrigen porque cada
// recálculo parte del estado persistido completo, nunca de deltas.
type RecomputeUseCase struct {
	txRunner TxRunner
	views    ports.ViewInvalidator
}

// NewRecomputeUseCase construye el caso de uso.
func NewRecomputeUseCase(txRunner TxRunner, views ports.ViewInvalidator) *RecomputeUseCase {
	return &RecomputeUseCase{txRunner: txRunner, views: views}
}

// RecomputeActualCost recalcula y persiste el costo real de la OT.
func (uc *RecomputeUseCase) RecomputeActualCost(ctx context.Context, workOrderID string) (decimal.Decimal, error) {
	var (
		cost  decimal.Decimal
		order *entity.WorkOrder
	)
	err := uc.txRunner.Run(ctx, func(
		workOrderRepo repository.WorkOrderRepository,
		consumptionRepo repository.ConsumptionRepository,
		lineRepo repository.PurchaseOrderLineRepository,
		supplyRepo repository.SupplyRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		var err error
		order, cost, err = RecomputeInTx(workOrderRepo, consumptionRepo, lineRepo, supplyRepo, workOrderID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	InvalidateWorkOrderViews(uc.views, order)
	return cost, nil
}

// RecomputeInTx ejecuta el recálculo con los repositorios del caller (misma
// transacción). Lo usan también los cierres de OT y los cambios de recepción.
//
// Algoritmo (recálculo total, no incremental):
//  1. cargar consumos de la OT; conjunto vacío => costo 0
//  2. cargar líneas de OC atadas a la OT con recepción > 0
//  3. precio promedio ponderado por recepción por insumo
//  4. precio efectivo: promedio -> precio observado -> referencia -> 0
//  5. costo real = sum(cantidadConsumida * precioEfectivo)
//  6. persistir y devolver
//
// Una OT cerrada tiene el costo congelado: se devuelve el valor almacenado
// sin recalcular.
func RecomputeInTx(
	workOrderRepo repository.WorkOrderRepository,
	consumptionRepo repository.ConsumptionRepository,
	lineRepo repository.PurchaseOrderLineRepository,
	supplyRepo repository.SupplyRepository,
	workOrderID string,
) (*entity.WorkOrder, decimal.Decimal, error) {
	order, err := workOrderRepo.GetByID(workOrderID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if order == nil || order.Deleted {
		return nil, decimal.Zero, domain.ErrNotFound
	}
	if order.State == entity.WorkOrderClosed {
		if order.ActualCost != nil {
			return order, *order.ActualCost, nil
		}
		return order, decimal.Zero, nil
	}

	records, err := consumptionRepo.ListByWorkOrder(workOrderID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	lines, err := lineRepo.ListReceivedByWorkOrder(workOrderID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	supplyIDs := make([]string, 0, len(records))
	for _, rec := range records {
		supplyIDs = append(supplyIDs, rec.SupplyID)
	}
	supplies, err := supplyRepo.GetByIDs(supplyIDs)
	if err != nil {
		return nil, decimal.Zero, err
	}

	weighted := domaincosting.WeightedAveragePrices(lines)
	cost := domaincosting.ActualCost(records, supplies, weighted)

	if err := workOrderRepo.UpdateActualCost(workOrderID, cost); err != nil {
		return nil, decimal.Zero, err
	}
	order.ActualCost = &cost
	return order, cost, nil
}

// InvalidateWorkOrderViews avisa a la capa envolvente que refresque las
// vistas de la OT y de su proyecto. Último paso de toda operación mutante.
func InvalidateWorkOrderViews(views ports.ViewInvalidator, order *entity.WorkOrder) {
	if views == nil || order == nil {
		return
	}
	views.Invalidate("/work-orders/" + order.ID)
	views.Invalidate("/projects/" + order.ProjectID)
}

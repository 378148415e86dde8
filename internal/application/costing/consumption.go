package costing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/application/ports"
	"github.com/tu-usuario/obra-control/internal/domain"
	domainauth "github.com/tu-usuario/obra-control/internal/domain/auth"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

// ConsumptionUseCase registra y elimina consumos de insumos de una OT.
// Cada mutación dispara el recálculo del costo real en la misma transacción.
type ConsumptionUseCase struct {
	txRunner TxRunner
	views    ports.ViewInvalidator
}

// NewConsumptionUseCase construye el caso de uso.
func NewConsumptionUseCase(txRunner TxRunner, views ports.ViewInvalidator) *ConsumptionUseCase {
	return &ConsumptionUseCase{txRunner: txRunner, views: views}
}

// UpsertInput entrada para registrar un consumo.
type UpsertInput struct {
	WorkOrderID       string
	SupplyID          string
	QuantityConsumed  decimal.Decimal
	QuantityEstimated *decimal.Decimal // baseline opcional, copiado al crear
}

// Upsert registra el consumo de un insumo en una OT. A lo sumo un registro por
// par (OT, insumo): una segunda carga sobrescribe la primera, nunca duplica.
// Una OT cerrada tiene el costo congelado y rechaza nuevas cargas.
func (uc *ConsumptionUseCase) Upsert(ctx context.Context, actorRole string, in UpsertInput) (*entity.ConsumptionRecord, error) {
	if !domainauth.Can(actorRole, domainauth.ActionRecordConsumption) {
		return nil, domain.ErrUnauthorized
	}
	if in.WorkOrderID == "" || in.SupplyID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.QuantityConsumed.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.QuantityEstimated != nil && in.QuantityEstimated.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var (
		saved *entity.ConsumptionRecord
		order *entity.WorkOrder
	)
	err := uc.txRunner.Run(ctx, func(
		workOrderRepo repository.WorkOrderRepository,
		consumptionRepo repository.ConsumptionRepository,
		lineRepo repository.PurchaseOrderLineRepository,
		supplyRepo repository.SupplyRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		existing, err := workOrderRepo.GetByID(in.WorkOrderID)
		if err != nil {
			return err
		}
		if existing == nil || existing.Deleted {
			return domain.ErrNotFound
		}
		if existing.State == entity.WorkOrderClosed {
			return domain.ErrWorkOrderClosed
		}
		supply, err := supplyRepo.GetByID(in.SupplyID)
		if err != nil {
			return err
		}
		if supply == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		saved, err = consumptionRepo.Upsert(&entity.ConsumptionRecord{
			WorkOrderID:       in.WorkOrderID,
			SupplyID:          in.SupplyID,
			QuantityConsumed:  in.QuantityConsumed,
			QuantityEstimated: in.QuantityEstimated,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err != nil {
			return err
		}
		order, _, err = RecomputeInTx(workOrderRepo, consumptionRepo, lineRepo, supplyRepo, in.WorkOrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	InvalidateWorkOrderViews(uc.views, order)
	return saved, nil
}

// Delete elimina un consumo y recalcula: su contribución desaparece exacta,
// sin residuos, porque el recálculo parte del conjunto persistido actual.
func (uc *ConsumptionUseCase) Delete(ctx context.Context, actorRole, recordID string) error {
	if !domainauth.Can(actorRole, domainauth.ActionRecordConsumption) {
		return domain.ErrUnauthorized
	}
	var order *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(
		workOrderRepo repository.WorkOrderRepository,
		consumptionRepo repository.ConsumptionRepository,
		lineRepo repository.PurchaseOrderLineRepository,
		supplyRepo repository.SupplyRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		record, err := consumptionRepo.GetByID(recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}
		existing, err := workOrderRepo.GetByID(record.WorkOrderID)
		if err != nil {
			return err
		}
		if existing == nil || existing.Deleted {
			return domain.ErrNotFound
		}
		if existing.State == entity.WorkOrderClosed {
			return domain.ErrWorkOrderClosed
		}
		if err := consumptionRepo.Delete(recordID); err != nil {
			return err
		}
		order, _, err = RecomputeInTx(workOrderRepo, consumptionRepo, lineRepo, supplyRepo, record.WorkOrderID)
		return err
	})
	if err != nil {
		return err
	}
	InvalidateWorkOrderViews(uc.views, order)
	return nil
}

// Package workorder implementa el ciclo de vida de las órdenes de trabajo:
// borrador -> aprobada -> en_ejecucion -> cerrada, más la eliminación lógica.
package workorder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appcosting "github.com/tu-usuario/obra-control/internal/application/costing"
	"github.com/tu-usuario/obra-control/internal/application/ports"
	"github.com/tu-usuario/obra-control/internal/domain"
	domainauth "github.com/tu-usuario/obra-control/internal/domain/auth"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

// LifecycleUseCase gobierna las transiciones de una OT. Las precondiciones de
// cierre corren el motor de costos de forma síncrona dentro de la misma
// transacción; el estado solo muta vía entity.WorkOrder.Transition.
type LifecycleUseCase struct {
	txRunner appcosting.TxRunner
	views    ports.ViewInvalidator
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(txRunner appcosting.TxRunner, views ports.ViewInvalidator) *LifecycleUseCase {
	return &LifecycleUseCase{txRunner: txRunner, views: views}
}

// CreateInput entrada para crear una OT en borrador.
type CreateInput struct {
	ProjectID     string
	CategoryID    string
	Description   string
	EstimatedCost decimal.Decimal
}

// Create crea una OT en borrador contra un rubro. El costo estimado queda
// fijado aquí y no se revisa al aprobar.
func (uc *LifecycleUseCase) Create(ctx context.Context, in CreateInput) (*entity.WorkOrder, error) {
	if in.ProjectID == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.EstimatedCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	order := &entity.WorkOrder{
		ID:            uuid.New().String(),
		ProjectID:     in.ProjectID,
		CategoryID:    in.CategoryID,
		Description:   in.Description,
		EstimatedCost: in.EstimatedCost,
		State:         entity.WorkOrderDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.txRunner.Run(ctx, func(
		workOrderRepo repository.WorkOrderRepository,
		_ repository.ConsumptionRepository,
		_ repository.PurchaseOrderLineRepository,
		_ repository.SupplyRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		return workOrderRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Approve pasa la OT de borrador a aprobada. Exige el flag de reconocimiento
// presupuestario: un sobrecosto estimado al aprobar es un riesgo declarado,
// no un bloqueo duro. No existe tope implícito.
func (uc *LifecycleUseCase) Approve(ctx context.Context, actorRole, id string, acknowledgeBudget bool) (*entity.WorkOrder, error) {
	if !domainauth.Can(actorRole, domainauth.ActionApproveWorkOrder) {
		return nil, domain.ErrUnauthorized
	}
	if !acknowledgeBudget {
		return nil, domain.ErrInvalidInput
	}
	return uc.transition(ctx, id, entity.WorkOrderApproved)
}

// StartExecution pasa la OT de aprobada a en_ejecucion. Sin precondiciones
// más allá de la autorización por rol.
func (uc *LifecycleUseCase) StartExecution(ctx context.Context, actorRole, id string) (*entity.WorkOrder, error) {
	if !domainauth.Can(actorRole, domainauth.ActionStartExecution) {
		return nil, domain.ErrUnauthorized
	}
	return uc.transition(ctx, id, entity.WorkOrderInExecution)
}

// Close cierra la OT. Recalcula el costo real de forma síncrona antes de
// evaluar la precondición: si hay desvío (real > estimado) el caller debe
// reconocerlo con acknowledgeDeviation, si no la operación falla con
// ErrDeviationUnacknowledged. Tras el cierre el costo real queda congelado.
func (uc *LifecycleUseCase) Close(ctx context.Context, actorRole, id string, acknowledgeDeviation bool) (*entity.WorkOrder, error) {
	if !domainauth.Can(actorRole, domainauth.ActionCloseWorkOrder) {
		return nil, domain.ErrUnauthorized
	}
	var order *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(
		workOrderRepo repository.WorkOrderRepository,
		consumptionRepo repository.ConsumptionRepository,
		lineRepo repository.PurchaseOrderLineRepository,
		supplyRepo repository.SupplyRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		existing, err := workOrderRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil || existing.Deleted {
			return domain.ErrNotFound
		}
		if existing.State != entity.WorkOrderInExecution {
			return &domain.TransitionError{Entity: "orden_trabajo", From: string(existing.State), To: string(entity.WorkOrderClosed)}
		}

		order, _, err = appcosting.RecomputeInTx(workOrderRepo, consumptionRepo, lineRepo, supplyRepo, id)
		if err != nil {
			return err
		}
		if order.HasDeviation() && !acknowledgeDeviation {
			return domain.ErrDeviationUnacknowledged
		}
		if err := order.Transition(entity.WorkOrderClosed); err != nil {
			return err
		}
		order.UpdatedAt = time.Now()
		return workOrderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	appcosting.InvalidateWorkOrderViews(uc.views, order)
	return order, nil
}

// SoftDelete marca la OT como eliminada. Solo desde borrador, solo por un rol
// aprobador, y solo si ninguna OC no cancelada la referencia.
func (uc *LifecycleUseCase) SoftDelete(ctx context.Context, actorRole, id string) error {
	if !domainauth.Can(actorRole, domainauth.ActionDeleteWorkOrder) {
		return domain.ErrUnauthorized
	}
	var order *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(
		workOrderRepo repository.WorkOrderRepository,
		_ repository.ConsumptionRepository,
		_ repository.PurchaseOrderLineRepository,
		_ repository.SupplyRepository,
		purchaseOrderRepo repository.PurchaseOrderRepository,
	) error {
		existing, err := workOrderRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil || existing.Deleted {
			return domain.ErrNotFound
		}
		if existing.State != entity.WorkOrderDraft {
			return &domain.TransitionError{Entity: "orden_trabajo", From: string(existing.State), To: "eliminada"}
		}
		purchases, err := purchaseOrderRepo.ListByWorkOrder(id)
		if err != nil {
			return err
		}
		for _, oc := range purchases {
			if oc.Active() {
				return domain.ErrWorkOrderReferenced
			}
		}
		order = existing
		return workOrderRepo.SoftDelete(id)
	})
	if err != nil {
		return err
	}
	appcosting.InvalidateWorkOrderViews(uc.views, order)
	return nil
}

// GetByID devuelve la OT (no eliminada) para la capa de interfaces.
func (uc *LifecycleUseCase) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	var order *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(
		workOrderRepo repository.WorkOrderRepository,
		_ repository.ConsumptionRepository,
		_ repository.PurchaseOrderLineRepository,
		_ repository.SupplyRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		existing, err := workOrderRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil || existing.Deleted {
			return domain.ErrNotFound
		}
		order = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// transition aplica una transición simple (aprobar, iniciar ejecución) dentro
// de una transacción.
func (uc *LifecycleUseCase) transition(ctx context.Context, id string, to entity.WorkOrderState) (*entity.WorkOrder, error) {
	var order *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(
		workOrderRepo repository.WorkOrderRepository,
		_ repository.ConsumptionRepository,
		_ repository.PurchaseOrderLineRepository,
		_ repository.SupplyRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		existing, err := workOrderRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil || existing.Deleted {
			return domain.ErrNotFound
		}
		if err := existing.Transition(to); err != nil {
			return err
		}
		existing.UpdatedAt = time.Now()
		if err := workOrderRepo.Update(existing); err != nil {
			return err
		}
		order = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	appcosting.InvalidateWorkOrderViews(uc.views, order)
	return order, nil
}

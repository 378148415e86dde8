// Package purchase implementa el ciclo de vida de las órdenes de compra y el
// registro de recepciones de stock.
package purchase

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

// LifecycleUseCase gobierna la OC: creación con líneas, transiciones de
// estado y recepción de stock. Registrar una recepción no cambia el estado
// por sí mismo: la recepción es carga de datos idempotente, la transición es
// una decisión de negocio auditable que el caller dispara aparte cuando
// determina la completitud (recibido vs ordenado sobre todas las líneas).
type LifecycleUseCase struct {
	txRunner appcosting.TxRunner
	views    ports.ViewInvalidator
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(txRunner appcosting.TxRunner, views ports.ViewInvalidator) *LifecycleUseCase {
	return &LifecycleUseCase{txRunner: txRunner, views: views}
}

// LineInput línea de compra: insumo, precio negociado y cantidad.
type LineInput struct {
	SupplyID        string
	UnitPrice       decimal.Decimal
	QuantityOrdered decimal.Decimal
}

// CreateInput entrada para crear una OC en pendiente.
type CreateInput struct {
	ProjectID   string
	WorkOrderID *string // opcional: compra atada a una OT
	Supplier    string
	Lines       []LineInput
}

// Create crea la OC con sus líneas; el total es derivado de las líneas.
func (uc *LifecycleUseCase) Create(ctx context.Context, actorRole string, in CreateInput) (*entity.PurchaseOrder, error) {
	if !domainauth.Can(actorRole, domainauth.ActionTransitionPurchase) {
		return nil, domain.ErrUnauthorized
	}
	if in.ProjectID == "" || in.Supplier == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		ProjectID:   in.ProjectID,
		WorkOrderID: in.WorkOrderID,
		Supplier:    in.Supplier,
		State:       entity.PurchaseOrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	lines := make([]*entity.PurchaseOrderLine, 0, len(in.Lines))
	total := decimal.Zero
	for _, l := range in.Lines {
		if l.SupplyID == "" || l.UnitPrice.LessThan(decimal.Zero) || !l.QuantityOrdered.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		line := &entity.PurchaseOrderLine{
			ID:               uuid.New().String(),
			PurchaseOrderID:  order.ID,
			SupplyID:         l.SupplyID,
			UnitPrice:        l.UnitPrice,
			QuantityOrdered:  l.QuantityOrdered,
			QuantityReceived: decimal.Zero,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		total = total.Add(line.Subtotal())
		lines = append(lines, line)
	}
	order.Total = total

	err := uc.txRunner.Run(ctx, func(
		workOrderRepo repository.WorkOrderRepository,
		_ repository.ConsumptionRepository,
		_ repository.PurchaseOrderLineRepository,
		supplyRepo repository.SupplyRepository,
		purchaseOrderRepo repository.PurchaseOrderRepository,
	) error {
		if in.WorkOrderID != nil {
			ot, err := workOrderRepo.GetByID(*in.WorkOrderID)
			if err != nil {
				return err
			}
			if ot == nil || ot.Deleted {
				return domain.ErrNotFound
			}
		}
		for _, line := range lines {
			supply, err := supplyRepo.GetByID(line.SupplyID)
			if err != nil {
				return err
			}
			if supply == nil {
				return domain.ErrNotFound
			}
		}
		return purchaseOrderRepo.Create(order, lines)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Transition aplica una transición explícita de estado a la OC. Cualquier
// transición fuera del grafo devuelve el error de negocio BIZ_001 y deja el
// estado intacto.
func (uc *LifecycleUseCase) Transition(ctx context.Context, actorRole, id string, target entity.PurchaseOrderState) (*entity.PurchaseOrder, error) {
	if !domainauth.Can(actorRole, domainauth.ActionTransitionPurchase) {
		return nil, domain.ErrUnauthorized
	}
	switch target {
	case entity.PurchaseOrderPending, entity.PurchaseOrderSent, entity.PurchaseOrderPartiallyReceived,
		entity.PurchaseOrderFullyReceived, entity.PurchaseOrderCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(
		_ repository.WorkOrderRepository,
		_ repository.ConsumptionRepository,
		_ repository.PurchaseOrderLineRepository,
		_ repository.SupplyRepository,
		purchaseOrderRepo repository.PurchaseOrderRepository,
	) error {
		existing, err := purchaseOrderRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if err := existing.Transition(target); err != nil {
			return err
		}
		if err := purchaseOrderRepo.UpdateState(id, target); err != nil {
			return err
		}
		order = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidatePurchaseViews(order)
	return order, nil
}

// RecordReceipt registra la cantidad recibida de una línea (idempotente: fija
// el valor, no acumula). Si la OC está atada a una OT, el costo real de esa OT
// se recalcula en la misma transacción porque la recepción cambia el precio
// promedio ponderado.
func (uc *LifecycleUseCase) RecordReceipt(ctx context.Context, actorRole, lineID string, quantityReceived decimal.Decimal) (*entity.PurchaseOrderLine, error) {
	if !domainauth.Can(actorRole, domainauth.ActionRecordReceipt) {
		return nil, domain.ErrUnauthorized
	}
	if quantityReceived.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var (
		line  *entity.PurchaseOrderLine
		order *entity.WorkOrder
		oc    *entity.PurchaseOrder
	)
	err := uc.txRunner.Run(ctx, func(
		workOrderRepo repository.WorkOrderRepository,
		consumptionRepo repository.ConsumptionRepository,
		lineRepo repository.PurchaseOrderLineRepository,
		supplyRepo repository.SupplyRepository,
		purchaseOrderRepo repository.PurchaseOrderRepository,
	) error {
		existing, err := lineRepo.GetByID(lineID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if quantityReceived.GreaterThan(existing.QuantityOrdered) {
			return domain.ErrInvalidInput
		}
		if err := lineRepo.UpdateReceived(lineID, quantityReceived); err != nil {
			return err
		}
		existing.QuantityReceived = quantityReceived
		line = existing

		oc, err = purchaseOrderRepo.GetByID(existing.PurchaseOrderID)
		if err != nil {
			return err
		}
		if oc == nil {
			return domain.ErrNotFound
		}
		if oc.WorkOrderID != nil {
			order, _, err = appcosting.RecomputeInTx(workOrderRepo, consumptionRepo, lineRepo, supplyRepo, *oc.WorkOrderID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	appcosting.InvalidateWorkOrderViews(uc.views, order)
	uc.invalidatePurchaseViews(oc)
	return line, nil
}

// GetByID devuelve la OC con sus líneas para la capa de interfaces.
func (uc *LifecycleUseCase) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, []*entity.PurchaseOrderLine, error) {
	var (
		order *entity.PurchaseOrder
		lines []*entity.PurchaseOrderLine
	)
	err := uc.txRunner.Run(ctx, func(
		_ repository.WorkOrderRepository,
		_ repository.ConsumptionRepository,
		lineRepo repository.PurchaseOrderLineRepository,
		_ repository.SupplyRepository,
		purchaseOrderRepo repository.PurchaseOrderRepository,
	) error {
		existing, err := purchaseOrderRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		order = existing
		lines, err = lineRepo.ListByPurchaseOrder(id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return order, lines, nil
}

func (uc *LifecycleUseCase) invalidatePurchaseViews(order *entity.PurchaseOrder) {
	if uc.views == nil || order == nil {
		return
	}
	uc.views.Invalidate("/purchase-orders/" + order.ID)
	uc.views.Invalidate("/projects/" + order.ProjectID)
}

package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra (DIP).
type PurchaseOrderRepository interface {
	Create(order *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	UpdateState(id string, state entity.PurchaseOrderState) error
	ListByWorkOrder(workOrderID string) ([]*entity.PurchaseOrder, error)
	ListByProject(projectID string, limit, offset int) ([]*entity.PurchaseOrder, error)
}

// PurchaseOrderLineRepository puerto para líneas de OC (pertenecen a su OC, cascade).
// ListReceivedByWorkOrder devuelve las líneas con recepción (> 0) de todas las
// OCs atadas a la OT sin filtrar por estado: lo recibido es material entregado
// aunque la OC cambie de estado después. Insumo del promedio ponderado.
type PurchaseOrderLineRepository interface {
	GetByID(id string) (*entity.PurchaseOrderLine, error)
	UpdateReceived(id string, quantityReceived decimal.Decimal) error
	ListByPurchaseOrder(purchaseOrderID string) ([]*entity.PurchaseOrderLine, error)
	ListReceivedByWorkOrder(workOrderID string) ([]*entity.PurchaseOrderLine, error)
}

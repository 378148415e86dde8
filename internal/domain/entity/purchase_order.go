package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/domain"
)

// PurchaseOrderState estados del ciclo de vida de una OC (tipo cerrado).
type PurchaseOrderState string

const (
	PurchaseOrderPending           PurchaseOrderState = "pendiente"
	PurchaseOrderSent              PurchaseOrderState = "enviada"
	PurchaseOrderPartiallyReceived PurchaseOrderState = "recibida_parcial"
	PurchaseOrderFullyReceived     PurchaseOrderState = "recibida_total"
	PurchaseOrderCancelled         PurchaseOrderState = "cancelada"
)

// purchaseOrderTransitions grafo de transiciones permitidas.
// cancelada solo es alcanzable desde pendiente o enviada.
var purchaseOrderTransitions = map[PurchaseOrderState][]PurchaseOrderState{
	PurchaseOrderPending:           {PurchaseOrderSent, PurchaseOrderCancelled},
	PurchaseOrderSent:              {PurchaseOrderPartiallyReceived, PurchaseOrderFullyReceived, PurchaseOrderCancelled},
	PurchaseOrderPartiallyReceived: {PurchaseOrderFullyReceived},
}

// PurchaseOrder representa una orden de compra (OC) a un proveedor,
// opcionalmente atada a una OT. Total es derivado de las líneas.
type PurchaseOrder struct {
	ID          string
	ProjectID   string
	WorkOrderID *string // nil si la compra no está atada a una OT
	Supplier    string
	State       PurchaseOrderState
	Total       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Transition muta el estado de la OC; único camino que cambia State.
// Una transición fuera del grafo devuelve *domain.TransitionError (BIZ_001)
// y deja el estado intacto. Registrar recepciones NO pasa por acá: la
// recepción es carga de datos idempotente, el cambio de estado es una
// decisión de negocio auditable y explícita.
func (p *PurchaseOrder) Transition(to PurchaseOrderState) error {
	for _, next := range purchaseOrderTransitions[p.State] {
		if next == to {
			p.State = to
			return nil
		}
	}
	return &domain.TransitionError{Entity: "orden_compra", From: string(p.State), To: string(to)}
}

// Active indica si la OC bloquea la eliminación de su OT (todo estado salvo cancelada).
func (p *PurchaseOrder) Active() bool {
	return p.State != PurchaseOrderCancelled
}

// PurchaseOrderLine línea de una OC: insumo, precio negociado y cantidades.
// Invariante: QuantityReceived <= QuantityOrdered. Pertenece a su OC (cascade).
type PurchaseOrderLine struct {
	ID               string
	PurchaseOrderID  string
	SupplyID         string
	UnitPrice        decimal.Decimal // precio negociado con el proveedor
	QuantityOrdered  decimal.Decimal
	QuantityReceived decimal.Decimal // 0 hasta registrar recepción
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Subtotal de la línea sobre lo ordenado.
func (l *PurchaseOrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(l.QuantityOrdered)
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/domain"
)

// WorkOrderState estados del ciclo de vida de una OT (tipo cerrado).
type WorkOrderState string

const (
	WorkOrderDraft       WorkOrderState = "borrador"
	WorkOrderApproved    WorkOrderState = "aprobada"
	WorkOrderInExecution WorkOrderState = "en_ejecucion"
	WorkOrderClosed      WorkOrderState = "cerrada"
)

// workOrderTransitions transiciones permitidas; la eliminación lógica se
// maneja aparte (solo desde borrador, con chequeo de OCs activas).
var workOrderTransitions = map[WorkOrderState]WorkOrderState{
	WorkOrderDraft:       WorkOrderApproved,
	WorkOrderApproved:    WorkOrderInExecution,
	WorkOrderInExecution: WorkOrderClosed,
}

// WorkOrder representa una orden de trabajo (OT) contra un rubro.
// EstimatedCost queda fijo al aprobar; ActualCost lo recalcula el motor de
// costos y nunca se edita a mano (nil hasta el primer recálculo).
type WorkOrder struct {
	ID            string
	ProjectID     string
	CategoryID    string // rubro
	Description   string
	EstimatedCost decimal.Decimal
	ActualCost    *decimal.Decimal
	State         WorkOrderState
	Deleted       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Transition muta el estado de la OT. Es el ÚNICO camino que cambia State;
// cualquier otra transición devuelve *domain.TransitionError (BIZ_001) y deja
// el estado intacto.
func (w *WorkOrder) Transition(to WorkOrderState) error {
	if next, ok := workOrderTransitions[w.State]; ok && next == to {
		w.State = to
		return nil
	}
	return &domain.TransitionError{Entity: "orden_trabajo", From: string(w.State), To: string(to)}
}

// HasDeviation indica si el costo real supera al estimado (requiere recálculo previo).
func (w *WorkOrder) HasDeviation() bool {
	return w.ActualCost != nil && w.ActualCost.GreaterThan(w.EstimatedCost)
}

// Package auth define la política de autorización del motor: una única tabla
// de capacidades (rol, acción) consultada por todas las transiciones de ciclo
// de vida, en lugar de chequeos de rol repartidos por operación.
package auth

import "github.com/tu-usuario/obra-control/internal/domain/entity"

// Action acciones gobernadas por la política.
type Action string

const (
	ActionApproveWorkOrder    Action = "work_order.approve"
	ActionStartExecution      Action = "work_order.start_execution"
	ActionCloseWorkOrder      Action = "work_order.close"
	ActionDeleteWorkOrder     Action = "work_order.delete"
	ActionRecordConsumption   Action = "consumption.record"
	ActionTransitionPurchase  Action = "purchase_order.transition"
	ActionRecordReceipt       Action = "purchase_order.record_receipt"
	ActionManageBudget        Action = "budget.manage"
	ActionViewDeviations      Action = "deviations.view"
)

// capabilities tabla única de permisos por rol. admin y director_obra aprueban
// y eliminan; jefe_obra opera ejecución y compras; capataz solo carga consumos.
var capabilities = map[string]map[Action]bool{
	entity.RoleAdmin: {
		ActionApproveWorkOrder:   true,
		ActionStartExecution:     true,
		ActionCloseWorkOrder:     true,
		ActionDeleteWorkOrder:    true,
		ActionRecordConsumption:  true,
		ActionTransitionPurchase: true,
		ActionRecordReceipt:      true,
		ActionManageBudget:       true,
		ActionViewDeviations:     true,
	},
	entity.RoleDirectorObra: {
		ActionApproveWorkOrder:   true,
		ActionStartExecution:     true,
		ActionCloseWorkOrder:     true,
		ActionDeleteWorkOrder:    true,
		ActionRecordConsumption:  true,
		ActionTransitionPurchase: true,
		ActionRecordReceipt:      true,
		ActionManageBudget:       true,
		ActionViewDeviations:     true,
	},
	entity.RoleJefeObra: {
		ActionStartExecution:     true,
		ActionCloseWorkOrder:     true,
		ActionRecordConsumption:  true,
		ActionTransitionPurchase: true,
		ActionRecordReceipt:      true,
		ActionViewDeviations:     true,
	},
	entity.RoleCapataz: {
		ActionRecordConsumption: true,
	},
}

// Can responde si el rol puede ejecutar la acción.
func Can(role string, action Action) bool {
	return capabilities[role][action]
}

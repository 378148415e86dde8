package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/domain/entity"
)

// WorkOrderRepository define el puerto de persistencia para órdenes de trabajo (DIP).
// UpdateActualCost es el único camino de escritura del costo real: la copia
// almacenada es un cache invalidado por cada recálculo, nunca se edita a mano.
type WorkOrderRepository interface {
	Create(order *entity.WorkOrder) error
	GetByID(id string) (*entity.WorkOrder, error)
	Update(order *entity.WorkOrder) error
	UpdateActualCost(id string, cost decimal.Decimal) error
	ListByProject(projectID string, states []entity.WorkOrderState) ([]*entity.WorkOrder, error)
	SoftDelete(id string) error
}

package repository

import "github.com/tu-usuario/obra-control/internal/domain/entity"

// ConsumptionRepository define el puerto de persistencia para consumos (DIP).
// Upsert por clave (OT, insumo): una segunda carga sobrescribe cantidad y
// baseline, nunca agrega fila. Es la defensa contra reintentos duplicados.
type ConsumptionRepository interface {
	Upsert(record *entity.ConsumptionRecord) (*entity.ConsumptionRecord, error)
	GetByID(id string) (*entity.ConsumptionRecord, error)
	Delete(id string) error
	ListByWorkOrder(workOrderID string) ([]*entity.ConsumptionRecord, error)
}

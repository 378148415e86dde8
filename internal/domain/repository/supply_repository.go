package repository

import "github.com/tu-usuario/obra-control/internal/domain/entity"

// SupplyRepository define el puerto de persistencia para el catálogo de insumos (DIP).
// El motor de costos solo lee; la mutación es gestión de catálogo.
type SupplyRepository interface {
	Create(supply *entity.Supply) error
	GetByID(id string) (*entity.Supply, error)
	GetByIDs(ids []string) (map[string]*entity.Supply, error)
	Update(supply *entity.Supply) error
	List(query string, limit, offset int) ([]*entity.Supply, error)
}

package repository

import "github.com/tu-usuario/obra-control/internal/domain/entity"

// BudgetCategoryRepository define el puerto de persistencia para rubros (DIP).
type BudgetCategoryRepository interface {
	Save(category *entity.BudgetCategory) error
	GetByID(id string) (*entity.BudgetCategory, error)
	ListByProject(projectID string) ([]*entity.BudgetCategory, error)
	SoftDelete(id string) error
}

package repository

import "github.com/tu-usuario/obra-control/internal/domain/entity"

// ProjectRepository define el puerto de persistencia para obras (DIP).
type ProjectRepository interface {
	Create(project *entity.Project) error
	GetByID(id string) (*entity.Project, error)
	List(limit, offset int) ([]*entity.Project, error)
}

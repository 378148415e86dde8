package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/obra-control/internal/domain"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

// ProjectUseCase gestión de obras (glue CRUD alrededor del motor).
type ProjectUseCase struct {
	projectRepo repository.ProjectRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(projectRepo repository.ProjectRepository) *ProjectUseCase {
	return &ProjectUseCase{projectRepo: projectRepo}
}

// Create da de alta una obra.
func (uc *ProjectUseCase) Create(name, address string) (*entity.Project, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	project := &entity.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   address,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.projectRepo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

// GetByID devuelve una obra.
func (uc *ProjectUseCase) GetByID(id string) (*entity.Project, error) {
	project, err := uc.projectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	return project, nil
}

// List devuelve las obras paginadas.
func (uc *ProjectUseCase) List(limit, offset int) ([]*entity.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.projectRepo.List(limit, offset)
}

// Package budget implementa los casos de uso presupuestarios: alta de rubros
// con captura de cotización UR y agregación de desvíos por proyecto.
package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/application/ports"
	"github.com/tu-usuario/obra-control/internal/domain"
	domainauth "github.com/tu-usuario/obra-control/internal/domain/auth"
	domainbudget "github.com/tu-usuario/obra-control/internal/domain/budget"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

// CategoryUseCase gestiona rubros. El presupuesto se autoriza en UR; al
// guardar se lee la cotización vigente UNA vez y se captura en el rubro:
// cambios posteriores de la cotización global no recalculan saves anteriores.
type CategoryUseCase struct {
	categoryRepo repository.BudgetCategoryRepository
	projectRepo  repository.ProjectRepository
	rateSource   ports.RateSource
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categoryRepo repository.BudgetCategoryRepository, projectRepo repository.ProjectRepository, rateSource ports.RateSource) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo, projectRepo: projectRepo, rateSource: rateSource}
}

// SaveInput entrada para crear o actualizar un rubro. ID vacío crea.
type SaveInput struct {
	ID          string
	ProjectID   string
	Name        string
	BudgetUnits decimal.Decimal // UR; negativo se rechaza en validación
}

// Save crea o actualiza un rubro capturando la cotización del momento.
func (uc *CategoryUseCase) Save(ctx context.Context, actorRole string, in SaveInput) (*entity.BudgetCategory, error) {
	if !domainauth.Can(actorRole, domainauth.ActionManageBudget) {
		return nil, domain.ErrUnauthorized
	}
	if in.ProjectID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	project, err := uc.projectRepo.GetByID(in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}

	rate, err := uc.rateSource.CurrentURRate(ctx)
	if err != nil {
		return nil, err
	}
	pesos, err := domainbudget.ConvertUnits(in.BudgetUnits, rate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	category := &entity.BudgetCategory{
		ID:          in.ID,
		ProjectID:   in.ProjectID,
		Name:        in.Name,
		BudgetUnits: in.BudgetUnits,
		BudgetPesos: pesos,
		RateAtSave:  rate,
		UpdatedAt:   now,
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
		category.CreatedAt = now
	} else {
		existing, err := uc.categoryRepo.GetByID(category.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil || existing.Deleted {
			return nil, domain.ErrNotFound
		}
		category.CreatedAt = existing.CreatedAt
	}
	if err := uc.categoryRepo.Save(category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListByProject devuelve los rubros no eliminados del proyecto.
func (uc *CategoryUseCase) ListByProject(ctx context.Context, projectID string) ([]*entity.BudgetCategory, error) {
	return uc.categoryRepo.ListByProject(projectID)
}

// SoftDelete marca el rubro como eliminado.
func (uc *CategoryUseCase) SoftDelete(ctx context.Context, actorRole, id string) error {
	if !domainauth.Can(actorRole, domainauth.ActionManageBudget) {
		return domain.ErrUnauthorized
	}
	existing, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil || existing.Deleted {
		return domain.ErrNotFound
	}
	return uc.categoryRepo.SoftDelete(id)
}

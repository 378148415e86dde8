package budget

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/domain"
	domainauth "github.com/tu-usuario/obra-control/internal/domain/auth"
	domainbudget "github.com/tu-usuario/obra-control/internal/domain/budget"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

// CategoryDeviation resumen estimado vs real de un rubro.
type CategoryDeviation struct {
	CategoryID       string
	CategoryName     string
	BudgetPesos      decimal.Decimal
	EstimatedTotal   decimal.Decimal
	ActualTotal      decimal.Decimal
	Deviation        decimal.Decimal // real - estimado (con signo)
	DeviationPercent decimal.Decimal
	Severity         domainbudget.Severity
	WorkOrders       int
}

// committedStates estados de OT con gasto comprometido: borrador y eliminada
// no participan del rollup.
var committedStates = []entity.WorkOrderState{
	entity.WorkOrderApproved,
	entity.WorkOrderInExecution,
	entity.WorkOrderClosed,
}

// DeviationUseCase agrega desvíos de costo por rubro para reporting.
type DeviationUseCase struct {
	categoryRepo  repository.BudgetCategoryRepository
	workOrderRepo repository.WorkOrderRepository
	projectRepo   repository.ProjectRepository
}

// NewDeviationUseCase construye el agregador.
func NewDeviationUseCase(categoryRepo repository.BudgetCategoryRepository, workOrderRepo repository.WorkOrderRepository, projectRepo repository.ProjectRepository) *DeviationUseCase {
	return &DeviationUseCase{categoryRepo: categoryRepo, workOrderRepo: workOrderRepo, projectRepo: projectRepo}
}

// DeviationsByProject devuelve una entrada por rubro no eliminado del
// proyecto, incluso rubros sin actividad (entrada presente con ceros).
// Suma estimado y real de las OTs en estados comprometidos; el porcentaje es
// exactamente 0 cuando el estimado total es 0, nunca NaN.
func (uc *DeviationUseCase) DeviationsByProject(ctx context.Context, actorRole, projectID string) ([]CategoryDeviation, error) {
	if !domainauth.Can(actorRole, domainauth.ActionViewDeviations) {
		return nil, domain.ErrUnauthorized
	}
	project, err := uc.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}

	categories, err := uc.categoryRepo.ListByProject(projectID)
	if err != nil {
		return nil, err
	}
	orders, err := uc.workOrderRepo.ListByProject(projectID, committedStates)
	if err != nil {
		return nil, err
	}

	type totals struct {
		estimated decimal.Decimal
		actual    decimal.Decimal
		count     int
	}
	byCategory := make(map[string]*totals)
	for _, order := range orders {
		t := byCategory[order.CategoryID]
		if t == nil {
			t = &totals{}
			byCategory[order.CategoryID] = t
		}
		t.estimated = t.estimated.Add(order.EstimatedCost)
		if order.ActualCost != nil {
			t.actual = t.actual.Add(*order.ActualCost)
		}
		t.count++
	}

	result := make([]CategoryDeviation, 0, len(categories))
	for _, category := range categories {
		t := byCategory[category.ID]
		if t == nil {
			t = &totals{}
		}
		deviation := t.actual.Sub(t.estimated)
		percent := domainbudget.DeviationPercent(t.estimated, t.actual)
		result = append(result, CategoryDeviation{
			CategoryID:       category.ID,
			CategoryName:     category.Name,
			BudgetPesos:      category.BudgetPesos,
			EstimatedTotal:   t.estimated,
			ActualTotal:      t.actual,
			Deviation:        deviation,
			DeviationPercent: percent,
			Severity:         domainbudget.Classify(percent),
			WorkOrders:       t.count,
		})
	}
	return result, nil
}

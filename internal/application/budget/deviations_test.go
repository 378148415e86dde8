package budget_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbudget "github.com/tu-usuario/obra-control/internal/application/budget"
	"github.com/tu-usuario/obra-control/internal/domain"
	domainbudget "github.com/tu-usuario/obra-control/internal/domain/budget"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/infrastructure/memory"
)

// fakeRates cotización UR fija para tests.
type fakeRates struct{ rate decimal.Decimal }

func (f *fakeRates) CurrentURRate(_ context.Context) (decimal.Decimal, error) {
	return f.rate, nil
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func seedProject(t *testing.T, store *memory.Store) {
	t.Helper()
	require.NoError(t, store.Projects().Create(&entity.Project{ID: "obra1", Name: "Torre Norte", Status: "active"}))
}

func seedCategory(t *testing.T, store *memory.Store, id, name string) {
	t.Helper()
	require.NoError(t, store.Categories().Save(&entity.BudgetCategory{
		ID: id, ProjectID: "obra1", Name: name,
		BudgetUnits: dec("100"), BudgetPesos: dec("145000"), RateAtSave: dec("1450"),
	}))
}

func seedOT(t *testing.T, store *memory.Store, id, categoryID string, state entity.WorkOrderState, estimated, actual string) {
	t.Helper()
	order := &entity.WorkOrder{
		ID: id, ProjectID: "obra1", CategoryID: categoryID,
		EstimatedCost: dec(estimated), State: state,
	}
	if actual != "" {
		a := dec(actual)
		order.ActualCost = &a
	}
	require.NoError(t, store.WorkOrders().Create(order))
}

func newDeviationUC(store *memory.Store) *appbudget.DeviationUseCase {
	return appbudget.NewDeviationUseCase(store.Categories(), store.WorkOrders(), store.Projects())
}

func TestDeviationsByProject_RollupPorRubro(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store)
	seedCategory(t, store, "rubro1", "Hormigón")
	seedOT(t, store, "ot1", "rubro1", entity.WorkOrderClosed, "100", "110")
	seedOT(t, store, "ot2", "rubro1", entity.WorkOrderInExecution, "100", "100")

	result, err := newDeviationUC(store).DeviationsByProject(context.Background(), entity.RoleDirectorObra, "obra1")
	require.NoError(t, err)
	require.Len(t, result, 1)

	r := result[0]
	assert.Equal(t, 2, r.WorkOrders)
	assert.True(t, dec("200").Equal(r.EstimatedTotal))
	assert.True(t, dec("210").Equal(r.ActualTotal))
	assert.True(t, dec("10").Equal(r.Deviation))
	assert.True(t, dec("5").Equal(r.DeviationPercent), "fue %s", r.DeviationPercent)
	assert.Equal(t, domainbudget.SeverityWarning, r.Severity)
}

// Un rubro sin actividad igual aparece, con ceros y severidad ok.
func TestDeviationsByProject_RubroSinActividad(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store)
	seedCategory(t, store, "rubro1", "Hormigón")
	seedCategory(t, store, "rubro2", "Electricidad")
	seedOT(t, store, "ot1", "rubro1", entity.WorkOrderApproved, "100", "")

	result, err := newDeviationUC(store).DeviationsByProject(context.Background(), entity.RoleDirectorObra, "obra1")
	require.NoError(t, err)
	require.Len(t, result, 2)

	var electricidad *appbudget.CategoryDeviation
	for i := range result {
		if result[i].CategoryID == "rubro2" {
			electricidad = &result[i]
		}
	}
	require.NotNil(t, electricidad, "el rubro sin OTs debe estar presente")
	assert.Equal(t, 0, electricidad.WorkOrders)
	assert.True(t, electricidad.EstimatedTotal.IsZero())
	assert.True(t, electricidad.DeviationPercent.IsZero())
	assert.Equal(t, domainbudget.SeverityOK, electricidad.Severity)
}

// Borradores y eliminadas no comprometen gasto: quedan fuera del rollup.
func TestDeviationsByProject_ExcluyeBorradorYEliminadas(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store)
	seedCategory(t, store, "rubro1", "Hormigón")
	seedOT(t, store, "ot1", "rubro1", entity.WorkOrderDraft, "999", "999")
	seedOT(t, store, "ot2", "rubro1", entity.WorkOrderApproved, "50", "")
	seedOT(t, store, "ot3", "rubro1", entity.WorkOrderDraft, "500", "")
	require.NoError(t, store.WorkOrders().SoftDelete("ot3"))

	result, err := newDeviationUC(store).DeviationsByProject(context.Background(), entity.RoleDirectorObra, "obra1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].WorkOrders)
	assert.True(t, dec("50").Equal(result[0].EstimatedTotal))
}

// Estimado total 0 con gasto real: porcentaje exactamente 0, nunca NaN.
func TestDeviationsByProject_EstimadoCero(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store)
	seedCategory(t, store, "rubro1", "Hormigón")
	seedOT(t, store, "ot1", "rubro1", entity.WorkOrderClosed, "0", "500")

	result, err := newDeviationUC(store).DeviationsByProject(context.Background(), entity.RoleDirectorObra, "obra1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].DeviationPercent.IsZero())
	assert.True(t, dec("500").Equal(result[0].Deviation))
}

func TestDeviationsByProject_SeveridadAlert(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store)
	seedCategory(t, store, "rubro1", "Hormigón")
	seedOT(t, store, "ot1", "rubro1", entity.WorkOrderClosed, "100", "121")

	result, err := newDeviationUC(store).DeviationsByProject(context.Background(), entity.RoleDirectorObra, "obra1")
	require.NoError(t, err)
	assert.Equal(t, domainbudget.SeverityAlert, result[0].Severity)
}

func TestDeviationsByProject_RolSinPermiso(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store)

	_, err := newDeviationUC(store).DeviationsByProject(context.Background(), entity.RoleCapataz, "obra1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDeviationsByProject_ProyectoInexistente(t *testing.T) {
	store := memory.NewStore()

	_, err := newDeviationUC(store).DeviationsByProject(context.Background(), entity.RoleDirectorObra, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Rubros: captura de cotización ────────────────────────────────────────────

func TestCategorySave_CapturaCotizacion(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store)
	rates := &fakeRates{rate: dec("1450.75")}
	uc := appbudget.NewCategoryUseCase(store.Categories(), store.Projects(), rates)

	category, err := uc.Save(context.Background(), entity.RoleDirectorObra, appbudget.SaveInput{
		ProjectID: "obra1", Name: "Hormigón", BudgetUnits: dec("100"),
	})
	require.NoError(t, err)
	assert.True(t, dec("145075").Equal(category.BudgetPesos), "fue %s", category.BudgetPesos)
	assert.True(t, dec("1450.75").Equal(category.RateAtSave))
}

// La cotización capturada no se revisa: un save posterior con otra cotización
// solo afecta a ese save.
func TestCategorySave_CotizacionNoRetroactiva(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store)
	rates := &fakeRates{rate: dec("1000")}
	uc := appbudget.NewCategoryUseCase(store.Categories(), store.Projects(), rates)

	first, err := uc.Save(context.Background(), entity.RoleDirectorObra, appbudget.SaveInput{
		ProjectID: "obra1", Name: "Hormigón", BudgetUnits: dec("10"),
	})
	require.NoError(t, err)

	rates.rate = dec("2000")
	second, err := uc.Save(context.Background(), entity.RoleDirectorObra, appbudget.SaveInput{
		ProjectID: "obra1", Name: "Electricidad", BudgetUnits: dec("10"),
	})
	require.NoError(t, err)

	persisted, _ := store.Categories().GetByID(first.ID)
	assert.True(t, dec("10000").Equal(persisted.BudgetPesos), "el rubro viejo conserva su captura")
	assert.True(t, dec("20000").Equal(second.BudgetPesos))
}

func TestCategorySave_URNegativoRechazado(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store)
	uc := appbudget.NewCategoryUseCase(store.Categories(), store.Projects(), &fakeRates{rate: dec("1450")})

	_, err := uc.Save(context.Background(), entity.RoleDirectorObra, appbudget.SaveInput{
		ProjectID: "obra1", Name: "Hormigón", BudgetUnits: dec("-5"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	categories, _ := store.Categories().ListByProject("obra1")
	assert.Empty(t, categories, "la validación corta antes de persistir")
}

func TestCategorySave_RolSinPermiso(t *testing.T) {
	store := memory.NewStore()
	seedProject(t, store)
	uc := appbudget.NewCategoryUseCase(store.Categories(), store.Projects(), &fakeRates{rate: dec("1450")})

	_, err := uc.Save(context.Background(), entity.RoleJefeObra, appbudget.SaveInput{
		ProjectID: "obra1", Name: "Hormigón", BudgetUnits: dec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

package workorder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/obra-control/internal/application/costing"
	"github.com/tu-usuario/obra-control/internal/application/workorder"
	"github.com/tu-usuario/obra-control/internal/domain"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/infrastructure/memory"
)

type fakeViews struct{ paths []string }

func (f *fakeViews) Invalidate(path string) { f.paths = append(f.paths, path) }

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func seedOrder(t *testing.T, store *memory.Store, id string, state entity.WorkOrderState, estimated string) {
	t.Helper()
	require.NoError(t, store.WorkOrders().Create(&entity.WorkOrder{
		ID: id, ProjectID: "obra1", CategoryID: "rubro1",
		EstimatedCost: dec(estimated), State: state,
	}))
}

func TestApprove(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "ot1", entity.WorkOrderDraft, "100")
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	order, err := uc.Approve(context.Background(), entity.RoleDirectorObra, "ot1", true)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderApproved, order.State)
}

// Sin el flag de reconocimiento presupuestario la aprobación no procede.
func TestApprove_SinFlag(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "ot1", entity.WorkOrderDraft, "100")
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	_, err := uc.Approve(context.Background(), entity.RoleDirectorObra, "ot1", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// jefe_obra no aprueba: la política vive en un solo lugar y acá se consulta.
func TestApprove_RolSinPermiso(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "ot1", entity.WorkOrderDraft, "100")
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	_, err := uc.Approve(context.Background(), entity.RoleJefeObra, "ot1", true)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestStartExecution(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "ot1", entity.WorkOrderApproved, "100")
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	order, err := uc.StartExecution(context.Background(), entity.RoleJefeObra, "ot1")
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderInExecution, order.State)
}

func TestStartExecution_DesdeBorradorFalla(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "ot1", entity.WorkOrderDraft, "100")
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	_, err := uc.StartExecution(context.Background(), entity.RoleJefeObra, "ot1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

// Cierre con desvío: falla sin reconocimiento y procede con él, mismos inputs.
func TestClose_DesvioRequiereReconocimiento(t *testing.T) {
	store := memory.NewStore()
	views := &fakeViews{}
	seedOrder(t, store, "ot1", entity.WorkOrderInExecution, "40")
	require.NoError(t, store.Supplies().Create(&entity.Supply{
		ID: "cemento", Name: "Cemento", Unit: "bolsa", ReferencePrice: dec("5"),
	}))
	consumos := costing.NewConsumptionUseCase(store, views)
	_, err := consumos.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "cemento", QuantityConsumed: dec("10"),
	})
	require.NoError(t, err) // costo real 50 > estimado 40

	uc := workorder.NewLifecycleUseCase(store, views)

	_, err = uc.Close(context.Background(), entity.RoleDirectorObra, "ot1", false)
	assert.ErrorIs(t, err, domain.ErrDeviationUnacknowledged)

	order, _ := store.WorkOrders().GetByID("ot1")
	assert.Equal(t, entity.WorkOrderInExecution, order.State, "el cierre rechazado no muta estado")

	order, err = uc.Close(context.Background(), entity.RoleDirectorObra, "ot1", true)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderClosed, order.State)
	assert.True(t, dec("50").Equal(*order.ActualCost))
}

// Sin desvío el cierre no exige el flag.
func TestClose_SinDesvio(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "ot1", entity.WorkOrderInExecution, "100")
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	order, err := uc.Close(context.Background(), entity.RoleJefeObra, "ot1", false)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderClosed, order.State)
	require.NotNil(t, order.ActualCost)
	assert.True(t, order.ActualCost.IsZero())
}

func TestClose_DesdeAprobadaFalla(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "ot1", entity.WorkOrderApproved, "100")
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	_, err := uc.Close(context.Background(), entity.RoleDirectorObra, "ot1", true)
	require.Error(t, err)

	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, domain.CodeInvalidTransition, te.Code())
}

// Tras el cierre el costo queda congelado: un consumo posterior no entra.
func TestClose_CongelaCostoReal(t *testing.T) {
	store := memory.NewStore()
	views := &fakeViews{}
	seedOrder(t, store, "ot1", entity.WorkOrderInExecution, "100")
	uc := workorder.NewLifecycleUseCase(store, views)

	_, err := uc.Close(context.Background(), entity.RoleDirectorObra, "ot1", true)
	require.NoError(t, err)

	consumos := costing.NewConsumptionUseCase(store, views)
	require.NoError(t, store.Supplies().Create(&entity.Supply{
		ID: "cemento", Name: "Cemento", Unit: "bolsa", ReferencePrice: dec("5"),
	}))
	_, err = consumos.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "cemento", QuantityConsumed: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrWorkOrderClosed)

	order, _ := store.WorkOrders().GetByID("ot1")
	assert.True(t, order.ActualCost.IsZero(), "el costo cerrado no se recalcula")
}

func TestSoftDelete(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "ot1", entity.WorkOrderDraft, "100")
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	require.NoError(t, uc.SoftDelete(context.Background(), entity.RoleDirectorObra, "ot1"))

	_, err := uc.GetByID(context.Background(), "ot1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Una OC activa (no cancelada) bloquea la eliminación de la OT.
func TestSoftDelete_BloqueadaPorOCActiva(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "ot1", entity.WorkOrderDraft, "100")
	wo := "ot1"
	require.NoError(t, store.PurchaseOrders().Create(&entity.PurchaseOrder{
		ID: "oc1", ProjectID: "obra1", WorkOrderID: &wo,
		Supplier: "Corralón Mitre", State: entity.PurchaseOrderPending,
	}, nil))
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	err := uc.SoftDelete(context.Background(), entity.RoleDirectorObra, "ot1")
	assert.ErrorIs(t, err, domain.ErrWorkOrderReferenced)

	// cancelada la OC, la eliminación procede
	require.NoError(t, store.PurchaseOrders().UpdateState("oc1", entity.PurchaseOrderCancelled))
	assert.NoError(t, uc.SoftDelete(context.Background(), entity.RoleDirectorObra, "ot1"))
}

func TestSoftDelete_SoloDesdeBorrador(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "ot1", entity.WorkOrderApproved, "100")
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	err := uc.SoftDelete(context.Background(), entity.RoleDirectorObra, "ot1")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestSoftDelete_RolSinPermiso(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "ot1", entity.WorkOrderDraft, "100")
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	err := uc.SoftDelete(context.Background(), entity.RoleCapataz, "ot1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreate(t *testing.T) {
	store := memory.NewStore()
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	order, err := uc.Create(context.Background(), workorder.CreateInput{
		ProjectID: "obra1", CategoryID: "rubro1",
		Description: "Losa planta baja", EstimatedCost: dec("1500"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderDraft, order.State)
	assert.Nil(t, order.ActualCost, "el costo real es nulo hasta el primer recálculo")
}

func TestCreate_EstimadoNegativo(t *testing.T) {
	store := memory.NewStore()
	uc := workorder.NewLifecycleUseCase(store, &fakeViews{})

	_, err := uc.Create(context.Background(), workorder.CreateInput{
		ProjectID: "obra1", CategoryID: "rubro1", EstimatedCost: dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package costing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/obra-control/internal/application/costing"
	"github.com/tu-usuario/obra-control/internal/domain"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/infrastructure/memory"
)

// fakeViews registra los paths invalidados para verificar el callback.
type fakeViews struct{ paths []string }

func (f *fakeViews) Invalidate(path string) { f.paths = append(f.paths, path) }

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	store *memory.Store
	views *fakeViews
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{store: memory.NewStore(), views: &fakeViews{}}
}

func (f *fixture) seedSupply(id, reference string) {
	err := f.store.Supplies().Create(&entity.Supply{
		ID: id, Name: id, Unit: "kg", ReferencePrice: dec(reference),
	})
	if err != nil {
		panic(err)
	}
}

func (f *fixture) seedWorkOrder(id string, state entity.WorkOrderState, estimated string) {
	err := f.store.WorkOrders().Create(&entity.WorkOrder{
		ID: id, ProjectID: "obra1", CategoryID: "rubro1",
		EstimatedCost: dec(estimated), State: state,
	})
	if err != nil {
		panic(err)
	}
}

// seedReceivedLine crea una OC enviada atada a la OT con una línea recibida.
func (f *fixture) seedReceivedLine(ocID, otID, supplyID, price, ordered, received string) {
	wo := otID
	err := f.store.PurchaseOrders().Create(
		&entity.PurchaseOrder{ID: ocID, ProjectID: "obra1", WorkOrderID: &wo, Supplier: "Corralón Mitre", State: entity.PurchaseOrderSent},
		[]*entity.PurchaseOrderLine{{
			ID: ocID + "-l1", PurchaseOrderID: ocID, SupplyID: supplyID,
			UnitPrice: dec(price), QuantityOrdered: dec(ordered), QuantityReceived: dec(received),
		}},
	)
	if err != nil {
		panic(err)
	}
}

func TestRecomputeActualCost_SinConsumosEsCero(t *testing.T) {
	f := newFixture(t)
	f.seedWorkOrder("ot1", entity.WorkOrderInExecution, "100")
	uc := costing.NewRecomputeUseCase(f.store, f.views)

	cost, err := uc.RecomputeActualCost(context.Background(), "ot1")

	require.NoError(t, err)
	assert.True(t, cost.IsZero(), "sin consumos el costo real es 0, no nil ni error")

	order, _ := f.store.WorkOrders().GetByID("ot1")
	require.NotNil(t, order.ActualCost)
	assert.True(t, order.ActualCost.IsZero(), "el 0 también se persiste")
}

func TestRecomputeActualCost_PrecioReferencia(t *testing.T) {
	f := newFixture(t)
	f.seedSupply("cemento", "5")
	f.seedWorkOrder("ot1", entity.WorkOrderInExecution, "100")
	consumos := costing.NewConsumptionUseCase(f.store, f.views)
	_, err := consumos.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "cemento", QuantityConsumed: dec("10"),
	})
	require.NoError(t, err)

	cost, err := costing.NewRecomputeUseCase(f.store, f.views).RecomputeActualCost(context.Background(), "ot1")
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(cost), "10 unidades a precio de referencia 5, fue %s", cost)
}

// Dos OCs entregaron el mismo insumo a precios distintos: 5@10 y 5@20.
// El precio efectivo es el promedio ponderado 15; consumo de 8 => 120.
func TestRecomputeActualCost_PromedioPonderadoEntreOCs(t *testing.T) {
	f := newFixture(t)
	f.seedSupply("hierro", "99")
	f.seedWorkOrder("ot1", entity.WorkOrderInExecution, "100")
	f.seedReceivedLine("oc1", "ot1", "hierro", "10", "5", "5")
	f.seedReceivedLine("oc2", "ot1", "hierro", "20", "5", "5")
	consumos := costing.NewConsumptionUseCase(f.store, f.views)
	_, err := consumos.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "hierro", QuantityConsumed: dec("8"),
	})
	require.NoError(t, err)

	order, _ := f.store.WorkOrders().GetByID("ot1")
	require.NotNil(t, order.ActualCost)
	assert.True(t, dec("120").Equal(*order.ActualCost), "fue %s", order.ActualCost)
}

// Idempotencia: dos recálculos sin escrituras intermedias dan el mismo valor.
func TestRecomputeActualCost_Idempotente(t *testing.T) {
	f := newFixture(t)
	f.seedSupply("cemento", "7")
	f.seedWorkOrder("ot1", entity.WorkOrderInExecution, "100")
	consumos := costing.NewConsumptionUseCase(f.store, f.views)
	_, err := consumos.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "cemento", QuantityConsumed: dec("3"),
	})
	require.NoError(t, err)

	uc := costing.NewRecomputeUseCase(f.store, f.views)
	first, err := uc.RecomputeActualCost(context.Background(), "ot1")
	require.NoError(t, err)
	second, err := uc.RecomputeActualCost(context.Background(), "ot1")
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

// Upsert dos veces el mismo par (OT, insumo) => un solo registro con la
// última cantidad, nunca una fila duplicada.
func TestUpsertConsumption_SobrescribeNoDuplica(t *testing.T) {
	f := newFixture(t)
	f.seedSupply("arena", "2")
	f.seedWorkOrder("ot1", entity.WorkOrderInExecution, "100")
	uc := costing.NewConsumptionUseCase(f.store, f.views)

	_, err := uc.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "arena", QuantityConsumed: dec("10"),
	})
	require.NoError(t, err)
	_, err = uc.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "arena", QuantityConsumed: dec("4"),
	})
	require.NoError(t, err)

	records, err := f.store.Consumptions().ListByWorkOrder("ot1")
	require.NoError(t, err)
	require.Len(t, records, 1, "la segunda carga sobrescribe, no agrega")
	assert.True(t, dec("4").Equal(records[0].QuantityConsumed))

	order, _ := f.store.WorkOrders().GetByID("ot1")
	assert.True(t, dec("8").Equal(*order.ActualCost), "4 * referencia 2, fue %s", order.ActualCost)
}

// Borrar un consumo y recalcular elimina su contribución exacta.
func TestDeleteConsumption_SinResiduos(t *testing.T) {
	f := newFixture(t)
	f.seedSupply("cemento", "5")
	f.seedSupply("arena", "2")
	f.seedWorkOrder("ot1", entity.WorkOrderInExecution, "100")
	uc := costing.NewConsumptionUseCase(f.store, f.views)

	_, err := uc.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "cemento", QuantityConsumed: dec("10"),
	})
	require.NoError(t, err)
	arena, err := uc.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "arena", QuantityConsumed: dec("5"),
	})
	require.NoError(t, err)

	order, _ := f.store.WorkOrders().GetByID("ot1")
	require.True(t, dec("60").Equal(*order.ActualCost), "50 + 10, fue %s", order.ActualCost)

	require.NoError(t, uc.Delete(context.Background(), entity.RoleCapataz, arena.ID))

	order, _ = f.store.WorkOrders().GetByID("ot1")
	assert.True(t, dec("50").Equal(*order.ActualCost), "solo queda el cemento, fue %s", order.ActualCost)
}

// Una OT cerrada tiene el costo congelado: rechaza cargas nuevas.
func TestUpsertConsumption_OTCerradaRechaza(t *testing.T) {
	f := newFixture(t)
	f.seedSupply("cemento", "5")
	f.seedWorkOrder("ot1", entity.WorkOrderClosed, "100")
	uc := costing.NewConsumptionUseCase(f.store, f.views)

	_, err := uc.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "cemento", QuantityConsumed: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrWorkOrderClosed)
}

func TestUpsertConsumption_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.seedSupply("cemento", "5")
	f.seedWorkOrder("ot1", entity.WorkOrderInExecution, "100")
	uc := costing.NewConsumptionUseCase(f.store, f.views)

	_, err := uc.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "cemento", QuantityConsumed: dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa")

	_, err = uc.Upsert(context.Background(), "rol-inexistente", costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "cemento", QuantityConsumed: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "no-existe", SupplyID: "cemento", QuantityConsumed: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Toda mutación termina invalidando las vistas de la OT y del proyecto.
func TestUpsertConsumption_InvalidaVistas(t *testing.T) {
	f := newFixture(t)
	f.seedSupply("cemento", "5")
	f.seedWorkOrder("ot1", entity.WorkOrderInExecution, "100")
	uc := costing.NewConsumptionUseCase(f.store, f.views)

	_, err := uc.Upsert(context.Background(), entity.RoleCapataz, costing.UpsertInput{
		WorkOrderID: "ot1", SupplyID: "cemento", QuantityConsumed: dec("1"),
	})
	require.NoError(t, err)
	assert.Contains(t, f.views.paths, "/work-orders/ot1")
	assert.Contains(t, f.views.paths, "/projects/obra1")
}

func TestRecomputeActualCost_OTEliminadaEsNotFound(t *testing.T) {
	f := newFixture(t)
	f.seedWorkOrder("ot1", entity.WorkOrderDraft, "100")
	require.NoError(t, f.store.WorkOrders().SoftDelete("ot1"))

	_, err := costing.NewRecomputeUseCase(f.store, f.views).RecomputeActualCost(context.Background(), "ot1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

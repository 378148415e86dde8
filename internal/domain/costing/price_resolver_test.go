package costing_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/obra-control/internal/domain/costing"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func supply(id, reference string, observed *string) *entity.Supply {
	s := &entity.Supply{ID: id, Name: id, Unit: "kg", ReferencePrice: dec(reference)}
	if observed != nil {
		u := dec(*observed)
		s.UnitPrice = &u
	}
	return s
}

func line(supplyID, price, ordered, received string) *entity.PurchaseOrderLine {
	return &entity.PurchaseOrderLine{
		ID:               supplyID + "-" + price,
		SupplyID:         supplyID,
		UnitPrice:        dec(price),
		QuantityOrdered:  dec(ordered),
		QuantityReceived: dec(received),
	}
}

// Dos líneas del mismo insumo: 5 @ $10 y 5 @ $20 => promedio ponderado $15.
func TestWeightedAveragePrices_DosOCsMismoInsumo(t *testing.T) {
	prices := costing.WeightedAveragePrices([]*entity.PurchaseOrderLine{
		line("cemento", "10", "5", "5"),
		line("cemento", "20", "5", "5"),
	})

	require.Contains(t, prices, "cemento")
	assert.True(t, dec("15").Equal(prices["cemento"]),
		"el promedio ponderado de 5@10 y 5@20 debe ser 15, fue %s", prices["cemento"])
}

// Ponderación real: 1 @ $10 y 9 @ $20 => (10 + 180) / 10 = 19, no 15.
func TestWeightedAveragePrices_PonderaPorCantidad(t *testing.T) {
	prices := costing.WeightedAveragePrices([]*entity.PurchaseOrderLine{
		line("hierro", "10", "1", "1"),
		line("hierro", "20", "9", "9"),
	})

	assert.True(t, dec("19").Equal(prices["hierro"]), "fue %s", prices["hierro"])
}

// Líneas sin recepción no participan del promedio.
func TestWeightedAveragePrices_IgnoraLineasSinRecepcion(t *testing.T) {
	prices := costing.WeightedAveragePrices([]*entity.PurchaseOrderLine{
		line("arena", "100", "10", "0"),
	})

	assert.Empty(t, prices, "una línea con QuantityReceived = 0 no debe resolver precio")
}

func TestEffectivePrice_CadenaDeFallback(t *testing.T) {
	observed := "7"
	weighted := map[string]decimal.Decimal{"cemento": dec("15")}

	tests := []struct {
		name   string
		supply *entity.Supply
		want   string
	}{
		{"promedio ponderado manda", supply("cemento", "5", &observed), "15"},
		{"sin recepciones usa precio observado", supply("arena", "5", &observed), "7"},
		{"sin observado usa referencia", supply("arena", "5", nil), "5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := costing.EffectivePrice(tc.supply, weighted)
			assert.True(t, dec(tc.want).Equal(got), "esperado %s, fue %s", tc.want, got)
		})
	}
}

func TestEffectivePrice_SinInsumoEsCero(t *testing.T) {
	got := costing.EffectivePrice(nil, nil)
	assert.True(t, got.IsZero())
}

// Consumo {A: 10}, referencia de A = 5, sin recepciones => costo real 50.
func TestActualCost_SoloPrecioReferencia(t *testing.T) {
	records := []*entity.ConsumptionRecord{
		{ID: "c1", WorkOrderID: "ot1", SupplyID: "a", QuantityConsumed: dec("10")},
	}
	supplies := map[string]*entity.Supply{"a": supply("a", "5", nil)}

	got := costing.ActualCost(records, supplies, nil)
	assert.True(t, dec("50").Equal(got), "fue %s", got)
}

// Recibido 5 @ $10 y 5 @ $20, consumo de 8 unidades => 8 * 15 = 120.
func TestActualCost_PromedioPonderado(t *testing.T) {
	records := []*entity.ConsumptionRecord{
		{ID: "c1", WorkOrderID: "ot1", SupplyID: "a", QuantityConsumed: dec("8")},
	}
	supplies := map[string]*entity.Supply{"a": supply("a", "99", nil)}
	weighted := costing.WeightedAveragePrices([]*entity.PurchaseOrderLine{
		line("a", "10", "5", "5"),
		line("a", "20", "5", "5"),
	})

	got := costing.ActualCost(records, supplies, weighted)
	assert.True(t, dec("120").Equal(got), "fue %s", got)
}

// Conjunto vacío de consumos => 0, nunca error ni nil.
func TestActualCost_SinConsumosEsCero(t *testing.T) {
	got := costing.ActualCost(nil, nil, nil)
	assert.True(t, got.IsZero())
}

// Insumo sin precio en ninguna fuente => contribuye 0.
func TestActualCost_InsumoSinPrecio(t *testing.T) {
	records := []*entity.ConsumptionRecord{
		{ID: "c1", WorkOrderID: "ot1", SupplyID: "x", QuantityConsumed: dec("3")},
	}
	got := costing.ActualCost(records, map[string]*entity.Supply{"x": supply("x", "0", nil)}, nil)
	assert.True(t, got.IsZero())
}

// El costo real es independiente del orden de los consumos.
func TestActualCost_IndependienteDelOrden(t *testing.T) {
	supplies := map[string]*entity.Supply{
		"a": supply("a", "3", nil),
		"b": supply("b", "7", nil),
		"c": supply("c", "11", nil),
	}
	records := []*entity.ConsumptionRecord{
		{ID: "c1", SupplyID: "a", QuantityConsumed: dec("2")},
		{ID: "c2", SupplyID: "b", QuantityConsumed: dec("4")},
		{ID: "c3", SupplyID: "c", QuantityConsumed: dec("6")},
	}
	base := costing.ActualCost(records, supplies, nil)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]*entity.ConsumptionRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := costing.ActualCost(shuffled, supplies, nil)
		require.True(t, base.Equal(got), "el costo debe ser igual para cualquier orden: %s vs %s", base, got)
	}
}

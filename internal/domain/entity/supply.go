package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supply representa un insumo del catálogo (cemento, hierro, mano de obra...).
// ReferencePrice es el precio de lista del catálogo; UnitPrice es el último
// precio observado (nulo si nunca se compró). El motor de costos los usa como
// fallback cuando no hay recepciones de OC para resolver el precio efectivo.
type Supply struct {
	ID             string
	Name           string
	Unit           string // m3, kg, hora, unidad...
	ReferencePrice decimal.Decimal
	UnitPrice      *decimal.Decimal // último precio observado / override
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

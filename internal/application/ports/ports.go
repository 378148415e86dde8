// Package ports declara colaboradores externos del motor que la capa de
// aplicación consume pero no implementa.
package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ViewInvalidator avisa a la capa envolvente que refresque las vistas
// cacheadas de un path lógico (ej. /work-orders/{id}, /projects/{id}).
// El mecanismo concreto de cache queda fuera del motor.
type ViewInvalidator interface {
	Invalidate(path string)
}

// RateSource devuelve la cotización vigente de la UR (unidad indexada).
// Se lee una sola vez por save de rubro; nunca se revisa retroactivamente.
type RateSource interface {
	CurrentURRate(ctx context.Context) (decimal.Decimal, error)
}

// Package views implementa la notificación de invalidación de vistas cacheadas.
package views

import (
	"github.com/tu-usuario/obra-control/internal/application/ports"
	"github.com/tu-usuario/obra-control/pkg/logger"
)

var _ ports.ViewInvalidator = (*LogInvalidator)(nil)

// LogInvalidator registra cada invalidación en el log estructurado. No hay un
// cache HTTP delante todavía; cuando lo haya, este adaptador es el punto de
// enganche (purge de CDN, bus de eventos, etc.).
type LogInvalidator struct {
	log *logger.Logger
}

// NewLogInvalidator construye el invalidador.
func NewLogInvalidator(log *logger.Logger) *LogInvalidator {
	return &LogInvalidator{log: log}
}

// Invalidate anota el path lógico cuya vista quedó obsoleta.
func (i *LogInvalidator) Invalidate(path string) {
	i.log.Debug().Str("path", path).Msg("vista invalidada")
}

package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrUserNotFound            = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists      = errors.New("el email ya está registrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrInvalidTransition       = errors.New("transición de estado inválida")
	ErrDeviationUnacknowledged = errors.New("desviación de costo no reconocida")
	ErrWorkOrderReferenced     = errors.New("la orden de trabajo tiene órdenes de compra activas")
	ErrWorkOrderClosed         = errors.New("la orden de trabajo está cerrada: costo real congelado")
)

// CodeInvalidTransition es el código de negocio estable que reciben los
// callers para manejar programáticamente una transición ilegal.
const CodeInvalidTransition = "BIZ_001"

// TransitionError describe una transición rechazada por la máquina de estados
// de OT u OC. Satisface errors.Is(err, ErrInvalidTransition).
type TransitionError struct {
	Entity string // "orden_trabajo" | "orden_compra"
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: transición %s -> %s no permitida (%s)", e.Entity, e.From, e.To, CodeInvalidTransition)
}

// Is permite comparar con el sentinel ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// Code devuelve el código de negocio de la transición ilegal.
func (e *TransitionError) Code() string { return CodeInvalidTransition }

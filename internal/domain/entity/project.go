package entity

import "time"

// Project representa una obra (proyecto de construcción) que agrupa rubros,
// órdenes de trabajo y órdenes de compra.
type Project struct {
	ID        string
	Name      string
	Address   string
	Status    string // active, finished, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

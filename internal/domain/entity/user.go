package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin        = "admin"
	RoleDirectorObra = "director_obra" // director de proyecto
	RoleJefeObra     = "jefe_obra"     // jefe de obra / site manager
	RoleCapataz      = "capataz"       // registra consumos, no aprueba
)

// User representa un usuario del sistema (asignado a un proyecto).
type User struct {
	ID           string
	ProjectID    string // proyecto al que pertenece; vacío para admin global
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, director_obra, jefe_obra, capataz
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

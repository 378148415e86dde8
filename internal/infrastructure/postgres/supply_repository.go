package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/google/uuid"

	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

var _ repository.SupplyRepository = (*SupplyRepo)(nil)

// SupplyRepo implementación de SupplyRepository sobre PostgreSQL (usable con pool o tx).
type SupplyRepo struct {
	q Querier
}

// NewSupplyRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewSupplyRepository(q Querier) *SupplyRepo {
	return &SupplyRepo{q: q}
}

// Create persiste un insumo. name_normalized respalda la búsqueda sin acentos.
func (r *SupplyRepo) Create(supply *entity.Supply) error {
	if supply.ID == "" {
		supply.ID = uuid.New().String()
	}
	query := `
		INSERT INTO supplies (id, name, name_normalized, unit, reference_price, unit_price, created_at, updated_at)
		VALUES ($1, $2, lower(unaccent($2)), $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		supply.ID, supply.Name, supply.Unit, supply.ReferencePrice, supply.UnitPrice,
		supply.CreatedAt, supply.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create supply: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo por ID. nil si no existe.
func (r *SupplyRepo) GetByID(id string) (*entity.Supply, error) {
	query := `
		SELECT id, name, unit, reference_price, unit_price, created_at, updated_at
		FROM supplies WHERE id = $1`
	var s entity.Supply
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Name, &s.Unit, &s.ReferencePrice, &s.UnitPrice, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply: %w", err)
	}
	return &s, nil
}

// GetByIDs obtiene varios insumos de una vez (resolución de precios del motor).
func (r *SupplyRepo) GetByIDs(ids []string) (map[string]*entity.Supply, error) {
	out := make(map[string]*entity.Supply, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `
		SELECT id, name, unit, reference_price, unit_price, created_at, updated_at
		FROM supplies WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("get supplies: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s entity.Supply
		if err := rows.Scan(&s.ID, &s.Name, &s.Unit, &s.ReferencePrice, &s.UnitPrice, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan supply: %w", err)
		}
		out[s.ID] = &s
	}
	return out, rows.Err()
}

// Update actualiza nombre, unidad y precios.
func (r *SupplyRepo) Update(supply *entity.Supply) error {
	query := `
		UPDATE supplies
		SET name = $2, name_normalized = lower(unaccent($2)), unit = $3,
		    reference_price = $4, unit_price = $5, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		supply.ID, supply.Name, supply.Unit, supply.ReferencePrice, supply.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("update supply: %w", err)
	}
	return nil
}

// List busca por nombre normalizado (la consulta ya llega normalizada).
func (r *SupplyRepo) List(query string, limit, offset int) ([]*entity.Supply, error) {
	sql := `
		SELECT id, name, unit, reference_price, unit_price, created_at, updated_at
		FROM supplies
		WHERE $1 = '' OR name_normalized LIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), sql, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list supplies: %w", err)
	}
	defer rows.Close()
	var out []*entity.Supply
	for rows.Next() {
		var s entity.Supply
		if err := rows.Scan(&s.ID, &s.Name, &s.Unit, &s.ReferencePrice, &s.UnitPrice, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan supply: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

var _ repository.BudgetCategoryRepository = (*BudgetCategoryRepo)(nil)

// BudgetCategoryRepo implementación de BudgetCategoryRepository sobre
// PostgreSQL (usable con pool o tx).
type BudgetCategoryRepo struct {
	q Querier
}

// NewBudgetCategoryRepository construye el adaptador de rubros. Pasar pool o tx (Querier).
func NewBudgetCategoryRepository(q Querier) *BudgetCategoryRepo {
	return &BudgetCategoryRepo{q: q}
}

// Save inserta o actualiza el rubro completo, incluida la cotización capturada.
// Un save posterior recaptura cotización; los rubros ya guardados no se tocan.
func (r *BudgetCategoryRepo) Save(category *entity.BudgetCategory) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	query := `
		INSERT INTO budget_categories (id, project_id, name, budget_units, budget_pesos, rate_at_save, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    budget_units = EXCLUDED.budget_units,
		    budget_pesos = EXCLUDED.budget_pesos,
		    rate_at_save = EXCLUDED.rate_at_save,
		    updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.ProjectID, category.Name,
		category.BudgetUnits, category.BudgetPesos, category.RateAtSave,
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save budget category: %w", err)
	}
	return nil
}

// GetByID obtiene el rubro por ID, incluido el eliminado (el caller decide).
func (r *BudgetCategoryRepo) GetByID(id string) (*entity.BudgetCategory, error) {
	query := `
		SELECT id, project_id, name, budget_units, budget_pesos, rate_at_save, deleted, created_at, updated_at
		FROM budget_categories WHERE id = $1`
	var c entity.BudgetCategory
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.ProjectID, &c.Name, &c.BudgetUnits, &c.BudgetPesos,
		&c.RateAtSave, &c.Deleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get budget category: %w", err)
	}
	return &c, nil
}

// ListByProject lista los rubros no eliminados del proyecto.
func (r *BudgetCategoryRepo) ListByProject(projectID string) ([]*entity.BudgetCategory, error) {
	query := `
		SELECT id, project_id, name, budget_units, budget_pesos, rate_at_save, deleted, created_at, updated_at
		FROM budget_categories WHERE project_id = $1 AND NOT deleted ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list budget categories: %w", err)
	}
	defer rows.Close()
	var out []*entity.BudgetCategory
	for rows.Next() {
		var c entity.BudgetCategory
		err := rows.Scan(
			&c.ID, &c.ProjectID, &c.Name, &c.BudgetUnits, &c.BudgetPesos,
			&c.RateAtSave, &c.Deleted, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan budget category: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// SoftDelete marca el rubro como eliminado.
func (r *BudgetCategoryRepo) SoftDelete(id string) error {
	query := `UPDATE budget_categories SET deleted = true, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("soft delete budget category: %w", err)
	}
	return nil
}

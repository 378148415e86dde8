package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo implementación de WorkOrderRepository sobre PostgreSQL (usable con pool o tx).
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador de OTs. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// Create persiste una OT en borrador.
func (r *WorkOrderRepo) Create(order *entity.WorkOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO work_orders (id, project_id, category_id, description, estimated_cost, actual_cost, state, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.ProjectID, order.CategoryID, order.Description,
		order.EstimatedCost, order.ActualCost, string(order.State),
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create work order: %w", err)
	}
	return nil
}

// GetByID obtiene la OT por ID, incluida la eliminada (el caller decide).
func (r *WorkOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	query := `
		SELECT id, project_id, category_id, description, estimated_cost, actual_cost, state, deleted, created_at, updated_at
		FROM work_orders WHERE id = $1`
	order, err := scanWorkOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	return order, nil
}

// Update persiste descripción, estimado, costo real y estado.
func (r *WorkOrderRepo) Update(order *entity.WorkOrder) error {
	query := `
		UPDATE work_orders
		SET description = $2, estimated_cost = $3, actual_cost = $4, state = $5, updated_at = $6
		WHERE id = $1 AND NOT deleted`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Description, order.EstimatedCost, order.ActualCost,
		string(order.State), order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	return nil
}

// UpdateActualCost sobrescribe el costo real derivado. Único camino de
// escritura del cache: lo invoca cada recálculo del motor.
func (r *WorkOrderRepo) UpdateActualCost(id string, cost decimal.Decimal) error {
	query := `UPDATE work_orders SET actual_cost = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, cost)
	if err != nil {
		return fmt.Errorf("update actual cost: %w", err)
	}
	return nil
}

// ListByProject lista OTs no eliminadas del proyecto, filtrando por estados
// si se indican.
func (r *WorkOrderRepo) ListByProject(projectID string, states []entity.WorkOrderState) ([]*entity.WorkOrder, error) {
	stateStrings := make([]string, 0, len(states))
	for _, st := range states {
		stateStrings = append(stateStrings, string(st))
	}
	query := `
		SELECT id, project_id, category_id, description, estimated_cost, actual_cost, state, deleted, created_at, updated_at
		FROM work_orders
		WHERE project_id = $1 AND NOT deleted AND (cardinality($2::text[]) = 0 OR state = ANY($2))
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, projectID, stateStrings)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.WorkOrder
	for rows.Next() {
		order, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

// SoftDelete marca la OT como eliminada (terminal, solo desde borrador).
func (r *WorkOrderRepo) SoftDelete(id string) error {
	query := `UPDATE work_orders SET deleted = true, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("soft delete work order: %w", err)
	}
	return nil
}

func scanWorkOrder(row pgx.Row) (*entity.WorkOrder, error) {
	var (
		o     entity.WorkOrder
		state string
	)
	err := row.Scan(
		&o.ID, &o.ProjectID, &o.CategoryID, &o.Description,
		&o.EstimatedCost, &o.ActualCost, &state, &o.Deleted,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.State = entity.WorkOrderState(state)
	return &o, nil
}

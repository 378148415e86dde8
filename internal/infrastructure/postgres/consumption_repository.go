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

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo implementación de ConsumptionRepository sobre PostgreSQL
// (usable con pool o tx).
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador de consumos. Pasar pool o tx (Querier).
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

// Upsert inserta o sobrescribe el consumo del par (OT, insumo). El UNIQUE
// (work_order_id, supply_id) garantiza a lo sumo un registro por par aunque
// lleguen cargas concurrentes; ON CONFLICT sobrescribe cantidad y baseline.
// Devuelve el registro persistido (ID original si ya existía).
func (r *ConsumptionRepo) Upsert(record *entity.ConsumptionRecord) (*entity.ConsumptionRecord, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO consumption_records (id, work_order_id, supply_id, quantity_consumed, quantity_estimated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (work_order_id, supply_id) DO UPDATE
		SET quantity_consumed = EXCLUDED.quantity_consumed,
		    quantity_estimated = EXCLUDED.quantity_estimated,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, work_order_id, supply_id, quantity_consumed, quantity_estimated, created_at, updated_at`
	saved, err := scanConsumption(r.q.QueryRow(context.Background(), query,
		record.ID, record.WorkOrderID, record.SupplyID,
		record.QuantityConsumed, record.QuantityEstimated,
		record.CreatedAt, record.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert consumption: %w", err)
	}
	return saved, nil
}

// GetByID obtiene un consumo por ID. nil si no existe.
func (r *ConsumptionRepo) GetByID(id string) (*entity.ConsumptionRecord, error) {
	query := `
		SELECT id, work_order_id, supply_id, quantity_consumed, quantity_estimated, created_at, updated_at
		FROM consumption_records WHERE id = $1`
	record, err := scanConsumption(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consumption: %w", err)
	}
	return record, nil
}

// Delete elimina el consumo. Borrado físico: el recálculo posterior no debe
// ver residuo del registro.
func (r *ConsumptionRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM consumption_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete consumption: %w", err)
	}
	return nil
}

// ListByWorkOrder lista los consumos de una OT.
func (r *ConsumptionRepo) ListByWorkOrder(workOrderID string) ([]*entity.ConsumptionRecord, error) {
	query := `
		SELECT id, work_order_id, supply_id, quantity_consumed, quantity_estimated, created_at, updated_at
		FROM consumption_records WHERE work_order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list consumptions: %w", err)
	}
	defer rows.Close()
	var out []*entity.ConsumptionRecord
	for rows.Next() {
		record, err := scanConsumption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func scanConsumption(row pgx.Row) (*entity.ConsumptionRecord, error) {
	var c entity.ConsumptionRecord
	err := row.Scan(
		&c.ID, &c.WorkOrderID, &c.SupplyID, &c.QuantityConsumed,
		&c.QuantityEstimated, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

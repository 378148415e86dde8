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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL
// (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador de OCs. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la OC y sus líneas. La atomicidad real la da el Querier:
// bajo TxRunner ambos INSERT viajan en la misma transacción.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	ctx := context.Background()
	query := `
		INSERT INTO purchase_orders (id, project_id, work_order_id, supplier, state, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.ProjectID, order.WorkOrderID, order.Supplier,
		string(order.State), order.Total, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}
	lineQuery := `
		INSERT INTO purchase_order_lines (id, purchase_order_id, supply_id, unit_price, quantity_ordered, quantity_received, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, line := range lines {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.PurchaseOrderID = order.ID
		_, err := r.q.Exec(ctx, lineQuery,
			line.ID, line.PurchaseOrderID, line.SupplyID, line.UnitPrice,
			line.QuantityOrdered, line.QuantityReceived, line.CreatedAt, line.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("create purchase order line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la OC por ID. nil si no existe.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, project_id, work_order_id, supplier, state, total, created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	order, err := scanPurchaseOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return order, nil
}

// UpdateState persiste el nuevo estado. La validez de la transición ya la
// decidió la entidad; acá solo se escribe.
func (r *PurchaseOrderRepo) UpdateState(id string, state entity.PurchaseOrderState) error {
	query := `UPDATE purchase_orders SET state = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, string(state))
	if err != nil {
		return fmt.Errorf("update purchase order state: %w", err)
	}
	return nil
}

// ListByWorkOrder lista todas las OCs atadas a la OT, sin filtrar por estado.
func (r *PurchaseOrderRepo) ListByWorkOrder(workOrderID string) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, project_id, work_order_id, supplier, state, total, created_at, updated_at
		FROM purchase_orders WHERE work_order_id = $1 ORDER BY created_at`
	return r.list(query, workOrderID)
}

// ListByProject lista las OCs del proyecto con paginación.
func (r *PurchaseOrderRepo) ListByProject(projectID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, project_id, work_order_id, supplier, state, total, created_at, updated_at
		FROM purchase_orders WHERE project_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3`
	return r.list(query, projectID, limit, offset)
}

func (r *PurchaseOrderRepo) list(query string, args ...any) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.PurchaseOrder
	for rows.Next() {
		order, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var (
		o     entity.PurchaseOrder
		state string
	)
	err := row.Scan(
		&o.ID, &o.ProjectID, &o.WorkOrderID, &o.Supplier, &state,
		&o.Total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.State = entity.PurchaseOrderState(state)
	return &o, nil
}

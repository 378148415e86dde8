package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

var _ repository.PurchaseOrderLineRepository = (*PurchaseOrderLineRepo)(nil)

// PurchaseOrderLineRepo implementación de PurchaseOrderLineRepository sobre
// PostgreSQL (usable con pool o tx).
type PurchaseOrderLineRepo struct {
	q Querier
}

// NewPurchaseOrderLineRepository construye el adaptador de líneas de OC.
func NewPurchaseOrderLineRepository(q Querier) *PurchaseOrderLineRepo {
	return &PurchaseOrderLineRepo{q: q}
}

// GetByID obtiene una línea por ID. nil si no existe.
func (r *PurchaseOrderLineRepo) GetByID(id string) (*entity.PurchaseOrderLine, error) {
	query := `
		SELECT id, purchase_order_id, supply_id, unit_price, quantity_ordered, quantity_received, created_at, updated_at
		FROM purchase_order_lines WHERE id = $1`
	line, err := scanPurchaseOrderLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order line: %w", err)
	}
	return line, nil
}

// UpdateReceived fija la cantidad recibida de la línea. Fija, no acumula:
// reenviar la misma recepción deja el mismo valor.
func (r *PurchaseOrderLineRepo) UpdateReceived(id string, quantityReceived decimal.Decimal) error {
	query := `UPDATE purchase_order_lines SET quantity_received = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, quantityReceived)
	if err != nil {
		return fmt.Errorf("update quantity received: %w", err)
	}
	return nil
}

// ListByPurchaseOrder lista las líneas de una OC.
func (r *PurchaseOrderLineRepo) ListByPurchaseOrder(purchaseOrderID string) ([]*entity.PurchaseOrderLine, error) {
	query := `
		SELECT id, purchase_order_id, supply_id, unit_price, quantity_ordered, quantity_received, created_at, updated_at
		FROM purchase_order_lines WHERE purchase_order_id = $1 ORDER BY created_at`
	return r.list(query, purchaseOrderID)
}

// ListReceivedByWorkOrder junta las líneas con recepción (> 0) de todas las
// OCs atadas a la OT. Sin filtro por estado de la OC: lo recibido es material
// entregado aunque la OC cambie de estado después.
func (r *PurchaseOrderLineRepo) ListReceivedByWorkOrder(workOrderID string) ([]*entity.PurchaseOrderLine, error) {
	query := `
		SELECT l.id, l.purchase_order_id, l.supply_id, l.unit_price, l.quantity_ordered, l.quantity_received, l.created_at, l.updated_at
		FROM purchase_order_lines l
		JOIN purchase_orders po ON po.id = l.purchase_order_id
		WHERE po.work_order_id = $1 AND l.quantity_received > 0
		ORDER BY l.created_at`
	return r.list(query, workOrderID)
}

func (r *PurchaseOrderLineRepo) list(query string, args ...any) ([]*entity.PurchaseOrderLine, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	var out []*entity.PurchaseOrderLine
	for rows.Next() {
		line, err := scanPurchaseOrderLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func scanPurchaseOrderLine(row pgx.Row) (*entity.PurchaseOrderLine, error) {
	var l entity.PurchaseOrderLine
	err := row.Scan(
		&l.ID, &l.PurchaseOrderID, &l.SupplyID, &l.UnitPrice,
		&l.QuantityOrdered, &l.QuantityReceived, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

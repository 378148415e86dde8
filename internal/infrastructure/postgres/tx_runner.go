package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/obra-control/internal/application/costing"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

var _ costing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con los
// repositorios del motor atados a esa tx. Cada operación pública del motor es
// una unidad de trabajo por request: el aislamiento lo dan las garantías de
// fila de la base, no locks en proceso.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Sin reintentos: un fallo de persistencia sube al caller,
// reintentar un recálculo multi-paso aplicado a medias taparía corrupción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	workOrderRepo repository.WorkOrderRepository,
	consumptionRepo repository.ConsumptionRepository,
	lineRepo repository.PurchaseOrderLineRepository,
	supplyRepo repository.SupplyRepository,
	purchaseOrderRepo repository.PurchaseOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	workOrderRepo := NewWorkOrderRepository(tx)
	consumptionRepo := NewConsumptionRepository(tx)
	lineRepo := NewPurchaseOrderLineRepository(tx)
	supplyRepo := NewSupplyRepository(tx)
	purchaseOrderRepo := NewPurchaseOrderRepository(tx)

	if err := fn(workOrderRepo, consumptionRepo, lineRepo, supplyRepo, purchaseOrderRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

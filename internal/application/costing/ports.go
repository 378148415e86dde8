package costing

import (
	"context"

	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando los
// repositorios del motor atados a esa tx. Garantiza que el recálculo de costos
// y la transición de ciclo de vida que lo dispara sean atómicos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		workOrderRepo repository.WorkOrderRepository,
		consumptionRepo repository.ConsumptionRepository,
		lineRepo repository.PurchaseOrderLineRepository,
		supplyRepo repository.SupplyRepository,
		purchaseOrderRepo repository.PurchaseOrderRepository,
	) error) error
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Catálogo ─────────────────────────────────────────────────────────────────

// CreateSupplyRequest alta de insumo.
type CreateSupplyRequest struct {
	Name           string           `json:"name"`
	Unit           string           `json:"unit"`
	ReferencePrice decimal.Decimal  `json:"reference_price"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
}

// SupplyResponse insumo del catálogo.
type SupplyResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Unit           string           `json:"unit"`
	ReferencePrice decimal.Decimal  `json:"reference_price"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
}

// ── Obras y rubros ───────────────────────────────────────────────────────────

// CreateProjectRequest alta de obra.
type CreateProjectRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ProjectResponse obra.
type ProjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveCategoryRequest crea o actualiza un rubro; el presupuesto va en UR.
type SaveCategoryRequest struct {
	ID          string          `json:"id,omitempty"`
	ProjectID   string          `json:"project_id"`
	Name        string          `json:"name"`
	BudgetUnits decimal.Decimal `json:"budget_units"` // UR
}

// CategoryResponse rubro con presupuesto en UR y en pesos (capturado al save).
type CategoryResponse struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	Name        string          `json:"name"`
	BudgetUnits decimal.Decimal `json:"budget_units"`
	BudgetPesos decimal.Decimal `json:"budget_pesos"`
	RateAtSave  decimal.Decimal `json:"rate_at_save"`
}

// ── Órdenes de trabajo ───────────────────────────────────────────────────────

// CreateWorkOrderRequest alta de OT en borrador.
type CreateWorkOrderRequest struct {
	ProjectID     string          `json:"project_id"`
	CategoryID    string          `json:"category_id"`
	Description   string          `json:"description"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// ApproveWorkOrderRequest aprobación con reconocimiento presupuestario.
type ApproveWorkOrderRequest struct {
	AcknowledgeBudget bool `json:"acknowledge_budget"`
}

// CloseWorkOrderRequest cierre con reconocimiento de desvío.
type CloseWorkOrderRequest struct {
	AcknowledgeDeviation bool `json:"acknowledge_deviation"`
}

// WorkOrderResponse OT con costos.
type WorkOrderResponse struct {
	ID            string           `json:"id"`
	ProjectID     string           `json:"project_id"`
	CategoryID    string           `json:"category_id"`
	Description   string           `json:"description"`
	EstimatedCost decimal.Decimal  `json:"estimated_cost"`
	ActualCost    *decimal.Decimal `json:"actual_cost,omitempty"`
	State         string           `json:"state"`
}

// ── Órdenes de compra ────────────────────────────────────────────────────────

// PurchaseLineRequest línea de compra.
type PurchaseLineRequest struct {
	SupplyID        string          `json:"supply_id"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	QuantityOrdered decimal.Decimal `json:"quantity_ordered"`
}

// CreatePurchaseOrderRequest alta de OC en pendiente.
type CreatePurchaseOrderRequest struct {
	ProjectID   string                `json:"project_id"`
	WorkOrderID *string               `json:"work_order_id,omitempty"`
	Supplier    string                `json:"supplier"`
	Lines       []PurchaseLineRequest `json:"lines"`
}

// TransitionPurchaseOrderRequest transición explícita de estado.
type TransitionPurchaseOrderRequest struct {
	TargetState string `json:"target_state"`
}

// RecordReceiptRequest fija la cantidad recibida de una línea (no acumula).
type RecordReceiptRequest struct {
	QuantityReceived decimal.Decimal `json:"quantity_received"`
}

// PurchaseLineResponse línea de OC.
type PurchaseLineResponse struct {
	ID               string          `json:"id"`
	SupplyID         string          `json:"supply_id"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	QuantityOrdered  decimal.Decimal `json:"quantity_ordered"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
}

// PurchaseOrderResponse OC con total derivado.
type PurchaseOrderResponse struct {
	ID          string                 `json:"id"`
	ProjectID   string                 `json:"project_id"`
	WorkOrderID *string                `json:"work_order_id,omitempty"`
	Supplier    string                 `json:"supplier"`
	State       string                 `json:"state"`
	Total       decimal.Decimal        `json:"total"`
	Lines       []PurchaseLineResponse `json:"lines,omitempty"`
}

// ── Consumos ─────────────────────────────────────────────────────────────────

// UpsertConsumptionRequest registra (o sobrescribe) el consumo de un insumo.
type UpsertConsumptionRequest struct {
	SupplyID          string           `json:"supply_id"`
	QuantityConsumed  decimal.Decimal  `json:"quantity_consumed"`
	QuantityEstimated *decimal.Decimal `json:"quantity_estimated,omitempty"`
}

// ConsumptionResponse consumo registrado.
type ConsumptionResponse struct {
	ID                string           `json:"id"`
	WorkOrderID       string           `json:"work_order_id"`
	SupplyID          string           `json:"supply_id"`
	QuantityConsumed  decimal.Decimal  `json:"quantity_consumed"`
	QuantityEstimated *decimal.Decimal `json:"quantity_estimated,omitempty"`
}

// ── Desvíos ──────────────────────────────────────────────────────────────────

// CategoryDeviationResponse desvío de un rubro.
type CategoryDeviationResponse struct {
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	BudgetPesos      decimal.Decimal `json:"budget_pesos"`
	EstimatedTotal   decimal.Decimal `json:"estimated_total"`
	ActualTotal      decimal.Decimal `json:"actual_total"`
	Deviation        decimal.Decimal `json:"deviation"`
	DeviationPercent decimal.Decimal `json:"deviation_percent"`
	Severity         string          `json:"severity"` // ok | warning | alert
	WorkOrders       int             `json:"work_orders"`
}

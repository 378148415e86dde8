package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/obra-control/internal/application/dto"
	"github.com/tu-usuario/obra-control/internal/application/purchase"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
)

// PurchaseOrderHandler maneja el ciclo de vida de órdenes de compra (protegido).
type PurchaseOrderHandler struct {
	uc *purchase.LifecycleUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *purchase.LifecycleUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create crea una OC en pendiente con sus líneas.
// POST /api/purchase-orders
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]purchase.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, purchase.LineInput{
			SupplyID:        l.SupplyID,
			UnitPrice:       l.UnitPrice,
			QuantityOrdered: l.QuantityOrdered,
		})
	}
	order, err := h.uc.Create(c.Context(), GetRole(c), purchase.CreateInput{
		ProjectID:   in.ProjectID,
		WorkOrderID: in.WorkOrderID,
		Supplier:    in.Supplier,
		Lines:       lines,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseOrderResponse(order, nil))
}

// GetByID obtiene la OC con sus líneas.
// GET /api/purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	order, lines, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(order, lines))
}

// Transition mueve la OC a un estado destino explícito. Una transición fuera
// del grafo responde 409 con el código BIZ_001.
// POST /api/purchase-orders/:id/transition
func (h *PurchaseOrderHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionPurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Transition(c.Context(), GetRole(c), c.Params("id"), entity.PurchaseOrderState(in.TargetState))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(order, nil))
}

// RecordReceipt fija la cantidad recibida de una línea (no acumula) y dispara
// el recálculo de la OT atada. No cambia el estado de la OC.
// POST /api/purchase-orders/lines/:lineId/receipt
func (h *PurchaseOrderHandler) RecordReceipt(c *fiber.Ctx) error {
	var in dto.RecordReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.RecordReceipt(c.Context(), GetRole(c), c.Params("lineId"), in.QuantityReceived)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseLineResponse(line))
}

package http

import (
	"github.com/gofiber/fiber/v2"

	appcosting "github.com/tu-usuario/obra-control/internal/application/costing"
	"github.com/tu-usuario/obra-control/internal/application/dto"
)

// ConsumptionHandler maneja el registro de consumos de insumos (protegido).
type ConsumptionHandler struct {
	uc *appcosting.ConsumptionUseCase
}

// NewConsumptionHandler construye el handler.
func NewConsumptionHandler(uc *appcosting.ConsumptionUseCase) *ConsumptionHandler {
	return &ConsumptionHandler{uc: uc}
}

// Upsert registra (o sobrescribe) el consumo de un insumo en la OT y recalcula
// el costo real en la misma transacción.
// PUT /api/work-orders/:id/consumptions
func (h *ConsumptionHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertConsumptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	record, err := h.uc.Upsert(c.Context(), GetRole(c), appcosting.UpsertInput{
		WorkOrderID:       c.Params("id"),
		SupplyID:          in.SupplyID,
		QuantityConsumed:  in.QuantityConsumed,
		QuantityEstimated: in.QuantityEstimated,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toConsumptionResponse(record))
}

// Delete elimina un consumo y recalcula el costo real de su OT.
// DELETE /api/consumptions/:id
func (h *ConsumptionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetRole(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	appcosting "github.com/tu-usuario/obra-control/internal/application/costing"
	"github.com/tu-usuario/obra-control/internal/application/dto"
	"github.com/tu-usuario/obra-control/internal/application/workorder"
)

// WorkOrderHandler maneja el ciclo de vida de órdenes de trabajo (protegido).
type WorkOrderHandler struct {
	lifecycle *workorder.LifecycleUseCase
	recompute *appcosting.RecomputeUseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(lifecycle *workorder.LifecycleUseCase, recompute *appcosting.RecomputeUseCase) *WorkOrderHandler {
	return &WorkOrderHandler{lifecycle: lifecycle, recompute: recompute}
}

// Create crea una OT en borrador.
// POST /api/work-orders
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.lifecycle.Create(c.Context(), workorder.CreateInput{
		ProjectID:     in.ProjectID,
		CategoryID:    in.CategoryID,
		Description:   in.Description,
		EstimatedCost: in.EstimatedCost,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toWorkOrderResponse(order))
}

// GetByID obtiene una OT (las eliminadas responden 404).
// GET /api/work-orders/:id
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.lifecycle.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(order))
}

// Approve aprueba la OT. Exige el reconocimiento presupuestario explícito.
// POST /api/work-orders/:id/approve
func (h *WorkOrderHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.lifecycle.Approve(c.Context(), GetRole(c), c.Params("id"), in.AcknowledgeBudget)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(order))
}

// StartExecution pasa la OT a ejecución.
// POST /api/work-orders/:id/start
func (h *WorkOrderHandler) StartExecution(c *fiber.Ctx) error {
	order, err := h.lifecycle.StartExecution(c.Context(), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(order))
}

// Close cierra la OT. Recalcula el costo real final y, si excede el estimado,
// exige el reconocimiento explícito del desvío.
// POST /api/work-orders/:id/close
func (h *WorkOrderHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.lifecycle.Close(c.Context(), GetRole(c), c.Params("id"), in.AcknowledgeDeviation)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(order))
}

// SoftDelete elimina lógicamente la OT (solo borrador sin OCs activas).
// DELETE /api/work-orders/:id
func (h *WorkOrderHandler) SoftDelete(c *fiber.Ctx) error {
	if err := h.lifecycle.SoftDelete(c.Context(), GetRole(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Recompute fuerza el recálculo completo del costo real de la OT.
// POST /api/work-orders/:id/recompute
func (h *WorkOrderHandler) Recompute(c *fiber.Ctx) error {
	if _, err := h.recompute.RecomputeActualCost(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	order, err := h.lifecycle.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(order))
}

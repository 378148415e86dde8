package http

import (
	"github.com/gofiber/fiber/v2"

	appbudget "github.com/tu-usuario/obra-control/internal/application/budget"
	"github.com/tu-usuario/obra-control/internal/application/dto"
)

// CategoryHandler maneja las peticiones HTTP de rubros presupuestarios (protegido).
type CategoryHandler struct {
	uc *appbudget.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *appbudget.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// Save crea o actualiza un rubro. El presupuesto viaja en UR; la conversión a
// pesos captura la cotización vigente en este save.
// POST /api/categories
func (h *CategoryHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	category, err := h.uc.Save(c.Context(), GetRole(c), appbudget.SaveInput{
		ID:          in.ID,
		ProjectID:   in.ProjectID,
		Name:        in.Name,
		BudgetUnits: in.BudgetUnits,
	})
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if in.ID == "" {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(toCategoryResponse(category))
}

// ListByProject lista los rubros no eliminados de la obra.
// GET /api/projects/:id/categories
func (h *CategoryHandler) ListByProject(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	categories, err := h.uc.ListByProject(c.Context(), projectID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, toCategoryResponse(cat))
	}
	return c.JSON(out)
}

// SoftDelete marca un rubro como eliminado.
// DELETE /api/categories/:id
func (h *CategoryHandler) SoftDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.SoftDelete(c.Context(), GetRole(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

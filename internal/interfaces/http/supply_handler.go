package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/obra-control/internal/application/dto"
	"github.com/tu-usuario/obra-control/internal/application/usecase"
)

// SupplyHandler maneja las peticiones HTTP del catálogo de insumos (protegido).
type SupplyHandler struct {
	uc *usecase.SupplyUseCase
}

// NewSupplyHandler construye el handler.
func NewSupplyHandler(uc *usecase.SupplyUseCase) *SupplyHandler {
	return &SupplyHandler{uc: uc}
}

// Create da de alta un insumo.
// POST /api/supplies
func (h *SupplyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSupplyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	supply, err := h.uc.Create(usecase.CreateSupplyInput{
		Name:           in.Name,
		Unit:           in.Unit,
		ReferencePrice: in.ReferencePrice,
		UnitPrice:      in.UnitPrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSupplyResponse(supply))
}

// GetByID obtiene un insumo.
// GET /api/supplies/:id
func (h *SupplyHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	supply, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSupplyResponse(supply))
}

// List lista el catálogo; q busca por nombre sin distinguir acentos ni mayúsculas.
// GET /api/supplies?q=&limit=&offset=
func (h *SupplyHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	supplies, err := h.uc.List(c.Query("q"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SupplyResponse, 0, len(supplies))
	for _, s := range supplies {
		out = append(out, toSupplyResponse(s))
	}
	return c.JSON(out)
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/obra-control/internal/application/dto"
	"github.com/tu-usuario/obra-control/internal/domain"
)

// respondError traduce errores de dominio a status + ErrorResponse uniforme.
// Una transición ilegal lleva su código de negocio estable (BIZ_001) para
// manejo programático del cliente.
func respondError(c *fiber.Ctx, err error) error {
	var te *domain.TransitionError
	if errors.As(err, &te) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: te.Code(), Message: te.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrDeviationUnacknowledged):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DEVIATION_UNACKNOWLEDGED", Message: err.Error()})
	case errors.Is(err, domain.ErrWorkOrderReferenced):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "WORK_ORDER_REFERENCED", Message: err.Error()})
	case errors.Is(err, domain.ErrWorkOrderClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "WORK_ORDER_CLOSED", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

package http

import (
	"github.com/gofiber/fiber/v2"

	appbudget "github.com/tu-usuario/obra-control/internal/application/budget"
	"github.com/tu-usuario/obra-control/internal/application/dto"
)

// DeviationHandler expone el rollup de desvíos por rubro y su reporte PDF (protegido).
type DeviationHandler struct {
	deviations *appbudget.DeviationUseCase
	report     *appbudget.ReportUseCase
}

// NewDeviationHandler construye el handler.
func NewDeviationHandler(deviations *appbudget.DeviationUseCase, report *appbudget.ReportUseCase) *DeviationHandler {
	return &DeviationHandler{deviations: deviations, report: report}
}

// ListByProject devuelve los desvíos por rubro de la obra, una entrada por
// rubro aunque no tenga actividad.
// GET /api/projects/:id/deviations
func (h *DeviationHandler) ListByProject(c *fiber.Ctx) error {
	rows, err := h.deviations.DeviationsByProject(c.Context(), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CategoryDeviationResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, toDeviationResponse(d))
	}
	return c.JSON(out)
}

// ReportPDF devuelve el reporte de desvíos de la obra en PDF.
// GET /api/projects/:id/deviations/report
func (h *DeviationHandler) ReportPDF(c *fiber.Ctx) error {
	pdf, err := h.report.DeviationReportPDF(c.Context(), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="desvios.pdf"`)
	return c.Send(pdf)
}

// Package pdf implementa la generación del reporte de desvíos de obra.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la obra  │  Fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Rubro | Presupuesto | Estimado | Real | Desvío | %   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: estimado / real / desvío global                    │
//	│  FOOTER: leyenda de severidades                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbudget "github.com/tu-usuario/obra-control/internal/application/budget"
	domainbudget "github.com/tu-usuario/obra-control/internal/domain/budget"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning = &props.Color{Red: 180, Green: 120, Blue: 0}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa budget.DeviationReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateDeviationReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateDeviationReportPDF(
	_ context.Context,
	project *entity.Project,
	rows []appbudget.CategoryDeviation,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de desvíos de obra", true).
		WithAuthor(project.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(project, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDeviationRows(rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(rows))

	m.AddRows(line.NewRow(3))
	m.AddRows(legendRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la obra (izq) y fecha de generación (der).
func headerRow(project *entity.Project, generatedAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(project.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(project.Address, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE DESVÍOS POR RUBRO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de rubros.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Rubro", 3, align.Left),
		h("Presupuesto", 2, align.Right),
		h("Estimado", 2, align.Right),
		h("Real", 2, align.Right),
		h("Desvío", 2, align.Right),
		h("%", 1, align.Right),
	)
}

// tableDeviationRows: una fila por rubro, coloreada según severidad.
func tableDeviationRows(rows []appbudget.CategoryDeviation) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, d := range rows {
		color := severityColor(d.Severity)
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{
				Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
			}))
		}
		result = append(result, row.New(7).Add(
			cell(d.CategoryName, 3, align.Left),
			cell("$"+formatMoney(d.BudgetPesos.StringFixed(0)), 2, align.Right),
			cell("$"+formatMoney(d.EstimatedTotal.StringFixed(0)), 2, align.Right),
			cell("$"+formatMoney(d.ActualTotal.StringFixed(0)), 2, align.Right),
			cell("$"+formatMoney(d.Deviation.StringFixed(0)), 2, align.Right),
			cell(d.DeviationPercent.StringFixed(1), 1, align.Right),
		))
	}
	return result
}

// totalsRow: suma global de estimado, real y desvío.
func totalsRow(rows []appbudget.CategoryDeviation) core.Row {
	var estimated, actual decimal.Decimal
	for _, d := range rows {
		estimated = estimated.Add(d.EstimatedTotal)
		actual = actual.Add(d.ActualTotal)
	}
	deviation := actual.Sub(estimated)

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	return row.New(20).Add(
		col.New(4),
		col.New(4).Add(
			label("Estimado total:"),
			label("Real total:"),
			label("Desvío global:"),
		),
		col.New(4).Add(
			value("$"+formatMoney(estimated.StringFixed(0))),
			value("$"+formatMoney(actual.StringFixed(0))),
			value("$"+formatMoney(deviation.StringFixed(0))),
		),
	)
}

// legendRow: leyenda de severidades.
func legendRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("Severidad por rubro: ok (sin exceso), warning (exceso hasta %s%%), alert (exceso mayor al %s%%). "+
				"El porcentaje es sobre el costo estimado comprometido del rubro.",
				domainbudget.AlertThresholdPercent, domainbudget.AlertThresholdPercent),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func severityColor(s domainbudget.Severity) *props.Color {
	switch s {
	case domainbudget.SeverityAlert:
		return colorAlert
	case domainbudget.SeverityWarning:
		return colorWarning
	default:
		return nil // color por defecto del documento
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if neg {
		return "-" + string(buf)
	}
	return string(buf)
}

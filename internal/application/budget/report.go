package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/obra-control/internal/domain"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

// DeviationReportPDFGenerator genera la representación PDF del reporte de
// desvíos de una obra. La implementación concreta vive en infraestructura.
type DeviationReportPDFGenerator interface {
	GenerateDeviationReportPDF(ctx context.Context, project *entity.Project, rows []CategoryDeviation, generatedAt time.Time) ([]byte, error)
}

// ReportUseCase produce el reporte de desvíos descargable de una obra.
type ReportUseCase struct {
	deviations  *DeviationUseCase
	projectRepo repository.ProjectRepository
	generator   DeviationReportPDFGenerator
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(deviations *DeviationUseCase, projectRepo repository.ProjectRepository, generator DeviationReportPDFGenerator) *ReportUseCase {
	return &ReportUseCase{deviations: deviations, projectRepo: projectRepo, generator: generator}
}

// DeviationReportPDF calcula los desvíos del proyecto y devuelve el PDF.
// Autorización y existencia del proyecto las valida el agregador.
func (uc *ReportUseCase) DeviationReportPDF(ctx context.Context, actorRole, projectID string) ([]byte, error) {
	rows, err := uc.deviations.DeviationsByProject(ctx, actorRole, projectID)
	if err != nil {
		return nil, err
	}
	project, err := uc.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	pdf, err := uc.generator.GenerateDeviationReportPDF(ctx, project, rows, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generar reporte de desvíos: %w", err)
	}
	return pdf, nil
}

package usecase

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tu-usuario/obra-control/internal/domain"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

// SupplyUseCase gestión del catálogo de insumos. El motor de costos solo lee
// el catálogo; acá viven las altas y la búsqueda.
type SupplyUseCase struct {
	supplyRepo repository.SupplyRepository
}

// NewSupplyUseCase construye el caso de uso.
func NewSupplyUseCase(supplyRepo repository.SupplyRepository) *SupplyUseCase {
	return &SupplyUseCase{supplyRepo: supplyRepo}
}

// CreateSupplyInput entrada de alta de insumo.
type CreateSupplyInput struct {
	Name           string
	Unit           string
	ReferencePrice decimal.Decimal
	UnitPrice      *decimal.Decimal
}

// Create da de alta un insumo en el catálogo.
func (uc *SupplyUseCase) Create(in CreateSupplyInput) (*entity.Supply, error) {
	if in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ReferencePrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supply := &entity.Supply{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Unit:           in.Unit,
		ReferencePrice: in.ReferencePrice,
		UnitPrice:      in.UnitPrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.supplyRepo.Create(supply); err != nil {
		return nil, err
	}
	return supply, nil
}

// GetByID devuelve un insumo.
func (uc *SupplyUseCase) GetByID(id string) (*entity.Supply, error) {
	supply, err := uc.supplyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supply == nil {
		return nil, domain.ErrNotFound
	}
	return supply, nil
}

// List busca insumos. La consulta se normaliza sin acentos y en minúsculas
// para que "hormigon" encuentre "Hormigón" (catálogos en español).
func (uc *SupplyUseCase) List(query string, limit, offset int) ([]*entity.Supply, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.supplyRepo.List(NormalizeQuery(query), limit, offset)
}

// NormalizeQuery baja a minúsculas y elimina marcas diacríticas (NFD +
// remoción de Mn + NFC).
func NormalizeQuery(q string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, err := transform.String(t, q)
	if err != nil {
		normalized = q
	}
	return strings.ToLower(strings.TrimSpace(normalized))
}

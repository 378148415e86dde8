// Package memory implementa los puertos de repositorio del motor sobre mapas
// en memoria, con un TxRunner sin transaccionalidad real. Lo usan los tests de
// casos de uso y el modo de desarrollo sin PostgreSQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/domain/entity"
	"github.com/tu-usuario/obra-control/internal/domain/repository"
)

// Store contenedor en memoria de todas las colecciones del motor.
// Un mutex único: el objetivo es corrección en tests, no throughput.
type Store struct {
	mu             sync.Mutex
	supplies       map[string]*entity.Supply
	projects       map[string]*entity.Project
	categories     map[string]*entity.BudgetCategory
	workOrders     map[string]*entity.WorkOrder
	purchaseOrders map[string]*entity.PurchaseOrder
	lines          map[string]*entity.PurchaseOrderLine
	consumptions   map[string]*entity.ConsumptionRecord
	users          map[string]*entity.User
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		supplies:       make(map[string]*entity.Supply),
		projects:       make(map[string]*entity.Project),
		categories:     make(map[string]*entity.BudgetCategory),
		workOrders:     make(map[string]*entity.WorkOrder),
		purchaseOrders: make(map[string]*entity.PurchaseOrder),
		lines:          make(map[string]*entity.PurchaseOrderLine),
		consumptions:   make(map[string]*entity.ConsumptionRecord),
		users:          make(map[string]*entity.User),
	}
}

// Run implementa costing.TxRunner. Sin BD no hay rollback: fn opera directo
// sobre el store.
func (s *Store) Run(ctx context.Context, fn func(
	workOrderRepo repository.WorkOrderRepository,
	consumptionRepo repository.ConsumptionRepository,
	lineRepo repository.PurchaseOrderLineRepository,
	supplyRepo repository.SupplyRepository,
	purchaseOrderRepo repository.PurchaseOrderRepository,
) error) error {
	return fn(s.WorkOrders(), s.Consumptions(), s.Lines(), s.Supplies(), s.PurchaseOrders())
}

// Accessors de repos.

func (s *Store) Supplies() repository.SupplyRepository { return &supplyRepo{s} }
func (s *Store) Projects() repository.ProjectRepository { return &projectRepo{s} }
func (s *Store) Categories() repository.BudgetCategoryRepository { return &categoryRepo{s} }
func (s *Store) WorkOrders() repository.WorkOrderRepository { return &workOrderRepo{s} }
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository { return &purchaseOrderRepo{s} }
func (s *Store) Lines() repository.PurchaseOrderLineRepository { return &lineRepo{s} }
func (s *Store) Consumptions() repository.ConsumptionRepository { return &consumptionRepo{s} }
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// ── Supplies ─────────────────────────────────────────────────────────────────

type supplyRepo struct{ s *Store }

func (r *supplyRepo) Create(supply *entity.Supply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if supply.ID == "" {
		supply.ID = uuid.New().String()
	}
	r.s.supplies[supply.ID] = supply
	return nil
}

func (r *supplyRepo) GetByID(id string) (*entity.Supply, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.supplies[id], nil
}

func (r *supplyRepo) GetByIDs(ids []string) (map[string]*entity.Supply, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]*entity.Supply, len(ids))
	for _, id := range ids {
		if supply, ok := r.s.supplies[id]; ok {
			out[id] = supply
		}
	}
	return out, nil
}

func (r *supplyRepo) Update(supply *entity.Supply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.supplies[supply.ID] = supply
	return nil
}

func (r *supplyRepo) List(query string, limit, offset int) ([]*entity.Supply, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Supply
	for _, supply := range r.s.supplies {
		if query == "" || strings.Contains(strings.ToLower(supply.Name), query) {
			out = append(out, supply)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

// ── Projects ─────────────────────────────────────────────────────────────────

type projectRepo struct{ s *Store }

func (r *projectRepo) Create(project *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.projects[project.ID] = project
	return nil
}

func (r *projectRepo) GetByID(id string) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.projects[id], nil
}

func (r *projectRepo) List(limit, offset int) ([]*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Project
	for _, project := range r.s.projects {
		out = append(out, project)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

// ── Budget categories ────────────────────────────────────────────────────────

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Save(category *entity.BudgetCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.categories[category.ID] = category
	return nil
}

func (r *categoryRepo) GetByID(id string) (*entity.BudgetCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.categories[id], nil
}

func (r *categoryRepo) ListByProject(projectID string) ([]*entity.BudgetCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BudgetCategory
	for _, category := range r.s.categories {
		if category.ProjectID == projectID && !category.Deleted {
			out = append(out, category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepo) SoftDelete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if category, ok := r.s.categories[id]; ok {
		category.Deleted = true
	}
	return nil
}

// ── Work orders ──────────────────────────────────────────────────────────────

type workOrderRepo struct{ s *Store }

func (r *workOrderRepo) Create(order *entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.workOrders[order.ID] = order
	return nil
}

func (r *workOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.workOrders[id], nil
}

func (r *workOrderRepo) Update(order *entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.workOrders[order.ID] = order
	return nil
}

func (r *workOrderRepo) UpdateActualCost(id string, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if order, ok := r.s.workOrders[id]; ok {
		c := cost
		order.ActualCost = &c
		order.UpdatedAt = time.Now()
	}
	return nil
}

func (r *workOrderRepo) ListByProject(projectID string, states []entity.WorkOrderState) ([]*entity.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[entity.WorkOrderState]bool, len(states))
	for _, st := range states {
		wanted[st] = true
	}
	var out []*entity.WorkOrder
	for _, order := range r.s.workOrders {
		if order.ProjectID != projectID || order.Deleted {
			continue
		}
		if len(states) > 0 && !wanted[order.State] {
			continue
		}
		out = append(out, order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *workOrderRepo) SoftDelete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if order, ok := r.s.workOrders[id]; ok {
		order.Deleted = true
	}
	return nil
}

// ── Purchase orders ──────────────────────────────────────────────────────────

type purchaseOrderRepo struct{ s *Store }

func (r *purchaseOrderRepo) Create(order *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.purchaseOrders[order.ID] = order
	for _, line := range lines {
		r.s.lines[line.ID] = line
	}
	return nil
}

func (r *purchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.purchaseOrders[id], nil
}

func (r *purchaseOrderRepo) UpdateState(id string, state entity.PurchaseOrderState) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if order, ok := r.s.purchaseOrders[id]; ok {
		order.State = state
		order.UpdatedAt = time.Now()
	}
	return nil
}

func (r *purchaseOrderRepo) ListByWorkOrder(workOrderID string) ([]*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseOrder
	for _, order := range r.s.purchaseOrders {
		if order.WorkOrderID != nil && *order.WorkOrderID == workOrderID {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *purchaseOrderRepo) ListByProject(projectID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseOrder
	for _, order := range r.s.purchaseOrders {
		if order.ProjectID == projectID {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

// ── Purchase order lines ─────────────────────────────────────────────────────

type lineRepo struct{ s *Store }

func (r *lineRepo) GetByID(id string) (*entity.PurchaseOrderLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.lines[id], nil
}

func (r *lineRepo) UpdateReceived(id string, quantityReceived decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if line, ok := r.s.lines[id]; ok {
		line.QuantityReceived = quantityReceived
		line.UpdatedAt = time.Now()
	}
	return nil
}

func (r *lineRepo) ListByPurchaseOrder(purchaseOrderID string) ([]*entity.PurchaseOrderLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseOrderLine
	for _, line := range r.s.lines {
		if line.PurchaseOrderID == purchaseOrderID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *lineRepo) ListReceivedByWorkOrder(workOrderID string) ([]*entity.PurchaseOrderLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseOrderLine
	for _, line := range r.s.lines {
		order := r.s.purchaseOrders[line.PurchaseOrderID]
		if order == nil || order.WorkOrderID == nil || *order.WorkOrderID != workOrderID {
			continue
		}
		if line.QuantityReceived.GreaterThan(decimal.Zero) {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Consumptions ─────────────────────────────────────────────────────────────

type consumptionRepo struct{ s *Store }

// Upsert clave (OT, insumo): si existe sobrescribe cantidades, si no crea.
func (r *consumptionRepo) Upsert(record *entity.ConsumptionRecord) (*entity.ConsumptionRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.consumptions {
		if existing.WorkOrderID == record.WorkOrderID && existing.SupplyID == record.SupplyID {
			existing.QuantityConsumed = record.QuantityConsumed
			existing.QuantityEstimated = record.QuantityEstimated
			existing.UpdatedAt = time.Now()
			return existing, nil
		}
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	r.s.consumptions[record.ID] = record
	return record, nil
}

func (r *consumptionRepo) GetByID(id string) (*entity.ConsumptionRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.consumptions[id], nil
}

func (r *consumptionRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.consumptions, id)
	return nil
}

func (r *consumptionRepo) ListByWorkOrder(workOrderID string) ([]*entity.ConsumptionRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ConsumptionRecord
	for _, record := range r.s.consumptions {
		if record.WorkOrderID == workOrderID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users[id], nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

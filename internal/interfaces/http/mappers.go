package http

import (
	appbudget "github.com/tu-usuario/obra-control/internal/application/budget"
	"github.com/tu-usuario/obra-control/internal/application/dto"
	"github.com/tu-usuario/obra-control/internal/domain/entity"
)

// Mapeo entidad -> DTO de respuesta. La capa HTTP nunca expone entidades.

func toSupplyResponse(s *entity.Supply) dto.SupplyResponse {
	return dto.SupplyResponse{
		ID:             s.ID,
		Name:           s.Name,
		Unit:           s.Unit,
		ReferencePrice: s.ReferencePrice,
		UnitPrice:      s.UnitPrice,
	}
}

func toProjectResponse(p *entity.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
}

func toCategoryResponse(c *entity.BudgetCategory) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		ProjectID:   c.ProjectID,
		Name:        c.Name,
		BudgetUnits: c.BudgetUnits,
		BudgetPesos: c.BudgetPesos,
		RateAtSave:  c.RateAtSave,
	}
}

func toWorkOrderResponse(w *entity.WorkOrder) dto.WorkOrderResponse {
	return dto.WorkOrderResponse{
		ID:            w.ID,
		ProjectID:     w.ProjectID,
		CategoryID:    w.CategoryID,
		Description:   w.Description,
		EstimatedCost: w.EstimatedCost,
		ActualCost:    w.ActualCost,
		State:         string(w.State),
	}
}

func toPurchaseOrderResponse(o *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) dto.PurchaseOrderResponse {
	out := dto.PurchaseOrderResponse{
		ID:          o.ID,
		ProjectID:   o.ProjectID,
		WorkOrderID: o.WorkOrderID,
		Supplier:    o.Supplier,
		State:       string(o.State),
		Total:       o.Total,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, toPurchaseLineResponse(l))
	}
	return out
}

func toPurchaseLineResponse(l *entity.PurchaseOrderLine) dto.PurchaseLineResponse {
	return dto.PurchaseLineResponse{
		ID:               l.ID,
		SupplyID:         l.SupplyID,
		UnitPrice:        l.UnitPrice,
		QuantityOrdered:  l.QuantityOrdered,
		QuantityReceived: l.QuantityReceived,
	}
}

func toConsumptionResponse(r *entity.ConsumptionRecord) dto.ConsumptionResponse {
	return dto.ConsumptionResponse{
		ID:                r.ID,
		WorkOrderID:       r.WorkOrderID,
		SupplyID:          r.SupplyID,
		QuantityConsumed:  r.QuantityConsumed,
		QuantityEstimated: r.QuantityEstimated,
	}
}

func toDeviationResponse(d appbudget.CategoryDeviation) dto.CategoryDeviationResponse {
	return dto.CategoryDeviationResponse{
		CategoryID:       d.CategoryID,
		CategoryName:     d.CategoryName,
		BudgetPesos:      d.BudgetPesos,
		EstimatedTotal:   d.EstimatedTotal,
		ActualTotal:      d.ActualTotal,
		Deviation:        d.Deviation,
		DeviationPercent: d.DeviationPercent,
		Severity:         string(d.Severity),
		WorkOrders:       d.WorkOrders,
	}
}

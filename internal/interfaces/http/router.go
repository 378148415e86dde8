package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/obra-control/internal/application/auth"
	appbudget "github.com/tu-usuario/obra-control/internal/application/budget"
	appcosting "github.com/tu-usuario/obra-control/internal/application/costing"
	"github.com/tu-usuario/obra-control/internal/application/purchase"
	"github.com/tu-usuario/obra-control/internal/application/usecase"
	"github.com/tu-usuario/obra-control/internal/application/workorder"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SupplyUC      *usecase.SupplyUseCase
	ProjectUC     *usecase.ProjectUseCase
	CategoryUC    *appbudget.CategoryUseCase
	DeviationUC   *appbudget.DeviationUseCase
	ReportUC      *appbudget.ReportUseCase
	WorkOrderUC   *workorder.LifecycleUseCase
	PurchaseUC    *purchase.LifecycleUseCase
	ConsumptionUC *appcosting.ConsumptionUseCase
	RecomputeUC   *appcosting.RecomputeUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de insumos
	supplies := protected.Group("/supplies")
	supplyHandler := NewSupplyHandler(deps.SupplyUC)
	supplies.Post("/", supplyHandler.Create)
	supplies.Get("/", supplyHandler.List)
	supplies.Get("/:id", supplyHandler.GetByID)

	// Obras
	projects := protected.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projects.Post("/", projectHandler.Create)
	projects.Get("/", projectHandler.List)
	projects.Get("/:id", projectHandler.GetByID)

	// Rubros presupuestarios
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	protected.Post("/categories", categoryHandler.Save)
	protected.Delete("/categories/:id", categoryHandler.SoftDelete)
	projects.Get("/:id/categories", categoryHandler.ListByProject)

	// Desvíos por rubro
	deviationHandler := NewDeviationHandler(deps.DeviationUC, deps.ReportUC)
	projects.Get("/:id/deviations", deviationHandler.ListByProject)
	projects.Get("/:id/deviations/report", deviationHandler.ReportPDF)

	// Órdenes de trabajo
	workOrders := protected.Group("/work-orders")
	workOrderHandler := NewWorkOrderHandler(deps.WorkOrderUC, deps.RecomputeUC)
	workOrders.Post("/", workOrderHandler.Create)
	workOrders.Get("/:id", workOrderHandler.GetByID)
	workOrders.Post("/:id/approve", workOrderHandler.Approve)
	workOrders.Post("/:id/start", workOrderHandler.StartExecution)
	workOrders.Post("/:id/close", workOrderHandler.Close)
	workOrders.Post("/:id/recompute", workOrderHandler.Recompute)
	workOrders.Delete("/:id", workOrderHandler.SoftDelete)

	// Consumos
	consumptionHandler := NewConsumptionHandler(deps.ConsumptionUC)
	workOrders.Put("/:id/consumptions", consumptionHandler.Upsert)
	protected.Delete("/consumptions/:id", consumptionHandler.Delete)

	// Órdenes de compra
	purchases := protected.Group("/purchase-orders")
	purchaseHandler := NewPurchaseOrderHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/transition", purchaseHandler.Transition)
	purchases.Post("/lines/:lineId/receipt", purchaseHandler.RecordReceipt)
}

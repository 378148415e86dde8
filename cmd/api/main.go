package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/obra-control/internal/application/auth"
	appbudget "github.com/tu-usuario/obra-control/internal/application/budget"
	appcosting "github.com/tu-usuario/obra-control/internal/application/costing"
	"github.com/tu-usuario/obra-control/internal/application/purchase"
	"github.com/tu-usuario/obra-control/internal/application/usecase"
	"github.com/tu-usuario/obra-control/internal/application/workorder"
	infrapdf "github.com/tu-usuario/obra-control/internal/infrastructure/pdf"
	"github.com/tu-usuario/obra-control/internal/infrastructure/postgres"
	"github.com/tu-usuario/obra-control/internal/infrastructure/rates"
	"github.com/tu-usuario/obra-control/internal/infrastructure/views"
	httpRouter "github.com/tu-usuario/obra-control/internal/interfaces/http"
	"github.com/tu-usuario/obra-control/pkg/config"
	"github.com/tu-usuario/obra-control/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	supplyRepo := postgres.NewSupplyRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	categoryRepo := postgres.NewBudgetCategoryRepository(pool)
	workOrderRepo := postgres.NewWorkOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	invalidator := views.NewLogInvalidator(log)

	rateSource, err := rates.NewClient(cfg.URRate, log)
	if err != nil {
		log.Fatal().Err(err).Msg("origen de cotización UR")
	}

	supplyUC := usecase.NewSupplyUseCase(supplyRepo)
	projectUC := usecase.NewProjectUseCase(projectRepo)
	categoryUC := appbudget.NewCategoryUseCase(categoryRepo, projectRepo, rateSource)
	deviationUC := appbudget.NewDeviationUseCase(categoryRepo, workOrderRepo, projectRepo)
	reportUC := appbudget.NewReportUseCase(deviationUC, projectRepo, infrapdf.NewMarotoReportGenerator())
	workOrderUC := workorder.NewLifecycleUseCase(txRunner, invalidator)
	purchaseUC := purchase.NewLifecycleUseCase(txRunner, invalidator)
	consumptionUC := appcosting.NewConsumptionUseCase(txRunner, invalidator)
	recomputeUC := appcosting.NewRecomputeUseCase(txRunner, invalidator)
	authUC := auth.NewAuthUseCase(userRepo, projectRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Obra Control API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SupplyUC:      supplyUC,
		ProjectUC:     projectUC,
		CategoryUC:    categoryUC,
		DeviationUC:   deviationUC,
		ReportUC:      reportUC,
		WorkOrderUC:   workOrderUC,
		PurchaseUC:    purchaseUC,
		ConsumptionUC: consumptionUC,
		RecomputeUC:   recomputeUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

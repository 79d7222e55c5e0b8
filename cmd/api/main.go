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

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/application/picking"
	"github.com/jhoicas/Almacen-api/internal/application/tareas"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/allocation"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// backend agrupa los repositorios y el runner transaccional del storage elegido.
type backend struct {
	productoRepo   repository.ProductoRepository
	ubicacionRepo  repository.UbicacionRepository
	loteRepo       repository.LoteRepository
	inventarioRepo repository.InventarioRepository
	movimientoRepo repository.MovimientoRepository
	ordenRepo      repository.OrdenRepository
	pickingRepo    repository.PickingRepository
	tareaRepo      repository.TareaRepository
	incidenciaRepo repository.IncidenciaRepository
	usuarioRepo    repository.UsuarioRepository
	ledgerTx       ledger.TxRunner
	pickingTx      picking.TxRunner
	close          func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var be backend
	switch cfg.App.Storage {
	case "memory":
		store := memory.NewStore()
		tx := memory.NewTxRunner(store)
		be = backend{
			productoRepo:   memory.NewProductoRepository(store),
			ubicacionRepo:  memory.NewUbicacionRepository(store),
			loteRepo:       memory.NewLoteRepository(store),
			inventarioRepo: memory.NewInventarioRepository(store),
			movimientoRepo: memory.NewMovimientoRepository(store),
			ordenRepo:      memory.NewOrdenRepository(store),
			pickingRepo:    memory.NewPickingRepository(store),
			tareaRepo:      memory.NewTareaRepository(store),
			incidenciaRepo: memory.NewIncidenciaRepository(store),
			usuarioRepo:    memory.NewUsuarioRepository(store),
			ledgerTx:       tx,
			pickingTx:      tx,
			close:          func() {},
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		tx := postgres.NewTxRunner(pool)
		be = backend{
			productoRepo:   postgres.NewProductoRepository(pool),
			ubicacionRepo:  postgres.NewUbicacionRepository(pool),
			loteRepo:       postgres.NewLoteRepository(pool),
			inventarioRepo: postgres.NewInventarioRepository(pool),
			movimientoRepo: postgres.NewMovimientoRepository(pool),
			ordenRepo:      postgres.NewOrdenRepository(pool),
			pickingRepo:    postgres.NewPickingRepository(pool),
			tareaRepo:      postgres.NewTareaRepository(pool),
			incidenciaRepo: postgres.NewIncidenciaRepository(pool),
			usuarioRepo:    postgres.NewUsuarioRepository(pool),
			ledgerTx:       tx,
			pickingTx:      tx,
			close:          pool.Close,
		}
	}
	defer be.close()

	estrategia, err := allocation.Nueva(cfg.Fulfillment.AllocationStrategy)
	if err != nil {
		log.Fatal().Err(err).Str("estrategia", cfg.Fulfillment.AllocationStrategy).Msg("estrategia de asignación")
	}

	ledgerUC := ledger.New(be.ledgerTx)
	pickingUC := picking.New(be.pickingTx, ledgerUC, estrategia, be.pickingRepo, picking.Politica{
		CriterioCompletitud:   cfg.Fulfillment.CompletionCriterion,
		PermitirCierreForzado: cfg.Fulfillment.AllowForceComplete,
	})
	ordenesUC := orders.New(be.pickingTx, pickingUC, ledgerUC,
		be.ordenRepo, be.productoRepo, be.loteRepo, be.pickingRepo,
		orders.Politica{
			PermitirCompromisoParcial: cfg.Fulfillment.AllowPartialCommit,
			CriterioCompletitud:       cfg.Fulfillment.CompletionCriterion,
		})

	productoUC := usecase.NewProductoUseCase(be.productoRepo, be.inventarioRepo)
	ubicacionUC := usecase.NewUbicacionUseCase(be.ubicacionRepo, be.inventarioRepo)
	loteUC := usecase.NewLoteUseCase(be.loteRepo, be.productoRepo, ledgerUC)
	movimientoUC := usecase.NewMovimientoUseCase(be.movimientoRepo)
	tareasUC := tareas.New(be.tareaRepo, be.incidenciaRepo)
	authUC := auth.New(be.usuarioRepo, auth.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		ExpMinutes: cfg.JWT.Expiration,
	})

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(httpRouter.MetricsMiddleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", httpRouter.MetricsHandler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductoUC:   productoUC,
		UbicacionUC:  ubicacionUC,
		LoteUC:       loteUC,
		MovimientoUC: movimientoUC,
		LedgerUC:     ledgerUC,
		OrdenesUC:    ordenesUC,
		PickingUC:    pickingUC,
		TareasUC:     tareasUC,
		AuthUC:       authUC,
		PDFGenerator: pdfGenerator,
		OrdenRepo:    be.ordenRepo,
		ProductoRepo: be.productoRepo,
		UbicRepo:     be.ubicacionRepo,
		LoteRepo:     be.loteRepo,
		Criterio:     cfg.Fulfillment.CompletionCriterion,
		JWTSecret:    cfg.JWT.Secret,
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

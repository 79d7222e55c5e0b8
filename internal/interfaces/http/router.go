package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/application/picking"
	"github.com/jhoicas/Almacen-api/internal/application/tareas"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductoUC   *usecase.ProductoUseCase
	UbicacionUC  *usecase.UbicacionUseCase
	LoteUC       *usecase.LoteUseCase
	MovimientoUC *usecase.MovimientoUseCase
	LedgerUC     *ledger.UseCase
	OrdenesUC    *orders.UseCase
	PickingUC    *picking.UseCase
	TareasUC     *tareas.UseCase
	AuthUC       *auth.UseCase
	PDFGenerator picking.ListPDFGenerator
	OrdenRepo    repository.OrdenRepository
	ProductoRepo repository.ProductoRepository
	UbicRepo     repository.UbicacionRepository
	LoteRepo     repository.LoteRepository
	Criterio     string
	JWTSecret    string
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

	// Escrituras de catálogo y ciclo de vida de órdenes exigen rol elevado;
	// el operador de piso solo consulta y avanza sus tareas.
	gestion := RequireRole(entity.RolAdmin, entity.RolSupervisor)

	// Productos (protegido)
	productos := protected.Group("/productos")
	productoHandler := NewProductoHandler(deps.ProductoUC, deps.LoteUC)
	productos.Post("/", gestion, productoHandler.Create)
	productos.Get("/", productoHandler.List)
	productos.Get("/:id", productoHandler.GetByID)
	productos.Put("/:id", gestion, productoHandler.Update)
	productos.Patch("/:id/estado", gestion, productoHandler.CambiarEstado)
	productos.Patch("/:id/desactivar", gestion, productoHandler.Desactivar)
	productos.Get("/:id/stock", productoHandler.GetStock)
	productos.Get("/:id/lotes", productoHandler.ListLotes)

	// Ubicaciones (protegido)
	ubicaciones := protected.Group("/ubicaciones")
	ubicacionHandler := NewUbicacionHandler(deps.UbicacionUC)
	ubicaciones.Post("/", gestion, ubicacionHandler.Create)
	ubicaciones.Get("/", ubicacionHandler.List)
	ubicaciones.Get("/:id", ubicacionHandler.GetByID)
	ubicaciones.Put("/:id", gestion, ubicacionHandler.Update)

	// Lotes (protegido)
	lotes := protected.Group("/lotes")
	loteHandler := NewLoteHandler(deps.LoteUC)
	lotes.Post("/", gestion, loteHandler.Create)
	lotes.Get("/", loteHandler.List)
	lotes.Get("/:id", loteHandler.GetByID)
	lotes.Patch("/:id/ajustar-cantidad", gestion, loteHandler.Ajustar)
	lotes.Patch("/:id/reservar", loteHandler.Reservar)
	lotes.Patch("/:id/liberar", loteHandler.Liberar)
	lotes.Patch("/:id/cambiar-estado", gestion, loteHandler.CambiarEstado)

	// Movimientos de inventario (protegido)
	movimientos := protected.Group("/movimientos-inventario")
	movimientoHandler := NewMovimientoHandler(deps.MovimientoUC, deps.LedgerUC)
	movimientos.Get("/", movimientoHandler.List)
	movimientos.Get("/export", movimientoHandler.Export)
	movimientos.Post("/ajuste", gestion, movimientoHandler.Ajuste)
	movimientos.Post("/reserva", movimientoHandler.Reserva)
	movimientos.Post("/liberacion", movimientoHandler.Liberacion)
	movimientos.Post("/traslado", movimientoHandler.Traslado)
	movimientos.Get("/:id", movimientoHandler.GetByID)

	// Órdenes de salida (protegido)
	ordenes := protected.Group("/ordenes-salida")
	ordenHandler := NewOrdenHandler(deps.OrdenesUC, deps.Criterio)
	ordenes.Post("/", ordenHandler.Create)
	ordenes.Get("/", ordenHandler.List)
	ordenes.Get("/:id", ordenHandler.GetByID)
	ordenes.Patch("/:id/confirmar", gestion, ordenHandler.Confirmar)
	ordenes.Patch("/:id/cancelar", gestion, ordenHandler.Cancelar)

	// Picking (protegido)
	pickingGroup := protected.Group("/picking")
	pickingHandler := NewPickingHandler(deps.PickingUC, deps.PDFGenerator,
		deps.OrdenRepo, deps.ProductoRepo, deps.UbicRepo, deps.LoteRepo)
	pickingGroup.Post("/", gestion, pickingHandler.Create)
	pickingGroup.Get("/", pickingHandler.List)
	pickingGroup.Get("/:id", pickingHandler.GetByID)
	pickingGroup.Get("/:id/pdf", pickingHandler.GetPDF)
	pickingGroup.Patch("/:id/asignar", gestion, pickingHandler.Asignar)
	pickingGroup.Patch("/:id/iniciar", pickingHandler.Iniciar)
	pickingGroup.Patch("/:id/pausar", pickingHandler.Pausar)
	pickingGroup.Put("/:id", pickingHandler.RegistrarPicks)
	pickingGroup.Patch("/:id/completar", pickingHandler.Completar)
	pickingGroup.Patch("/:id/cancelar", gestion, pickingHandler.Cancelar)

	// Tareas e incidencias (protegido)
	tareaHandler := NewTareaHandler(deps.TareasUC)
	tareasGroup := protected.Group("/tareas")
	tareasGroup.Post("/", tareaHandler.CreateTarea)
	tareasGroup.Get("/", tareaHandler.ListTareas)
	tareasGroup.Get("/:id", tareaHandler.GetTarea)
	tareasGroup.Patch("/:id/asignar", tareaHandler.AsignarTarea)
	tareasGroup.Patch("/:id/estado", tareaHandler.CambiarEstadoTarea)

	incidencias := protected.Group("/incidencias")
	incidencias.Post("/", tareaHandler.CreateIncidencia)
	incidencias.Get("/", tareaHandler.ListIncidencias)
	incidencias.Patch("/:id/resolver", tareaHandler.ResolverIncidencia)
}

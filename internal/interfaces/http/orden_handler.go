package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// OrdenHandler maneja el ciclo de vida HTTP de las órdenes de salida.
type OrdenHandler struct {
	uc       *orders.UseCase
	criterio string
}

func NewOrdenHandler(uc *orders.UseCase, criterio string) *OrdenHandler {
	if criterio == "" {
		criterio = entity.CriterioSolicitada
	}
	return &OrdenHandler{uc: uc, criterio: criterio}
}

// Create godoc
// @Summary      Crear orden de salida
// @Tags         ordenes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrdenRequest  true  "Orden con sus líneas"
// @Success      201   {object}  dto.OrdenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ordenes-salida [post]
func (h *OrdenHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrdenRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lineas := make([]orders.LineaInput, 0, len(in.Detalles))
	for _, d := range in.Detalles {
		lineas = append(lineas, orders.LineaInput{
			ProductoID:     d.ProductoID,
			CantSolicitada: d.CantSolicitada,
			LotePreferente: d.LotePreferente,
		})
	}
	orden, err := h.uc.Crear(c.UserContext(), orders.CrearInput{
		Cliente:         in.Cliente,
		FechaCompromiso: in.FechaCompromiso,
		Prioridad:       in.Prioridad,
		Lineas:          lineas,
		CreadoPor:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	ordenesCreadasTotal.Inc()
	return c.Status(fiber.StatusCreated).JSON(h.toResponse(orden))
}

// List godoc
// @Summary      Listar órdenes de salida
// @Tags         ordenes
// @Security     Bearer
// @Produce      json
// @Param        estado    query  string  false  "Estado de la orden"
// @Param        cliente   query  string  false  "Cliente"
// @Param        page      query  int     false  "Página"     default(1)
// @Param        per_page  query  int     false  "Por página" default(20)
// @Success      200  {object}  dto.PagedResponse
// @Router       /api/ordenes-salida [get]
func (h *OrdenHandler) List(c *fiber.Ctx) error {
	page := parsePage(c)
	filtro := repository.OrdenFiltro{
		Estado:  c.Query("estado"),
		Cliente: c.Query("cliente"),
		Limit:   page.PerPage,
		Offset:  page.Offset(),
	}
	ordenes, total, err := h.uc.List(c.UserContext(), filtro)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.OrdenResponse, 0, len(ordenes))
	for _, o := range ordenes {
		items = append(items, *h.toResponse(o))
	}
	return c.JSON(dto.NewPagedResponse(items, page, total))
}

// GetByID godoc
// @Summary      Obtener orden con métricas de avance
// @Tags         ordenes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrdenDetalladaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ordenes-salida/{id} [get]
func (h *OrdenHandler) GetByID(c *fiber.Ctx) error {
	orden, m, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OrdenDetalladaResponse{
		OrdenResponse: *h.toResponse(orden),
		Metricas: dto.MetricasOrdenResponse{
			TotalLineas:          m.TotalLineas,
			LineasCompletas:      m.LineasCompletas,
			PorcentajeCompletado: m.PorcentajeCompletado,
			TotalPickings:        m.TotalPickings,
		},
	})
}

// Confirmar godoc
// @Summary      Confirmar orden: reservar stock y generar tarea de picking
// @Description  Transición CREADA → EN_PICKING. Reserva por línea según la
// @Description  estrategia configurada; según la política, un faltante aborta
// @Description  o compromete lo disponible.
// @Tags         ordenes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrdenResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-salida/{id}/confirmar [patch]
func (h *OrdenHandler) Confirmar(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Confirmar(c.UserContext(), id, GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	ordenesConfirmadasTotal.Inc()
	orden, _, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.toResponse(orden))
}

// Cancelar godoc
// @Summary      Cancelar orden y liberar reservas pendientes
// @Tags         ordenes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrdenResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-salida/{id}/cancelar [patch]
func (h *OrdenHandler) Cancelar(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Cancelar(c.UserContext(), id, GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	ordenesCanceladasTotal.Inc()
	orden, _, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.toResponse(orden))
}

func (h *OrdenHandler) toResponse(o *entity.OrdenSalida) *dto.OrdenResponse {
	detalles := make([]dto.DetalleOrdenResponse, 0, len(o.Detalles))
	for _, d := range o.Detalles {
		detalles = append(detalles, dto.DetalleOrdenResponse{
			ID:               d.ID,
			ProductoID:       d.ProductoID,
			LotePreferente:   d.LotePreferente,
			CantSolicitada:   d.CantSolicitada,
			CantComprometida: d.CantComprometida,
			CantPickeada:     d.CantPickeada,
			Completa:         d.Completa(h.criterio),
		})
	}
	return &dto.OrdenResponse{
		ID:              o.ID,
		Cliente:         o.Cliente,
		Prioridad:       o.Prioridad,
		FechaCompromiso: o.FechaCompromiso,
		Estado:          o.Estado,
		CreadoPor:       o.CreadoPor,
		Detalles:        detalles,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

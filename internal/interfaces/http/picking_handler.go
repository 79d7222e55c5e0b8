package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/picking"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// PickingHandler maneja las tareas de picking: creación, avance y cierre.
// Para el PDF resuelve los UUIDs de los detalles a códigos legibles.
type PickingHandler struct {
	uc        *picking.UseCase
	pdf       picking.ListPDFGenerator
	ordenRepo repository.OrdenRepository
	prodRepo  repository.ProductoRepository
	ubicRepo  repository.UbicacionRepository
	loteRepo  repository.LoteRepository
}

func NewPickingHandler(
	uc *picking.UseCase,
	pdf picking.ListPDFGenerator,
	ordenRepo repository.OrdenRepository,
	prodRepo repository.ProductoRepository,
	ubicRepo repository.UbicacionRepository,
	loteRepo repository.LoteRepository,
) *PickingHandler {
	return &PickingHandler{
		uc:        uc,
		pdf:       pdf,
		ordenRepo: ordenRepo,
		prodRepo:  prodRepo,
		ubicRepo:  ubicRepo,
		loteRepo:  loteRepo,
	}
}

// Create godoc
// @Summary      Crear tarea de picking adicional para una orden EN_PICKING
// @Description  Reintenta reservar el faltante de las líneas cortas de la
// @Description  orden y genera una nueva tarea con lo conseguido.
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePickingRequest  true  "Orden y operador opcional"
// @Success      201   {object}  dto.PickingResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/picking [post]
func (h *PickingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePickingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tarea, err := h.uc.CrearTarea(c.UserContext(), in.OrdenID, in.AsignadoA, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPickingResponse(tarea))
}

// List godoc
// @Summary      Listar tareas de picking
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        estado    query  string  false  "Estado de la tarea"
// @Param        page      query  int     false  "Página"     default(1)
// @Param        per_page  query  int     false  "Por página" default(20)
// @Success      200  {object}  dto.PagedResponse
// @Router       /api/picking [get]
func (h *PickingHandler) List(c *fiber.Ctx) error {
	page := parsePage(c)
	tareas, total, err := h.uc.List(c.UserContext(), c.Query("estado"), page.PerPage, page.Offset())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.PickingResponse, 0, len(tareas))
	for _, t := range tareas {
		items = append(items, *toPickingResponse(t))
	}
	return c.JSON(dto.NewPagedResponse(items, page, total))
}

// GetByID godoc
// @Summary      Obtener tarea de picking por ID
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.PickingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/picking/{id} [get]
func (h *PickingHandler) GetByID(c *fiber.Ctx) error {
	tarea, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPickingResponse(tarea))
}

// GetPDF godoc
// @Summary      Lista de picking imprimible en PDF
// @Tags         picking
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/picking/{id}/pdf [get]
func (h *PickingHandler) GetPDF(c *fiber.Ctx) error {
	tarea, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	orden, err := h.ordenRepo.GetByID(tarea.OrdenID)
	if err != nil {
		return respondError(c, err)
	}
	if orden == nil {
		return respondError(c, domain.ErrNotFound)
	}
	detalles, err := h.resolverDetalles(tarea)
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.pdf.GeneratePickingListPDF(c.UserContext(), tarea, orden, detalles)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="picking_%s.pdf"`, tarea.ID))
	return c.Send(data)
}

// resolverDetalles traduce los UUIDs del detalle a códigos para el PDF.
func (h *PickingHandler) resolverDetalles(tarea *entity.Picking) ([]picking.DetallePDF, error) {
	out := make([]picking.DetallePDF, 0, len(tarea.Detalles))
	for _, d := range tarea.Detalles {
		item := picking.DetallePDF{
			CantObjetivo: d.CantObjetivo,
			CantPickeada: d.CantPickeada,
		}
		prod, err := h.prodRepo.GetByID(d.ProductoID)
		if err != nil {
			return nil, err
		}
		if prod != nil {
			item.ProductoCodigo = prod.Codigo
			item.ProductoNombre = prod.Nombre
		}
		ubic, err := h.ubicRepo.GetByID(d.UbicacionID)
		if err != nil {
			return nil, err
		}
		if ubic != nil {
			item.UbicacionCodigo = ubic.Codigo
		}
		if d.LoteID != nil {
			lote, err := h.loteRepo.GetByID(*d.LoteID)
			if err != nil {
				return nil, err
			}
			if lote != nil {
				item.LoteCodigo = lote.Codigo
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// Asignar godoc
// @Summary      Asignar la tarea a un operador
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la tarea"
// @Param        body  body  dto.AsignarPickingRequest true  "Operador"
// @Success      200   {object}  dto.PickingResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/picking/{id}/asignar [patch]
func (h *PickingHandler) Asignar(c *fiber.Ctx) error {
	var in dto.AsignarPickingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Asignar(c.UserContext(), c.Params("id"), in.AsignadoA); err != nil {
		return respondError(c, err)
	}
	return h.responder(c)
}

// Iniciar godoc
// @Summary      Iniciar la tarea (ASIGNADO|PAUSADO → EN_PROCESO)
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.PickingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/{id}/iniciar [patch]
func (h *PickingHandler) Iniciar(c *fiber.Ctx) error {
	if err := h.uc.Iniciar(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return h.responder(c)
}

// Pausar godoc
// @Summary      Pausar la tarea (EN_PROCESO → PAUSADO)
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.PickingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/{id}/pausar [patch]
func (h *PickingHandler) Pausar(c *fiber.Ctx) error {
	if err := h.uc.Pausar(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return h.responder(c)
}

// RegistrarPicks godoc
// @Summary      Registrar confirmaciones de picks
// @Description  Las cantidades confirmadas son acumuladas. Cada delta positivo
// @Description  despacha stock reservado y avanza la línea de la orden.
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la tarea"
// @Param        body  body  dto.RegistrarPicksRequest  true  "Confirmaciones"
// @Success      200   {object}  dto.PickingResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/picking/{id} [put]
func (h *PickingHandler) RegistrarPicks(c *fiber.Ctx) error {
	var in dto.RegistrarPicksRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	picks := make([]picking.PickInput, 0, len(in.Detalles))
	for _, d := range in.Detalles {
		picks = append(picks, picking.PickInput{
			DetalleID:      d.DetalleID,
			CantConfirmada: d.CantConfirmada,
		})
	}
	if err := h.uc.RegistrarPicks(c.UserContext(), c.Params("id"), picks, GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	picksRegistradosTotal.Add(float64(len(picks)))
	return h.responder(c)
}

// Completar godoc
// @Summary      Completar la tarea
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.PickingResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/picking/{id}/completar [patch]
func (h *PickingHandler) Completar(c *fiber.Ctx) error {
	if err := h.uc.CompletarTarea(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return h.responder(c)
}

// Cancelar godoc
// @Summary      Cancelar la tarea liberando lo pendiente
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.PickingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/{id}/cancelar [patch]
func (h *PickingHandler) Cancelar(c *fiber.Ctx) error {
	if err := h.uc.CancelarTarea(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return h.responder(c)
}

// responder devuelve el estado fresco de la tarea tras una mutación.
func (h *PickingHandler) responder(c *fiber.Ctx) error {
	tarea, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPickingResponse(tarea))
}

func toPickingResponse(p *entity.Picking) *dto.PickingResponse {
	detalles := make([]dto.PickingDetalleResponse, 0, len(p.Detalles))
	for _, d := range p.Detalles {
		detalles = append(detalles, dto.PickingDetalleResponse{
			ID:             d.ID,
			DetalleOrdenID: d.DetalleOrdenID,
			ProductoID:     d.ProductoID,
			UbicacionID:    d.UbicacionID,
			LoteID:         d.LoteID,
			CantObjetivo:   d.CantObjetivo,
			CantPickeada:   d.CantPickeada,
			Pendiente:      d.Pendiente(),
		})
	}
	return &dto.PickingResponse{
		ID:              p.ID,
		OrdenID:         p.OrdenID,
		Estado:          p.Estado,
		AsignadoA:       p.AsignadoA,
		CreadoPor:       p.CreadoPor,
		FechaAsignacion: p.FechaAsignacion,
		FechaCierre:     p.FechaCierre,
		Detalles:        detalles,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

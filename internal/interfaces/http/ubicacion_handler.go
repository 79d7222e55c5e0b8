package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UbicacionHandler maneja las peticiones HTTP para ubicaciones físicas.
type UbicacionHandler struct {
	uc *usecase.UbicacionUseCase
}

func NewUbicacionHandler(uc *usecase.UbicacionUseCase) *UbicacionHandler {
	return &UbicacionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ubicación
// @Tags         ubicaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUbicacionRequest  true  "Datos de la ubicación"
// @Success      201   {object}  dto.UbicacionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ubicaciones [post]
func (h *UbicacionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUbicacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ubicación por ID
// @Tags         ubicaciones
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.UbicacionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ubicaciones/{id} [get]
func (h *UbicacionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar ubicación
// @Tags         ubicaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la ubicación"
// @Param        body  body  dto.UpdateUbicacionRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.UbicacionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ubicaciones/{id} [put]
func (h *UbicacionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUbicacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         ubicaciones
// @Security     Bearer
// @Produce      json
// @Param        tipo      query  string  false  "Tipo de ubicación"
// @Param        activas   query  bool    false  "Solo activas"
// @Param        page      query  int     false  "Página"     default(1)
// @Param        per_page  query  int     false  "Por página" default(20)
// @Success      200  {object}  dto.PagedResponse
// @Router       /api/ubicaciones [get]
func (h *UbicacionHandler) List(c *fiber.Ctx) error {
	page := parsePage(c)
	filtro := repository.UbicacionFiltro{
		Tipo:        c.Query("tipo"),
		SoloActivas: c.QueryBool("activas"),
		Limit:       page.PerPage,
		Offset:      page.Offset(),
	}
	items, total, err := h.uc.List(filtro)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPagedResponse(items, page, total))
}

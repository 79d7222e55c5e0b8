package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// LoteHandler maneja las peticiones HTTP para lotes.
type LoteHandler struct {
	uc *usecase.LoteUseCase
}

func NewLoteHandler(uc *usecase.LoteUseCase) *LoteHandler {
	return &LoteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear lote
// @Tags         lotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLoteRequest  true  "Datos del lote"
// @Success      201   {object}  dto.LoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lotes [post]
func (h *LoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLoteRequest
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
// @Summary      Obtener lote por ID
// @Tags         lotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lotes/{id} [get]
func (h *LoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar lotes
// @Tags         lotes
// @Security     Bearer
// @Produce      json
// @Param        page      query  int  false  "Página"     default(1)
// @Param        per_page  query  int  false  "Por página" default(20)
// @Success      200  {object}  dto.PagedResponse
// @Router       /api/lotes [get]
func (h *LoteHandler) List(c *fiber.Ctx) error {
	page := parsePage(c)
	items, total, err := h.uc.List(page.PerPage, page.Offset())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPagedResponse(items, page, total))
}

// Ajustar godoc
// @Summary      Ajustar cantidad disponible del lote
// @Description  Registra un movimiento AJUSTE sobre el inventario del lote; la cantidad puede ser negativa.
// @Tags         lotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del lote"
// @Param        body  body  dto.AjusteLoteRequest  true  "Cantidad y motivo"
// @Success      200   {object}  dto.LoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lotes/{id}/ajustar-cantidad [patch]
func (h *LoteHandler) Ajustar(c *fiber.Ctx) error {
	var in dto.AjusteLoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Ajustar(c.UserContext(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reservar godoc
// @Summary      Reservar cantidad del lote
// @Tags         lotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del lote"
// @Param        body  body  dto.ReservaLoteRequest  true  "Cantidad a reservar"
// @Success      200   {object}  dto.LoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lotes/{id}/reservar [patch]
func (h *LoteHandler) Reservar(c *fiber.Ctx) error {
	var in dto.ReservaLoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Reservar(c.UserContext(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		reservasFallidasTotal.WithLabelValues("lote").Inc()
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Liberar godoc
// @Summary      Liberar cantidad reservada del lote
// @Tags         lotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del lote"
// @Param        body  body  dto.ReservaLoteRequest  true  "Cantidad a liberar"
// @Success      200   {object}  dto.LoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lotes/{id}/liberar [patch]
func (h *LoteHandler) Liberar(c *fiber.Ctx) error {
	var in dto.ReservaLoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Liberar(c.UserContext(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CambiarEstado godoc
// @Summary      Cambiar estado del lote
// @Tags         lotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del lote"
// @Param        body  body  dto.CambiarEstadoLoteRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.LoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/lotes/{id}/cambiar-estado [patch]
func (h *LoteHandler) CambiarEstado(c *fiber.Ctx) error {
	var in dto.CambiarEstadoLoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CambiarEstado(c.Params("id"), in.Estado)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

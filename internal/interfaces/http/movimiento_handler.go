package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/excel"
)

// MovimientoHandler expone el historial de movimientos de inventario y las
// operaciones manuales sobre el libro (ajustes, reservas, traslados).
type MovimientoHandler struct {
	uc     *usecase.MovimientoUseCase
	ledger *ledger.UseCase
}

func NewMovimientoHandler(uc *usecase.MovimientoUseCase, ledgerUC *ledger.UseCase) *MovimientoHandler {
	return &MovimientoHandler{uc: uc, ledger: ledgerUC}
}

// movimientoFiltro arma el filtro del historial desde la query string.
func movimientoFiltro(c *fiber.Ctx) (repository.MovimientoFiltro, error) {
	filtro := repository.MovimientoFiltro{
		ProductoID:  c.Query("id_producto"),
		UbicacionID: c.Query("id_ubicacion"),
		LoteID:      c.Query("id_lote"),
		Tipo:        c.Query("tipo"),
	}
	if v := c.Query("desde"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filtro, fmt.Errorf("desde inválido: %w", err)
		}
		filtro.Desde = &t
	}
	if v := c.Query("hasta"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filtro, fmt.Errorf("hasta inválido: %w", err)
		}
		filtro.Hasta = &t
	}
	return filtro, nil
}

// List godoc
// @Summary      Listar movimientos de inventario
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id_producto   query  string  false  "Filtrar por producto"
// @Param        id_ubicacion  query  string  false  "Filtrar por ubicación"
// @Param        id_lote       query  string  false  "Filtrar por lote"
// @Param        tipo          query  string  false  "Tipo de movimiento"
// @Param        desde         query  string  false  "Fecha inicial (RFC3339)"
// @Param        hasta         query  string  false  "Fecha final (RFC3339)"
// @Param        page          query  int     false  "Página"     default(1)
// @Param        per_page      query  int     false  "Por página" default(20)
// @Success      200  {object}  dto.PagedResponse
// @Router       /api/movimientos-inventario [get]
func (h *MovimientoHandler) List(c *fiber.Ctx) error {
	filtro, err := movimientoFiltro(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: err.Error()})
	}
	page := parsePage(c)
	filtro.Limit = page.PerPage
	filtro.Offset = page.Offset()
	items, total, err := h.uc.List(filtro)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPagedResponse(items, page, total))
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovimientoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos-inventario/{id} [get]
func (h *MovimientoHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar movimientos a Excel
// @Tags         movimientos
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id_producto  query  string  false  "Filtrar por producto"
// @Param        tipo         query  string  false  "Tipo de movimiento"
// @Param        desde        query  string  false  "Fecha inicial (RFC3339)"
// @Param        hasta        query  string  false  "Fecha final (RFC3339)"
// @Success      200  {file}  file
// @Router       /api/movimientos-inventario/export [get]
func (h *MovimientoHandler) Export(c *fiber.Ctx) error {
	filtro, err := movimientoFiltro(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: err.Error()})
	}
	movs, err := h.uc.ListAll(filtro)
	if err != nil {
		return respondError(c, err)
	}
	data, err := excel.ExportMovimientos(movs)
	if err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("movimientos_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

// Ajuste godoc
// @Summary      Registrar un ajuste, entrada, salida o devolución
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AjusteInventarioRequest  true  "Movimiento a aplicar"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movimientos-inventario/ajuste [post]
func (h *MovimientoHandler) Ajuste(c *fiber.Ctx) error {
	var in dto.AjusteInventarioRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.ledger.Ajustar(c.UserContext(), ledger.AjusteInput{
		ProductoID:  in.ProductoID,
		UbicacionID: in.UbicacionID,
		LoteID:      in.LoteID,
		Tipo:        in.Tipo,
		Cantidad:    in.Cantidad,
		Motivo:      in.Motivo,
		Referencia:  in.Referencia,
		Actor:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reserva godoc
// @Summary      Reservar stock de un triplete producto-ubicación-lote
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservaInventarioRequest  true  "Reserva a aplicar"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movimientos-inventario/reserva [post]
func (h *MovimientoHandler) Reserva(c *fiber.Ctx) error {
	var in dto.ReservaInventarioRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.ledger.Reservar(c.UserContext(), in.ProductoID, in.UbicacionID, in.LoteID, in.Cantidad, GetUserID(c), in.Referencia)
	if err != nil {
		reservasFallidasTotal.WithLabelValues("inventario").Inc()
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Liberacion godoc
// @Summary      Liberar stock reservado de un triplete
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservaInventarioRequest  true  "Liberación a aplicar"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movimientos-inventario/liberacion [post]
func (h *MovimientoHandler) Liberacion(c *fiber.Ctx) error {
	var in dto.ReservaInventarioRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.ledger.Liberar(c.UserContext(), in.ProductoID, in.UbicacionID, in.LoteID, in.Cantidad, GetUserID(c), in.Referencia)
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Traslado godoc
// @Summary      Trasladar stock entre ubicaciones
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TrasladoRequest  true  "Traslado a aplicar"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movimientos-inventario/traslado [post]
func (h *MovimientoHandler) Traslado(c *fiber.Ctx) error {
	var in dto.TrasladoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.ledger.Trasladar(c.UserContext(), ledger.TrasladoInput{
		ProductoID: in.ProductoID,
		OrigenID:   in.UbicacionOrigen,
		DestinoID:  in.UbicacionDestino,
		LoteID:     in.LoteID,
		Cantidad:   in.Cantidad,
		Motivo:     in.Motivo,
		Actor:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

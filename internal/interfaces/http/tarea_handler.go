package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/tareas"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TareaHandler maneja tareas operativas genéricas e incidencias.
type TareaHandler struct {
	uc *tareas.UseCase
}

func NewTareaHandler(uc *tareas.UseCase) *TareaHandler {
	return &TareaHandler{uc: uc}
}

// CreateTarea godoc
// @Summary      Crear tarea operativa
// @Tags         tareas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTareaRequest  true  "Datos de la tarea"
// @Success      201   {object}  dto.TareaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tareas [post]
func (h *TareaHandler) CreateTarea(c *fiber.Ctx) error {
	var in dto.CreateTareaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tarea, err := h.uc.CrearTarea(c.UserContext(), tareas.CrearTareaInput{
		Tipo:        in.Tipo,
		Prioridad:   in.Prioridad,
		Descripcion: in.Descripcion,
		AsignadaA:   in.AsignadaA,
		CreadaPor:   GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTareaResponse(tarea))
}

// GetTarea godoc
// @Summary      Obtener tarea por ID
// @Tags         tareas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.TareaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tareas/{id} [get]
func (h *TareaHandler) GetTarea(c *fiber.Ctx) error {
	tarea, err := h.uc.GetTarea(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTareaResponse(tarea))
}

// ListTareas godoc
// @Summary      Listar tareas operativas
// @Tags         tareas
// @Security     Bearer
// @Produce      json
// @Param        estado    query  string  false  "Estado de la tarea"
// @Param        page      query  int     false  "Página"     default(1)
// @Param        per_page  query  int     false  "Por página" default(20)
// @Success      200  {object}  dto.PagedResponse
// @Router       /api/tareas [get]
func (h *TareaHandler) ListTareas(c *fiber.Ctx) error {
	page := parsePage(c)
	lista, total, err := h.uc.ListTareas(c.UserContext(), c.Query("estado"), page.PerPage, page.Offset())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.TareaResponse, 0, len(lista))
	for _, t := range lista {
		items = append(items, *toTareaResponse(t))
	}
	return c.JSON(dto.NewPagedResponse(items, page, total))
}

// AsignarTarea godoc
// @Summary      Asignar tarea a un operador
// @Tags         tareas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la tarea"
// @Param        body  body  dto.AsignarTareaRequest  true  "Operador"
// @Success      200   {object}  dto.TareaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tareas/{id}/asignar [patch]
func (h *TareaHandler) AsignarTarea(c *fiber.Ctx) error {
	var in dto.AsignarTareaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tarea, err := h.uc.AsignarTarea(c.UserContext(), c.Params("id"), in.OperadorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTareaResponse(tarea))
}

// CambiarEstadoTarea godoc
// @Summary      Cambiar estado de la tarea
// @Tags         tareas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la tarea"
// @Param        body  body  dto.CambiarEstadoTareaRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.TareaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tareas/{id}/estado [patch]
func (h *TareaHandler) CambiarEstadoTarea(c *fiber.Ctx) error {
	var in dto.CambiarEstadoTareaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tarea, err := h.uc.CambiarEstadoTarea(c.UserContext(), c.Params("id"), in.Estado)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTareaResponse(tarea))
}

// CreateIncidencia godoc
// @Summary      Reportar incidencia
// @Description  Si referencia una tarea, la tarea queda BLOQUEADA cuando su
// @Description  estado lo permite.
// @Tags         incidencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIncidenciaRequest  true  "Datos de la incidencia"
// @Success      201   {object}  dto.IncidenciaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/incidencias [post]
func (h *TareaHandler) CreateIncidencia(c *fiber.Ctx) error {
	var in dto.CreateIncidenciaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inc, err := h.uc.CrearIncidencia(c.UserContext(), tareas.CrearIncidenciaInput{
		TareaID:     in.TareaID,
		ProductoID:  in.ProductoID,
		Descripcion: in.Descripcion,
		OperadorID:  GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toIncidenciaResponse(inc))
}

// ResolverIncidencia godoc
// @Summary      Resolver incidencia
// @Tags         incidencias
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la incidencia"
// @Success      200  {object}  dto.IncidenciaResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/incidencias/{id}/resolver [patch]
func (h *TareaHandler) ResolverIncidencia(c *fiber.Ctx) error {
	inc, err := h.uc.ResolverIncidencia(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toIncidenciaResponse(inc))
}

// ListIncidencias godoc
// @Summary      Listar incidencias
// @Tags         incidencias
// @Security     Bearer
// @Produce      json
// @Param        estado    query  string  false  "Estado de la incidencia"
// @Param        page      query  int     false  "Página"     default(1)
// @Param        per_page  query  int     false  "Por página" default(20)
// @Success      200  {object}  dto.PagedResponse
// @Router       /api/incidencias [get]
func (h *TareaHandler) ListIncidencias(c *fiber.Ctx) error {
	page := parsePage(c)
	lista, total, err := h.uc.ListIncidencias(c.UserContext(), c.Query("estado"), page.PerPage, page.Offset())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.IncidenciaResponse, 0, len(lista))
	for _, inc := range lista {
		items = append(items, *toIncidenciaResponse(inc))
	}
	return c.JSON(dto.NewPagedResponse(items, page, total))
}

func toTareaResponse(t *entity.Tarea) *dto.TareaResponse {
	return &dto.TareaResponse{
		ID:          t.ID,
		Tipo:        t.Tipo,
		Prioridad:   t.Prioridad,
		Descripcion: t.Descripcion,
		Estado:      t.Estado,
		AsignadaA:   t.AsignadaA,
		CreadaPor:   t.CreadaPor,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toIncidenciaResponse(i *entity.Incidencia) *dto.IncidenciaResponse {
	return &dto.IncidenciaResponse{
		ID:          i.ID,
		TareaID:     i.TareaID,
		ProductoID:  i.ProductoID,
		OperadorID:  i.OperadorID,
		Descripcion: i.Descripcion,
		Estado:      i.Estado,
		ResueltaPor: i.ResueltaPor,
		ResueltaAt:  i.ResueltaAt,
		CreatedAt:   i.CreatedAt,
	}
}

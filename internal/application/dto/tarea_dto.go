package dto

import "time"

// CreateTareaRequest entrada para crear una tarea operativa.
type CreateTareaRequest struct {
	Tipo        string  `json:"tipo" validate:"required"`
	Prioridad   int     `json:"prioridad" validate:"min=1,max=5"`
	Descripcion string  `json:"descripcion" validate:"required"`
	AsignadaA   *string `json:"asignada_a"`
}

// AsignarTareaRequest asignación de una tarea a un operador.
type AsignarTareaRequest struct {
	OperadorID string `json:"id_operador" validate:"required"`
}

// CambiarEstadoTareaRequest transición de estado de una tarea.
type CambiarEstadoTareaRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// TareaResponse salida de una tarea operativa.
type TareaResponse struct {
	ID          string    `json:"id"`
	Tipo        string    `json:"tipo"`
	Prioridad   int       `json:"prioridad"`
	Descripcion string    `json:"descripcion"`
	Estado      string    `json:"estado"`
	AsignadaA   *string   `json:"asignada_a,omitempty"`
	CreadaPor   string    `json:"creada_por"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateIncidenciaRequest entrada para reportar una incidencia.
type CreateIncidenciaRequest struct {
	TareaID     *string `json:"id_tarea"`
	ProductoID  *string `json:"id_producto"`
	Descripcion string  `json:"descripcion" validate:"required"`
}

// IncidenciaResponse salida de una incidencia.
type IncidenciaResponse struct {
	ID          string     `json:"id"`
	TareaID     *string    `json:"id_tarea,omitempty"`
	ProductoID  *string    `json:"id_producto,omitempty"`
	OperadorID  string     `json:"id_operador"`
	Descripcion string     `json:"descripcion"`
	Estado      string     `json:"estado"`
	ResueltaPor *string    `json:"resuelta_por,omitempty"`
	ResueltaAt  *time.Time `json:"resuelta_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

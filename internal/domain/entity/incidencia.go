package entity

import "time"

// Estados de incidencia.
const (
	IncidenciaPendiente = "PENDIENTE"
	IncidenciaResuelta  = "RESUELTA"
)

// Incidencia registra un problema operativo, opcionalmente ligado a una tarea
// y/o a un producto, reportado por un operador.
type Incidencia struct {
	ID          string
	TareaID     *string
	ProductoID  *string
	OperadorID  string
	Descripcion string
	Estado      string
	ResueltaPor *string
	ResueltaAt  *time.Time
	CreatedAt   time.Time
}

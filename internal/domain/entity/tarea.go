package entity

import "time"

// Estados de tarea genérica.
const (
	TareaNueva      = "NUEVA"
	TareaAsignada   = "ASIGNADA"
	TareaEnProceso  = "EN_PROCESO"
	TareaCompletada = "COMPLETADA"
	TareaCancelada  = "CANCELADA"
	TareaBloqueada  = "BLOQUEADA"
)

// Tarea es una tarea operativa genérica del almacén, independiente del flujo
// de picking (conteos, limpieza, reubicaciones manuales, etc.).
type Tarea struct {
	ID          string
	Tipo        string
	Prioridad   int
	Descripcion string
	Estado      string
	AsignadaA   *string
	CreadaPor   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// transicionesTarea define la matriz de transiciones permitidas.
var transicionesTarea = map[string][]string{
	TareaNueva:     {TareaAsignada, TareaCancelada},
	TareaAsignada:  {TareaEnProceso, TareaCancelada, TareaBloqueada},
	TareaEnProceso: {TareaCompletada, TareaCancelada, TareaBloqueada},
	TareaBloqueada: {TareaAsignada, TareaEnProceso, TareaCancelada},
}

// TransicionTareaValida indica si el cambio de estado está permitido.
func TransicionTareaValida(desde, hacia string) bool {
	for _, s := range transicionesTarea[desde] {
		if s == hacia {
			return true
		}
	}
	return false
}

// EstadoTareaValido valida contra la enumeración cerrada de estados.
func EstadoTareaValido(s string) bool {
	switch s {
	case TareaNueva, TareaAsignada, TareaEnProceso, TareaCompletada, TareaCancelada, TareaBloqueada:
		return true
	}
	return false
}

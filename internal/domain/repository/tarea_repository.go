package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// TareaRepository puerto de persistencia para tareas genéricas.
type TareaRepository interface {
	Create(t *entity.Tarea) error
	GetByID(id string) (*entity.Tarea, error)
	Update(t *entity.Tarea) error
	List(estado string, limit, offset int) ([]*entity.Tarea, int, error)
}

// IncidenciaRepository puerto de persistencia para incidencias.
type IncidenciaRepository interface {
	Create(i *entity.Incidencia) error
	GetByID(id string) (*entity.Incidencia, error)
	Update(i *entity.Incidencia) error
	List(estado string, limit, offset int) ([]*entity.Incidencia, int, error)
}

package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// PickingRepository puerto de persistencia para tareas de picking y sus detalles.
// GetByID y GetForUpdate cargan la tarea con sus detalles.
type PickingRepository interface {
	Create(p *entity.Picking) error
	GetByID(id string) (*entity.Picking, error)
	GetForUpdate(id string) (*entity.Picking, error)
	Update(p *entity.Picking) error
	UpdateDetalle(d *entity.PickingDetalle) error
	ListByOrden(ordenID string) ([]*entity.Picking, error)
	CountByOrden(ordenID string) (int, error)
	List(estado string, limit, offset int) ([]*entity.Picking, int, error)
}

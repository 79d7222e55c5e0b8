package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// OrdenFiltro filtros de listado de órdenes de salida.
type OrdenFiltro struct {
	Estado  string
	Cliente string
	Limit   int
	Offset  int
}

// OrdenRepository puerto de persistencia para órdenes de salida y sus líneas.
// GetByID y GetForUpdate cargan la orden con sus detalles.
type OrdenRepository interface {
	Create(o *entity.OrdenSalida) error
	GetByID(id string) (*entity.OrdenSalida, error)
	GetForUpdate(id string) (*entity.OrdenSalida, error)
	UpdateEstado(o *entity.OrdenSalida) error
	UpdateDetalle(d *entity.DetalleOrden) error
	List(filtro OrdenFiltro) ([]*entity.OrdenSalida, int, error)
}

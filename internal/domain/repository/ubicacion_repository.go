package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// UbicacionFiltro filtros de listado de ubicaciones.
type UbicacionFiltro struct {
	Tipo        string
	SoloActivas bool
	Limit       int
	Offset      int
}

// UbicacionRepository puerto de persistencia para ubicaciones.
type UbicacionRepository interface {
	Create(u *entity.Ubicacion) error
	GetByID(id string) (*entity.Ubicacion, error)
	GetByCodigo(codigo string) (*entity.Ubicacion, error)
	Update(u *entity.Ubicacion) error
	List(filtro UbicacionFiltro) ([]*entity.Ubicacion, int, error)
}

package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// ProductoFiltro filtros de listado de productos.
type ProductoFiltro struct {
	Busqueda      string // búsqueda normalizada (sin acentos) por código o nombre
	SoloActivos   bool
	SoloBajoStock bool
	Limit         int
	Offset        int
}

// ProductoRepository puerto de persistencia para productos.
type ProductoRepository interface {
	Create(p *entity.Producto) error
	GetByID(id string) (*entity.Producto, error)
	GetByCodigo(codigo string) (*entity.Producto, error)
	Update(p *entity.Producto) error
	List(filtro ProductoFiltro) ([]*entity.Producto, int, error)
}

package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// LoteRepository puerto de persistencia para lotes.
// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de una transacción.
type LoteRepository interface {
	Create(l *entity.Lote) error
	GetByID(id string) (*entity.Lote, error)
	GetForUpdate(id string) (*entity.Lote, error)
	Update(l *entity.Lote) error
	ListByProducto(productoID string) ([]*entity.Lote, error)
	List(limit, offset int) ([]*entity.Lote, int, error)
}

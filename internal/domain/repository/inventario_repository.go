package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// InventarioRepository puerto de persistencia para registros de inventario.
// La identidad es (producto, ubicación, lote); lote nulo es stock sin lote.
// Get/GetForUpdate devuelven un registro en cero si el triplete no existe
// todavía, nunca nil sin error.
type InventarioRepository interface {
	Get(productoID, ubicacionID string, loteID *string) (*entity.RegistroInventario, error)
	GetForUpdate(productoID, ubicacionID string, loteID *string) (*entity.RegistroInventario, error)
	Upsert(r *entity.RegistroInventario) error
	ListByProducto(productoID string) ([]*entity.RegistroInventario, error)
	ListByLote(loteID string) ([]*entity.RegistroInventario, error)
	// SumByUbicacion devuelve la cantidad física total almacenada en la
	// ubicación, para el control de capacidad.
	SumByUbicacion(ubicacionID string) (decimal.Decimal, error)
}

package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovimientoFiltro filtros del log de movimientos.
type MovimientoFiltro struct {
	ProductoID  string
	UbicacionID string
	LoteID      string
	Tipo        string
	Desde       *time.Time
	Hasta       *time.Time
	Limit       int
	Offset      int
}

// MovimientoRepository puerto del registrador de movimientos. Append-only:
// no existe Update ni Delete; el log es la fuente de verdad de cómo se llegó
// al estado actual del inventario.
type MovimientoRepository interface {
	Create(m *entity.Movimiento) error
	GetByID(id string) (*entity.Movimiento, error)
	List(filtro MovimientoFiltro) ([]*entity.Movimiento, int, error)
}

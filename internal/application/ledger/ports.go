package ledger

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger: el
// registro de inventario y su movimiento se escriben juntos o no se escriben.
// Un fallo de serialización del motor debe devolverse envolviendo
// domain.ErrConflict para que el ledger pueda reintentar.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		loteRepo repository.LoteRepository,
		ubicRepo repository.UbicacionRepository,
	) error) error
}

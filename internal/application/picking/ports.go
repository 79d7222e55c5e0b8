package picking

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que abarca inventario
// y fulfillment (órdenes + picking). La pareja "reservar, luego actualizar
// línea" debe vivir en una sola transacción: un fallo a mitad de camino no
// puede dejar la cantidad comprometida y la reserva del inventario
// desincronizadas.
type TxRunner interface {
	RunFulfillment(ctx context.Context, fn func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		loteRepo repository.LoteRepository,
		ordenRepo repository.OrdenRepository,
		pickRepo repository.PickingRepository,
	) error) error
}

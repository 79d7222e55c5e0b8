package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/picking"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner and picking.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ picking.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Fallos de serialización salen envolviendo
// domain.ErrConflict para que el ledger reintente.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	loteRepo repository.LoteRepository,
	ubicRepo repository.UbicacionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invRepo := NewInventarioRepository(tx)
	movRepo := NewMovimientoRepository(tx)
	loteRepo := NewLoteRepository(tx)
	ubicRepo := NewUbicacionRepository(tx)

	if err := fn(invRepo, movRepo, loteRepo, ubicRepo); err != nil {
		return wrapConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapConflict(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunFulfillment inicia una transacción con los repos de inventario y
// fulfillment (órdenes + picking) para la confirmación, los picks y la
// cancelación.
func (r *TxRunner) RunFulfillment(ctx context.Context, fn func(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	loteRepo repository.LoteRepository,
	ordenRepo repository.OrdenRepository,
	pickRepo repository.PickingRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invRepo := NewInventarioRepository(tx)
	movRepo := NewMovimientoRepository(tx)
	loteRepo := NewLoteRepository(tx)
	ordenRepo := NewOrdenRepository(tx)
	pickRepo := NewPickingRepository(tx)

	if err := fn(invRepo, movRepo, loteRepo, ordenRepo, pickRepo); err != nil {
		return wrapConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapConflict(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

func wrapConflict(err error) error {
	if isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

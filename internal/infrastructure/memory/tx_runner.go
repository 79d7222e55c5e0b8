package memory

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/picking"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner and picking.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ picking.TxRunner = (*TxRunner)(nil)

// TxRunner simula transacciones sobre el store: toma el mutex para toda la
// función, saca un snapshot y lo restaura si fn devuelve error. Atomicidad y
// aislamiento totales, sin fallos de serialización posibles.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner con el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos atados a la "transacción" (sin locking propio).
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	loteRepo repository.LoteRepository,
	ubicRepo repository.UbicacionRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.takeSnapshot()

	invRepo := &InventarioRepo{lk: locker{s: r.s, insideTx: true}}
	movRepo := &MovimientoRepo{lk: locker{s: r.s, insideTx: true}}
	loteRepo := &LoteRepo{lk: locker{s: r.s, insideTx: true}}
	ubicRepo := &UbicacionRepo{lk: locker{s: r.s, insideTx: true}}

	if err := fn(invRepo, movRepo, loteRepo, ubicRepo); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// RunFulfillment ejecuta fn con los repos de inventario y fulfillment.
func (r *TxRunner) RunFulfillment(ctx context.Context, fn func(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	loteRepo repository.LoteRepository,
	ordenRepo repository.OrdenRepository,
	pickRepo repository.PickingRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.takeSnapshot()

	invRepo := &InventarioRepo{lk: locker{s: r.s, insideTx: true}}
	movRepo := &MovimientoRepo{lk: locker{s: r.s, insideTx: true}}
	loteRepo := &LoteRepo{lk: locker{s: r.s, insideTx: true}}
	ordenRepo := &OrdenRepo{lk: locker{s: r.s, insideTx: true}}
	pickRepo := &PickingRepo{lk: locker{s: r.s, insideTx: true}}

	if err := fn(invRepo, movRepo, loteRepo, ordenRepo, pickRepo); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

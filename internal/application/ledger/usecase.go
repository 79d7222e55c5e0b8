package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UseCase es el ledger de inventario: única autoridad de mutación sobre los
// registros de inventario. Cada operación bloquea la fila del triplete
// (producto, ubicación, lote) con SELECT FOR UPDATE, verifica los invariantes
// (disponible ≥ 0, reservada ≤ cantidad, capacidad de ubicación) y escribe
// exactamente un movimiento por mutación dentro de la misma transacción.
type UseCase struct {
	tx TxRunner
}

// New construye el ledger.
func New(tx TxRunner) *UseCase {
	return &UseCase{tx: tx}
}

// run ejecuta fn en transacción con un reintento automático ante conflicto de
// serialización antes de rendirse con ErrConflict.
func (uc *UseCase) run(ctx context.Context, fn func(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	loteRepo repository.LoteRepository,
	ubicRepo repository.UbicacionRepository,
) error) error {
	err := uc.tx.Run(ctx, fn)
	if errors.Is(err, domain.ErrConflict) {
		err = uc.tx.Run(ctx, fn)
	}
	return err
}

// AjusteInput entrada para un ajuste directo de inventario.
// Tipo: ENTRADA, SALIDA, DEVOLUCION (Cantidad positiva) o AJUSTE (con signo).
type AjusteInput struct {
	ProductoID  string
	UbicacionID string
	LoteID      *string
	Tipo        string
	Cantidad    decimal.Decimal
	Motivo      string
	Referencia  string
	Actor       string
}

// Ajustar aplica un delta a la cantidad física del triplete y registra el
// movimiento correspondiente. Falla con ErrInsufficientStock si el disponible
// resultante quedaría negativo y con ErrCapacityExceeded si la ubicación no
// tiene cupo para un delta positivo.
func (uc *UseCase) Ajustar(ctx context.Context, in AjusteInput) error {
	delta, err := deltaAjuste(in.Tipo, in.Cantidad)
	if err != nil {
		return err
	}
	if in.ProductoID == "" || in.UbicacionID == "" || delta.IsZero() {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		loteRepo repository.LoteRepository,
		ubicRepo repository.UbicacionRepository,
	) error {
		return uc.AjustarInTx(invRepo, movRepo, loteRepo, ubicRepo, in, delta, now, txID)
	})
}

// AjustarInTx ejecuta el ajuste con los repositorios del caller (misma transacción).
func (uc *UseCase) AjustarInTx(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	loteRepo repository.LoteRepository,
	ubicRepo repository.UbicacionRepository,
	in AjusteInput,
	delta decimal.Decimal,
	now time.Time, txID string,
) error {
	// Bloquea la fila del triplete para evitar condiciones de carrera
	rec, err := invRepo.GetForUpdate(in.ProductoID, in.UbicacionID, in.LoteID)
	if err != nil {
		return err
	}
	antes := rec.Cantidad
	despues := antes.Add(delta)
	if despues.Sub(rec.CantidadReservada).IsNegative() {
		return domain.ErrInsufficientStock
	}
	if delta.IsPositive() {
		if err := verificarCapacidad(invRepo, ubicRepo, in.UbicacionID, delta); err != nil {
			return err
		}
	}
	rec.Cantidad = despues
	rec.UpdatedAt = now
	if err := invRepo.Upsert(rec); err != nil {
		return err
	}
	if in.LoteID != nil {
		if err := ajustarDisponibleLote(loteRepo, *in.LoteID, delta, now); err != nil {
			return err
		}
	}
	ubicacionID := in.UbicacionID
	return movRepo.Create(&entity.Movimiento{
		TransaccionID:   txID,
		ProductoID:      in.ProductoID,
		UbicacionID:     &ubicacionID,
		LoteID:          in.LoteID,
		Tipo:            in.Tipo,
		Cantidad:        delta,
		CantidadAntes:   antes,
		CantidadDespues: despues,
		Motivo:          in.Motivo,
		Referencia:      in.Referencia,
		CreadoPor:       in.Actor,
		CreatedAt:       now,
	})
}

// Reservar mueve qty de disponible a reservado en el triplete. Falla con
// ErrInsufficientStock si el disponible puntual es menor que qty; sin efectos
// parciales. No es idempotente: el caller no debe re-reservar.
func (uc *UseCase) Reservar(ctx context.Context, productoID, ubicacionID string, loteID *string, qty decimal.Decimal, actor, referencia string) error {
	if productoID == "" || ubicacionID == "" || !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		_ repository.LoteRepository,
		_ repository.UbicacionRepository,
	) error {
		return uc.ReservarInTx(invRepo, movRepo, productoID, ubicacionID, loteID, qty, actor, referencia, now, txID)
	})
}

// ReservarInTx ejecuta la reserva con los repositorios del caller.
func (uc *UseCase) ReservarInTx(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	productoID, ubicacionID string, loteID *string,
	qty decimal.Decimal, actor, referencia string,
	now time.Time, txID string,
) error {
	rec, err := invRepo.GetForUpdate(productoID, ubicacionID, loteID)
	if err != nil {
		return err
	}
	if rec.Disponible().LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	return reservar(invRepo, movRepo, rec, qty, actor, referencia, now, txID)
}

// ReservarDisponibleInTx reserva hasta qty según el disponible puntual del
// triplete y devuelve lo efectivamente reservado (puede ser cero). Es la forma
// que usa el asignador de picking para compromisos parciales.
func (uc *UseCase) ReservarDisponibleInTx(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	productoID, ubicacionID string, loteID *string,
	qty decimal.Decimal, actor, referencia string,
	now time.Time, txID string,
) (decimal.Decimal, error) {
	rec, err := invRepo.GetForUpdate(productoID, ubicacionID, loteID)
	if err != nil {
		return decimal.Zero, err
	}
	take := decimal.Min(qty, rec.Disponible())
	if !take.IsPositive() {
		return decimal.Zero, nil
	}
	if err := reservar(invRepo, movRepo, rec, take, actor, referencia, now, txID); err != nil {
		return decimal.Zero, err
	}
	return take, nil
}

func reservar(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	rec *entity.RegistroInventario,
	qty decimal.Decimal, actor, referencia string,
	now time.Time, txID string,
) error {
	antes := rec.CantidadReservada
	rec.CantidadReservada = antes.Add(qty)
	rec.UpdatedAt = now
	if err := invRepo.Upsert(rec); err != nil {
		return err
	}
	ubicacionID := rec.UbicacionID
	return movRepo.Create(&entity.Movimiento{
		TransaccionID:   txID,
		ProductoID:      rec.ProductoID,
		UbicacionID:     &ubicacionID,
		LoteID:          rec.LoteID,
		Tipo:            entity.MovReserva,
		Cantidad:        qty,
		CantidadAntes:   antes,
		CantidadDespues: rec.CantidadReservada,
		Referencia:      referencia,
		CreadoPor:       actor,
		CreatedAt:       now,
	})
}

// Liberar es la inversa de Reservar. Falla con ErrInvalidReservation si la
// cantidad reservada del triplete es menor que qty.
func (uc *UseCase) Liberar(ctx context.Context, productoID, ubicacionID string, loteID *string, qty decimal.Decimal, actor, referencia string) error {
	if productoID == "" || ubicacionID == "" || !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		_ repository.LoteRepository,
		_ repository.UbicacionRepository,
	) error {
		return uc.LiberarInTx(invRepo, movRepo, productoID, ubicacionID, loteID, qty, actor, referencia, now, txID)
	})
}

// LiberarInTx ejecuta la liberación con los repositorios del caller.
func (uc *UseCase) LiberarInTx(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	productoID, ubicacionID string, loteID *string,
	qty decimal.Decimal, actor, referencia string,
	now time.Time, txID string,
) error {
	rec, err := invRepo.GetForUpdate(productoID, ubicacionID, loteID)
	if err != nil {
		return err
	}
	if rec.CantidadReservada.LessThan(qty) {
		return domain.ErrInvalidReservation
	}
	antes := rec.CantidadReservada
	rec.CantidadReservada = antes.Sub(qty)
	rec.UpdatedAt = now
	if err := invRepo.Upsert(rec); err != nil {
		return err
	}
	ubicacionID2 := rec.UbicacionID
	return movRepo.Create(&entity.Movimiento{
		TransaccionID:   txID,
		ProductoID:      rec.ProductoID,
		UbicacionID:     &ubicacionID2,
		LoteID:          rec.LoteID,
		Tipo:            entity.MovLiberacion,
		Cantidad:        qty.Neg(),
		CantidadAntes:   antes,
		CantidadDespues: rec.CantidadReservada,
		Referencia:      referencia,
		CreadoPor:       actor,
		CreatedAt:       now,
	})
}

// DespacharInTx saca qty del stock reservado del triplete (la mercancía sale
// del edificio): decrementa cantidad y reservada a la vez y registra una
// SALIDA. Falla con ErrInvalidReservation si no hay reserva suficiente.
func (uc *UseCase) DespacharInTx(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	loteRepo repository.LoteRepository,
	productoID, ubicacionID string, loteID *string,
	qty decimal.Decimal, actor, referencia string,
	now time.Time, txID string,
) error {
	rec, err := invRepo.GetForUpdate(productoID, ubicacionID, loteID)
	if err != nil {
		return err
	}
	if rec.CantidadReservada.LessThan(qty) {
		return domain.ErrInvalidReservation
	}
	antes := rec.Cantidad
	rec.Cantidad = antes.Sub(qty)
	rec.CantidadReservada = rec.CantidadReservada.Sub(qty)
	rec.UpdatedAt = now
	if err := invRepo.Upsert(rec); err != nil {
		return err
	}
	if loteID != nil {
		if err := ajustarDisponibleLote(loteRepo, *loteID, qty.Neg(), now); err != nil {
			return err
		}
	}
	ubicacionID2 := ubicacionID
	return movRepo.Create(&entity.Movimiento{
		TransaccionID:   txID,
		ProductoID:      productoID,
		UbicacionID:     &ubicacionID2,
		LoteID:          loteID,
		Tipo:            entity.MovSalida,
		Cantidad:        qty.Neg(),
		CantidadAntes:   antes,
		CantidadDespues: rec.Cantidad,
		Referencia:      referencia,
		CreadoPor:       actor,
		CreatedAt:       now,
	})
}

// TrasladoInput entrada para un traslado entre ubicaciones.
type TrasladoInput struct {
	ProductoID string
	OrigenID   string
	DestinoID  string
	LoteID     *string
	Cantidad   decimal.Decimal
	Motivo     string
	Actor      string
}

// Trasladar mueve stock no reservado de una ubicación a otra de forma atómica.
// Registra dos movimientos TRASLADO ligados por el mismo TransaccionID, uno
// por ubicación, como hace el resto del log.
func (uc *UseCase) Trasladar(ctx context.Context, in TrasladoInput) error {
	if in.ProductoID == "" || in.OrigenID == "" || in.DestinoID == "" ||
		in.OrigenID == in.DestinoID || !in.Cantidad.IsPositive() {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		_ repository.LoteRepository,
		ubicRepo repository.UbicacionRepository,
	) error {
		origen, err := invRepo.GetForUpdate(in.ProductoID, in.OrigenID, in.LoteID)
		if err != nil {
			return err
		}
		if origen.Disponible().LessThan(in.Cantidad) {
			return domain.ErrInsufficientStock
		}
		if err := verificarCapacidad(invRepo, ubicRepo, in.DestinoID, in.Cantidad); err != nil {
			return err
		}
		destino, err := invRepo.GetForUpdate(in.ProductoID, in.DestinoID, in.LoteID)
		if err != nil {
			return err
		}
		antesOrigen := origen.Cantidad
		antesDestino := destino.Cantidad
		origen.Cantidad = antesOrigen.Sub(in.Cantidad)
		destino.Cantidad = antesDestino.Add(in.Cantidad)
		origen.UpdatedAt = now
		destino.UpdatedAt = now
		if err := invRepo.Upsert(origen); err != nil {
			return err
		}
		if err := invRepo.Upsert(destino); err != nil {
			return err
		}
		origenID, destinoID := in.OrigenID, in.DestinoID
		salida := &entity.Movimiento{
			TransaccionID:   txID,
			ProductoID:      in.ProductoID,
			UbicacionID:     &origenID,
			LoteID:          in.LoteID,
			Tipo:            entity.MovTraslado,
			Cantidad:        in.Cantidad.Neg(),
			CantidadAntes:   antesOrigen,
			CantidadDespues: origen.Cantidad,
			Motivo:          in.Motivo,
			CreadoPor:       in.Actor,
			CreatedAt:       now,
		}
		if err := movRepo.Create(salida); err != nil {
			return err
		}
		entrada := &entity.Movimiento{
			TransaccionID:   txID,
			ProductoID:      in.ProductoID,
			UbicacionID:     &destinoID,
			LoteID:          in.LoteID,
			Tipo:            entity.MovTraslado,
			Cantidad:        in.Cantidad,
			CantidadAntes:   antesDestino,
			CantidadDespues: destino.Cantidad,
			Motivo:          in.Motivo,
			CreadoPor:       in.Actor,
			CreatedAt:       now,
		}
		return movRepo.Create(entrada)
	})
}

// AjustarLote ajusta la cantidad disponible de un lote sin ubicación asociada
// (conteos y correcciones a nivel de partida). El resultado debe quedar dentro
// de [0, cantidad inicial]; el movimiento AJUSTE se registra con ubicación nula.
func (uc *UseCase) AjustarLote(ctx context.Context, loteID string, cantidad decimal.Decimal, motivo, actor string) error {
	if loteID == "" || cantidad.IsZero() {
		return domain.ErrInvalidInput
	}
	if motivo == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
		_ repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		loteRepo repository.LoteRepository,
		_ repository.UbicacionRepository,
	) error {
		lote, err := loteRepo.GetForUpdate(loteID)
		if err != nil {
			return err
		}
		if lote == nil {
			return domain.ErrNotFound
		}
		antes := lote.CantidadDisponible
		despues := antes.Add(cantidad)
		if despues.IsNegative() {
			return domain.ErrInsufficientStock
		}
		if despues.GreaterThan(lote.CantidadInicial) {
			return domain.ErrInvalidInput
		}
		lote.CantidadDisponible = despues
		lote.UpdatedAt = now
		if err := loteRepo.Update(lote); err != nil {
			return err
		}
		id := loteID
		return movRepo.Create(&entity.Movimiento{
			TransaccionID:   txID,
			ProductoID:      lote.ProductoID,
			LoteID:          &id,
			Tipo:            entity.MovAjuste,
			Cantidad:        cantidad,
			CantidadAntes:   antes,
			CantidadDespues: despues,
			Motivo:          motivo,
			CreadoPor:       actor,
			CreatedAt:       now,
		})
	})
}

// ReservarLote reserva qty repartida entre los registros de inventario del
// lote. Todo o nada: si el disponible agregado no alcanza, la transacción se
// revierte con ErrInsufficientStock.
func (uc *UseCase) ReservarLote(ctx context.Context, loteID string, qty decimal.Decimal, actor string) error {
	if loteID == "" || !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		_ repository.LoteRepository,
		_ repository.UbicacionRepository,
	) error {
		registros, err := invRepo.ListByLote(loteID)
		if err != nil {
			return err
		}
		restante := qty
		for _, r := range registros {
			if !restante.IsPositive() {
				break
			}
			take, err := uc.ReservarDisponibleInTx(invRepo, movRepo,
				r.ProductoID, r.UbicacionID, r.LoteID, restante, actor, "lote:"+loteID, now, txID)
			if err != nil {
				return err
			}
			restante = restante.Sub(take)
		}
		if restante.IsPositive() {
			return domain.ErrInsufficientStock
		}
		return nil
	})
}

// LiberarLote libera qty repartida entre los registros del lote. Todo o nada:
// ErrInvalidReservation si la reserva agregada no alcanza.
func (uc *UseCase) LiberarLote(ctx context.Context, loteID string, qty decimal.Decimal, actor string) error {
	if loteID == "" || !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		_ repository.LoteRepository,
		_ repository.UbicacionRepository,
	) error {
		registros, err := invRepo.ListByLote(loteID)
		if err != nil {
			return err
		}
		restante := qty
		for _, r := range registros {
			if !restante.IsPositive() {
				break
			}
			rec, err := invRepo.GetForUpdate(r.ProductoID, r.UbicacionID, r.LoteID)
			if err != nil {
				return err
			}
			take := decimal.Min(restante, rec.CantidadReservada)
			if !take.IsPositive() {
				continue
			}
			if err := uc.LiberarInTx(invRepo, movRepo,
				rec.ProductoID, rec.UbicacionID, rec.LoteID, take, actor, "lote:"+loteID, now, txID); err != nil {
				return err
			}
			restante = restante.Sub(take)
		}
		if restante.IsPositive() {
			return domain.ErrInvalidReservation
		}
		return nil
	})
}

// deltaAjuste traduce (tipo, cantidad) al delta con signo sobre el stock.
func deltaAjuste(tipo string, cantidad decimal.Decimal) (decimal.Decimal, error) {
	switch tipo {
	case entity.MovEntrada, entity.MovDevolucion:
		if !cantidad.IsPositive() {
			return decimal.Zero, domain.ErrInvalidInput
		}
		return cantidad, nil
	case entity.MovSalida:
		if !cantidad.IsPositive() {
			return decimal.Zero, domain.ErrInvalidInput
		}
		return cantidad.Neg(), nil
	case entity.MovAjuste:
		return cantidad, nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}

// verificarCapacidad valida que la ubicación tenga cupo para delta unidades
// más. Capacidad cero significa sin límite.
func verificarCapacidad(
	invRepo repository.InventarioRepository,
	ubicRepo repository.UbicacionRepository,
	ubicacionID string,
	delta decimal.Decimal,
) error {
	ubic, err := ubicRepo.GetByID(ubicacionID)
	if err != nil {
		return err
	}
	if ubic == nil {
		return domain.ErrNotFound
	}
	if !ubic.Activa {
		return domain.ErrInvalidInput
	}
	if ubic.Capacidad.IsZero() {
		return nil
	}
	total, err := invRepo.SumByUbicacion(ubicacionID)
	if err != nil {
		return err
	}
	if total.Add(delta).GreaterThan(ubic.Capacidad) {
		return domain.ErrCapacityExceeded
	}
	return nil
}

// ajustarDisponibleLote mantiene la cantidad disponible del lote en línea con
// los deltas físicos que lo tocan, acotada a [0, cantidad inicial].
func ajustarDisponibleLote(loteRepo repository.LoteRepository, loteID string, delta decimal.Decimal, now time.Time) error {
	lote, err := loteRepo.GetForUpdate(loteID)
	if err != nil {
		return err
	}
	if lote == nil {
		return domain.ErrNotFound
	}
	nuevo := lote.CantidadDisponible.Add(delta)
	if nuevo.IsNegative() {
		return domain.ErrInsufficientStock
	}
	if nuevo.GreaterThan(lote.CantidadInicial) {
		return domain.ErrInvalidInput
	}
	lote.CantidadDisponible = nuevo
	lote.UpdatedAt = now
	return loteRepo.Update(lote)
}

package picking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/allocation"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Politica opciones de negocio del asignador.
type Politica struct {
	// CriterioCompletitud decide cuándo una línea está completa:
	// "solicitada" (pickeada ≥ solicitada) o "comprometida" (pickeada ≥ comprometida).
	CriterioCompletitud string
	// PermitirCierreForzado permite completar una tarea con objetivos sin
	// cumplir, liberando la reserva del faltante.
	PermitirCierreForzado bool
}

// UseCase es el asignador de picking: traduce líneas comprometidas en
// instrucciones ejecutables eligiendo (ubicación, lote) según la estrategia,
// y propaga el avance de los picks hacia las líneas de la orden.
type UseCase struct {
	tx         TxRunner
	ledger     *ledger.UseCase
	estrategia allocation.Estrategia
	pickRepo   repository.PickingRepository
	politica   Politica
}

// New construye el asignador.
func New(tx TxRunner, lg *ledger.UseCase, estrategia allocation.Estrategia, pickRepo repository.PickingRepository, politica Politica) *UseCase {
	if politica.CriterioCompletitud == "" {
		politica.CriterioCompletitud = entity.CriterioSolicitada
	}
	return &UseCase{tx: tx, ledger: lg, estrategia: estrategia, pickRepo: pickRepo, politica: politica}
}

// run ejecuta fn con un reintento ante conflicto de serialización.
func (uc *UseCase) run(ctx context.Context, fn func(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	loteRepo repository.LoteRepository,
	ordenRepo repository.OrdenRepository,
	pickRepo repository.PickingRepository,
) error) error {
	err := uc.tx.RunFulfillment(ctx, fn)
	if errors.Is(err, domain.ErrConflict) {
		err = uc.tx.RunFulfillment(ctx, fn)
	}
	return err
}

// CommitLineInTx reserva inventario para una línea: primero el lote preferente
// si está indicado y asignable, después el resto de candidatos en el orden de
// la estrategia (FEFO por defecto). Reparte la reserva entre tantos pares
// (ubicación, lote) como haga falta y devuelve lo reservado junto con un
// detalle de picking por par usado. Puede reservar menos de lo pedido.
func (uc *UseCase) CommitLineInTx(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	loteRepo repository.LoteRepository,
	linea *entity.DetalleOrden,
	actor string,
	now time.Time, txID string,
) (decimal.Decimal, []*entity.PickingDetalle, error) {
	pedido := linea.CantSolicitada.Sub(linea.CantComprometida)
	if !pedido.IsPositive() {
		return decimal.Zero, nil, nil
	}
	registros, err := invRepo.ListByProducto(linea.ProductoID)
	if err != nil {
		return decimal.Zero, nil, err
	}

	var preferidos, resto []allocation.Candidato
	for _, rec := range registros {
		if !rec.Disponible().IsPositive() {
			continue
		}
		var lote *entity.Lote
		if rec.LoteID != nil {
			lote, err = loteRepo.GetByID(*rec.LoteID)
			if err != nil {
				return decimal.Zero, nil, err
			}
			if lote == nil || !lote.Asignable(now) {
				continue
			}
		}
		c := allocation.Candidato{Registro: rec, Lote: lote}
		if linea.LotePreferente != nil && rec.LoteID != nil && *rec.LoteID == *linea.LotePreferente {
			preferidos = append(preferidos, c)
		} else {
			resto = append(resto, c)
		}
	}
	uc.estrategia.Ordenar(resto)
	candidatos := append(preferidos, resto...)

	reservado := decimal.Zero
	var detalles []*entity.PickingDetalle
	restante := pedido
	for _, c := range candidatos {
		if !restante.IsPositive() {
			break
		}
		take, err := uc.ledger.ReservarDisponibleInTx(invRepo, movRepo,
			c.Registro.ProductoID, c.Registro.UbicacionID, c.Registro.LoteID,
			restante, actor, "orden:"+linea.OrdenID, now, txID)
		if err != nil {
			return decimal.Zero, nil, err
		}
		if !take.IsPositive() {
			continue
		}
		detalles = append(detalles, &entity.PickingDetalle{
			ID:             uuid.New().String(),
			DetalleOrdenID: linea.ID,
			ProductoID:     c.Registro.ProductoID,
			UbicacionID:    c.Registro.UbicacionID,
			LoteID:         c.Registro.LoteID,
			CantObjetivo:   take,
			CantPickeada:   decimal.Zero,
		})
		reservado = reservado.Add(take)
		restante = restante.Sub(take)
	}
	return reservado, detalles, nil
}

// CrearTareaInTx agrupa detalles en una tarea de picking nueva para la orden.
func (uc *UseCase) CrearTareaInTx(
	pickRepo repository.PickingRepository,
	ordenID string, asignadoA *string, creadoPor string,
	detalles []*entity.PickingDetalle,
	now time.Time,
) (*entity.Picking, error) {
	tarea := &entity.Picking{
		ID:        uuid.New().String(),
		OrdenID:   ordenID,
		Estado:    entity.PickingAsignado,
		AsignadoA: asignadoA,
		CreadoPor: creadoPor,
		CreatedAt: now,
		UpdatedAt: now,
		Detalles:  detalles,
	}
	if asignadoA != nil {
		t := now
		tarea.FechaAsignacion = &t
	}
	for _, d := range detalles {
		d.PickingID = tarea.ID
	}
	if err := pickRepo.Create(tarea); err != nil {
		return nil, err
	}
	return tarea, nil
}

// CrearTarea crea una tarea de picking adicional para una orden EN_PICKING:
// reintenta la asignación de las líneas con compromiso incompleto (puede haber
// entrado stock desde la confirmación) y agrupa los detalles nuevos en una
// tarea. Falla con ErrInvalidInput si no hay nada que asignar.
func (uc *UseCase) CrearTarea(ctx context.Context, ordenID string, asignadoA *string, actor string) (*entity.Picking, error) {
	now := time.Now()
	txID := uuid.New().String()
	var creada *entity.Picking
	err := uc.run(ctx, func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		loteRepo repository.LoteRepository,
		ordenRepo repository.OrdenRepository,
		pickRepo repository.PickingRepository,
	) error {
		orden, err := ordenRepo.GetForUpdate(ordenID)
		if err != nil {
			return err
		}
		if orden == nil {
			return domain.ErrNotFound
		}
		if orden.Estado != entity.OrdenEnPicking {
			return domain.ErrInvalidState
		}
		var nuevos []*entity.PickingDetalle
		for _, linea := range orden.Detalles {
			reservado, detalles, err := uc.CommitLineInTx(invRepo, movRepo, loteRepo, linea, actor, now, txID)
			if err != nil {
				return err
			}
			if reservado.IsPositive() {
				linea.CantComprometida = linea.CantComprometida.Add(reservado)
				if err := ordenRepo.UpdateDetalle(linea); err != nil {
					return err
				}
				nuevos = append(nuevos, detalles...)
			}
		}
		if len(nuevos) == 0 {
			return domain.ErrInvalidInput
		}
		creada, err = uc.CrearTareaInTx(pickRepo, ordenID, asignadoA, actor, nuevos, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return creada, nil
}

// PickInput una confirmación de cantidad sobre un detalle de picking.
// CantConfirmada es acumulativa: la cantidad total pickeada del detalle.
type PickInput struct {
	DetalleID      string
	CantConfirmada decimal.Decimal
}

// RegistrarPicks aplica confirmaciones de cantidad en bloque sobre una tarea.
// Por cada delta positivo despacha stock reservado (SALIDA), agrega el avance
// a la línea de la orden y recalcula la completitud de la orden; todo dentro
// de una sola transacción. Falla con ErrExceedsTarget si una confirmación
// supera el objetivo del detalle.
func (uc *UseCase) RegistrarPicks(ctx context.Context, pickingID string, picks []PickInput, actor string) error {
	if len(picks) == 0 {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		loteRepo repository.LoteRepository,
		ordenRepo repository.OrdenRepository,
		pickRepo repository.PickingRepository,
	) error {
		tarea, err := pickRepo.GetForUpdate(pickingID)
		if err != nil {
			return err
		}
		if tarea == nil {
			return domain.ErrNotFound
		}
		if tarea.Terminal() {
			return domain.ErrInvalidState
		}

		detallesPorID := make(map[string]*entity.PickingDetalle, len(tarea.Detalles))
		for _, d := range tarea.Detalles {
			detallesPorID[d.ID] = d
		}
		// Delta pickeado acumulado por línea de orden
		avancePorLinea := make(map[string]decimal.Decimal)

		for _, p := range picks {
			det, ok := detallesPorID[p.DetalleID]
			if !ok {
				return domain.ErrNotFound
			}
			if p.CantConfirmada.LessThan(det.CantPickeada) || p.CantConfirmada.IsNegative() {
				return domain.ErrInvalidInput
			}
			if p.CantConfirmada.GreaterThan(det.CantObjetivo) {
				return domain.ErrExceedsTarget
			}
			delta := p.CantConfirmada.Sub(det.CantPickeada)
			if !delta.IsPositive() {
				continue
			}
			if err := uc.ledger.DespacharInTx(invRepo, movRepo, loteRepo,
				det.ProductoID, det.UbicacionID, det.LoteID,
				delta, actor, "picking:"+tarea.ID, now, txID); err != nil {
				return err
			}
			det.CantPickeada = p.CantConfirmada
			if err := pickRepo.UpdateDetalle(det); err != nil {
				return err
			}
			avancePorLinea[det.DetalleOrdenID] = avancePorLinea[det.DetalleOrdenID].Add(delta)
		}

		if len(avancePorLinea) == 0 {
			return nil
		}
		if tarea.Estado == entity.PickingAsignado {
			tarea.Estado = entity.PickingEnProceso
		}
		tarea.UpdatedAt = now
		if err := pickRepo.Update(tarea); err != nil {
			return err
		}

		orden, err := ordenRepo.GetForUpdate(tarea.OrdenID)
		if err != nil {
			return err
		}
		if orden == nil {
			return domain.ErrNotFound
		}
		for _, linea := range orden.Detalles {
			delta, ok := avancePorLinea[linea.ID]
			if !ok {
				continue
			}
			linea.CantPickeada = linea.CantPickeada.Add(delta)
			if err := ordenRepo.UpdateDetalle(linea); err != nil {
				return err
			}
		}
		return uc.recalcularCompletitudInTx(ordenRepo, orden, now)
	})
}

// recalcularCompletitudInTx pasa la orden a PICKING_COMPLETO cuando todas sus
// líneas quedan completas bajo el criterio configurado.
func (uc *UseCase) recalcularCompletitudInTx(ordenRepo repository.OrdenRepository, orden *entity.OrdenSalida, now time.Time) error {
	if orden.Estado != entity.OrdenEnPicking {
		return nil
	}
	if !entity.OrdenCompleta(orden.Detalles, uc.politica.CriterioCompletitud) {
		return nil
	}
	orden.Estado = entity.OrdenPickingCompleto
	orden.UpdatedAt = now
	return ordenRepo.UpdateEstado(orden)
}

// CompletarTarea cierra la tarea. Si quedan objetivos sin cumplir falla con
// ErrIncompleteDetails, salvo que el cierre forzado esté habilitado: entonces
// libera la reserva del faltante y descuenta el compromiso de las líneas.
func (uc *UseCase) CompletarTarea(ctx context.Context, pickingID, actor string) error {
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		loteRepo repository.LoteRepository,
		ordenRepo repository.OrdenRepository,
		pickRepo repository.PickingRepository,
	) error {
		tarea, err := pickRepo.GetForUpdate(pickingID)
		if err != nil {
			return err
		}
		if tarea == nil {
			return domain.ErrNotFound
		}
		if tarea.Terminal() {
			return domain.ErrInvalidState
		}

		var pendientes []*entity.PickingDetalle
		for _, d := range tarea.Detalles {
			if d.Pendiente().IsPositive() {
				pendientes = append(pendientes, d)
			}
		}
		if len(pendientes) > 0 {
			if !uc.politica.PermitirCierreForzado {
				return domain.ErrIncompleteDetails
			}
			if err := uc.liberarPendientesInTx(invRepo, movRepo, ordenRepo, tarea, pendientes, actor, now, txID); err != nil {
				return err
			}
		}

		tarea.Estado = entity.PickingCompletado
		tarea.FechaCierre = &now
		tarea.UpdatedAt = now
		return pickRepo.Update(tarea)
	})
}

// CancelarTarea cancela la tarea liberando la reserva pendiente
// (objetivo − pickeado) de cada detalle y descontando el compromiso de las
// líneas para que puedan reasignarse. Lo ya pickeado no se revierte.
func (uc *UseCase) CancelarTarea(ctx context.Context, pickingID, actor string) error {
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
		invRepo repository.InventarioRepository,
		movRepo repository.MovimientoRepository,
		loteRepo repository.LoteRepository,
		ordenRepo repository.OrdenRepository,
		pickRepo repository.PickingRepository,
	) error {
		tarea, err := pickRepo.GetForUpdate(pickingID)
		if err != nil {
			return err
		}
		if tarea == nil {
			return domain.ErrNotFound
		}
		if tarea.Terminal() {
			return domain.ErrInvalidState
		}

		var pendientes []*entity.PickingDetalle
		for _, d := range tarea.Detalles {
			if d.Pendiente().IsPositive() {
				pendientes = append(pendientes, d)
			}
		}
		if len(pendientes) > 0 {
			if err := uc.liberarPendientesInTx(invRepo, movRepo, ordenRepo, tarea, pendientes, actor, now, txID); err != nil {
				return err
			}
		}

		tarea.Estado = entity.PickingCancelado
		tarea.FechaCierre = &now
		tarea.UpdatedAt = now
		return pickRepo.Update(tarea)
	})
}

// liberarPendientesInTx libera la reserva pendiente de los detalles dados y
// descuenta el compromiso correspondiente en las líneas de la orden. Al bajar
// el compromiso las líneas pueden quedar completas bajo el criterio
// "comprometida", así que recalcula la completitud antes de salir.
func (uc *UseCase) liberarPendientesInTx(
	invRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	ordenRepo repository.OrdenRepository,
	tarea *entity.Picking,
	pendientes []*entity.PickingDetalle,
	actor string,
	now time.Time, txID string,
) error {
	liberadoPorLinea := make(map[string]decimal.Decimal)
	for _, d := range pendientes {
		restante := d.Pendiente()
		if err := uc.ledger.LiberarInTx(invRepo, movRepo,
			d.ProductoID, d.UbicacionID, d.LoteID,
			restante, actor, "picking:"+tarea.ID, now, txID); err != nil {
			return err
		}
		liberadoPorLinea[d.DetalleOrdenID] = liberadoPorLinea[d.DetalleOrdenID].Add(restante)
	}
	orden, err := ordenRepo.GetForUpdate(tarea.OrdenID)
	if err != nil {
		return err
	}
	if orden == nil {
		return domain.ErrNotFound
	}
	for _, linea := range orden.Detalles {
		liberado, ok := liberadoPorLinea[linea.ID]
		if !ok {
			continue
		}
		linea.CantComprometida = linea.CantComprometida.Sub(liberado)
		if linea.CantComprometida.LessThan(linea.CantPickeada) {
			linea.CantComprometida = linea.CantPickeada
		}
		if err := ordenRepo.UpdateDetalle(linea); err != nil {
			return err
		}
	}
	return uc.recalcularCompletitudInTx(ordenRepo, orden, now)
}

// Asignar asigna la tarea a un operador. Permitido mientras no sea terminal.
func (uc *UseCase) Asignar(ctx context.Context, pickingID, usuarioID string) error {
	if usuarioID == "" {
		return domain.ErrInvalidInput
	}
	tarea, err := uc.pickRepo.GetByID(pickingID)
	if err != nil {
		return err
	}
	if tarea == nil {
		return domain.ErrNotFound
	}
	if tarea.Terminal() {
		return domain.ErrInvalidState
	}
	now := time.Now()
	tarea.AsignadoA = &usuarioID
	tarea.FechaAsignacion = &now
	tarea.UpdatedAt = now
	return uc.pickRepo.Update(tarea)
}

// Iniciar pasa la tarea a EN_PROCESO desde ASIGNADO o PAUSADO.
func (uc *UseCase) Iniciar(ctx context.Context, pickingID string) error {
	return uc.transicion(pickingID, entity.PickingEnProceso, entity.PickingAsignado, entity.PickingPausado)
}

// Pausar pasa la tarea a PAUSADO desde EN_PROCESO.
func (uc *UseCase) Pausar(ctx context.Context, pickingID string) error {
	return uc.transicion(pickingID, entity.PickingPausado, entity.PickingEnProceso)
}

func (uc *UseCase) transicion(pickingID, hacia string, desde ...string) error {
	tarea, err := uc.pickRepo.GetByID(pickingID)
	if err != nil {
		return err
	}
	if tarea == nil {
		return domain.ErrNotFound
	}
	for _, s := range desde {
		if tarea.Estado == s {
			tarea.Estado = hacia
			tarea.UpdatedAt = time.Now()
			return uc.pickRepo.Update(tarea)
		}
	}
	return domain.ErrInvalidState
}

// GetByID devuelve la tarea con sus detalles.
func (uc *UseCase) GetByID(ctx context.Context, pickingID string) (*entity.Picking, error) {
	tarea, err := uc.pickRepo.GetByID(pickingID)
	if err != nil {
		return nil, err
	}
	if tarea == nil {
		return nil, domain.ErrNotFound
	}
	return tarea, nil
}

// List lista tareas de picking, opcionalmente por estado.
func (uc *UseCase) List(ctx context.Context, estado string, limit, offset int) ([]*entity.Picking, int, error) {
	if estado != "" {
		switch estado {
		case entity.PickingAsignado, entity.PickingEnProceso, entity.PickingPausado,
			entity.PickingCompletado, entity.PickingCancelado:
		default:
			return nil, 0, domain.ErrInvalidInput
		}
	}
	return uc.pickRepo.List(estado, limit, offset)
}

package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/picking"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Politica opciones de negocio del gestor de órdenes.
type Politica struct {
	// PermitirCompromisoParcial: si una línea no puede reservarse completa en
	// la confirmación, se compromete lo disponible. Con false la confirmación
	// falla entera con ErrInsufficientStock y la orden sigue en CREADA.
	PermitirCompromisoParcial bool
	// CriterioCompletitud se usa para las métricas de la orden; debe coincidir
	// con el del asignador.
	CriterioCompletitud string
}

// UseCase gestiona el ciclo de vida de las órdenes de salida:
// CREADA → EN_PICKING → PICKING_COMPLETO, con cancelación desde los dos
// primeros estados. La confirmación y la cancelación corren en una sola
// transacción junto con las reservas del ledger.
type UseCase struct {
	tx        picking.TxRunner
	alloc     *picking.UseCase
	ledger    *ledger.UseCase
	ordenRepo repository.OrdenRepository
	prodRepo  repository.ProductoRepository
	loteRepo  repository.LoteRepository
	pickRepo  repository.PickingRepository
	politica  Politica
}

// New construye el gestor de órdenes.
func New(
	tx picking.TxRunner,
	alloc *picking.UseCase,
	ledgerUC *ledger.UseCase,
	ordenRepo repository.OrdenRepository,
	prodRepo repository.ProductoRepository,
	loteRepo repository.LoteRepository,
	pickRepo repository.PickingRepository,
	politica Politica,
) *UseCase {
	if politica.CriterioCompletitud == "" {
		politica.CriterioCompletitud = entity.CriterioSolicitada
	}
	return &UseCase{
		tx:        tx,
		alloc:     alloc,
		ledger:    ledgerUC,
		ordenRepo: ordenRepo,
		prodRepo:  prodRepo,
		loteRepo:  loteRepo,
		pickRepo:  pickRepo,
		politica:  politica,
	}
}

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

// LineaInput una línea solicitada al crear la orden.
type LineaInput struct {
	ProductoID     string
	CantSolicitada decimal.Decimal
	LotePreferente *string
}

// CrearInput entrada para crear una orden de salida.
type CrearInput struct {
	Cliente         string
	FechaCompromiso time.Time
	Prioridad       int
	Lineas          []LineaInput
	CreadoPor       string
}

// Crear valida y persiste una orden en CREADA con sus líneas en cero
// comprometido/pickeado. Cada línea exige cantidad positiva y producto
// activo resoluble; el lote preferente, si viene, debe ser del producto.
func (uc *UseCase) Crear(ctx context.Context, in CrearInput) (*entity.OrdenSalida, error) {
	if in.Cliente == "" || len(in.Lineas) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Prioridad < 1 || in.Prioridad > 5 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	orden := &entity.OrdenSalida{
		ID:              uuid.New().String(),
		Cliente:         in.Cliente,
		Prioridad:       in.Prioridad,
		FechaCompromiso: in.FechaCompromiso,
		Estado:          entity.OrdenCreada,
		CreadoPor:       in.CreadoPor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, l := range in.Lineas {
		if !l.CantSolicitada.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		producto, err := uc.prodRepo.GetByID(l.ProductoID)
		if err != nil {
			return nil, err
		}
		if producto == nil || !producto.Activo {
			return nil, domain.ErrNotFound
		}
		if l.LotePreferente != nil {
			lote, err := uc.loteRepo.GetByID(*l.LotePreferente)
			if err != nil {
				return nil, err
			}
			if lote == nil || lote.ProductoID != l.ProductoID {
				return nil, domain.ErrInvalidInput
			}
		}
		orden.Detalles = append(orden.Detalles, &entity.DetalleOrden{
			ID:               uuid.New().String(),
			OrdenID:          orden.ID,
			ProductoID:       l.ProductoID,
			LotePreferente:   l.LotePreferente,
			CantSolicitada:   l.CantSolicitada,
			CantComprometida: decimal.Zero,
			CantPickeada:     decimal.Zero,
		})
	}
	if err := uc.ordenRepo.Create(orden); err != nil {
		return nil, err
	}
	return orden, nil
}

// Confirmar compromete inventario para cada línea vía el asignador, crea la
// tarea de picking con los detalles resultantes y pasa la orden a EN_PICKING.
// Solo válido desde CREADA; una segunda confirmación falla con ErrInvalidState
// sin tocar nada. Con compromiso parcial deshabilitado, cualquier línea corta
// revierte la transacción entera.
func (uc *UseCase) Confirmar(ctx context.Context, ordenID, actor string) error {
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
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
		if orden.Estado != entity.OrdenCreada {
			return domain.ErrInvalidState
		}

		var detalles []*entity.PickingDetalle
		for _, linea := range orden.Detalles {
			reservado, dets, err := uc.alloc.CommitLineInTx(invRepo, movRepo, loteRepo, linea, actor, now, txID)
			if err != nil {
				return err
			}
			if !uc.politica.PermitirCompromisoParcial && reservado.LessThan(linea.CantSolicitada) {
				return domain.ErrInsufficientStock
			}
			linea.CantComprometida = reservado
			if err := ordenRepo.UpdateDetalle(linea); err != nil {
				return err
			}
			detalles = append(detalles, dets...)
		}

		if len(detalles) > 0 {
			if _, err := uc.alloc.CrearTareaInTx(pickRepo, orden.ID, nil, actor, detalles, now); err != nil {
				return err
			}
		}

		orden.Estado = entity.OrdenEnPicking
		orden.UpdatedAt = now
		return ordenRepo.UpdateEstado(orden)
	})
}

// Cancelar cancela la orden desde CREADA o EN_PICKING: cancela las tareas de
// picking abiertas liberando la reserva pendiente de cada detalle. Lo ya
// pickeado no se revierte (esa mercancía salió con sus movimientos SALIDA;
// una devolución es un movimiento DEVOLUCION explícito aparte).
func (uc *UseCase) Cancelar(ctx context.Context, ordenID, actor string) error {
	now := time.Now()
	txID := uuid.New().String()
	return uc.run(ctx, func(
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
		if orden.Terminal() {
			return domain.ErrInvalidState
		}

		tareas, err := pickRepo.ListByOrden(orden.ID)
		if err != nil {
			return err
		}
		for _, tarea := range tareas {
			if tarea.Terminal() {
				continue
			}
			for _, d := range tarea.Detalles {
				restante := d.Pendiente()
				if !restante.IsPositive() {
					continue
				}
				if err := uc.ledger.LiberarInTx(invRepo, movRepo,
					d.ProductoID, d.UbicacionID, d.LoteID, restante, actor, "orden:"+orden.ID, now, txID); err != nil {
					return err
				}
			}
			tarea.Estado = entity.PickingCancelado
			tarea.FechaCierre = &now
			tarea.UpdatedAt = now
			if err := pickRepo.Update(tarea); err != nil {
				return err
			}
		}

		orden.Estado = entity.OrdenCancelada
		orden.UpdatedAt = now
		return ordenRepo.UpdateEstado(orden)
	})
}

// Metricas agregados de avance de una orden.
type Metricas struct {
	TotalLineas          int
	LineasCompletas      int
	PorcentajeCompletado decimal.Decimal
	TotalPickings        int
}

// GetByID devuelve la orden con sus líneas y métricas de avance bajo el
// criterio de completitud configurado.
func (uc *UseCase) GetByID(ctx context.Context, ordenID string) (*entity.OrdenSalida, *Metricas, error) {
	orden, err := uc.ordenRepo.GetByID(ordenID)
	if err != nil {
		return nil, nil, err
	}
	if orden == nil {
		return nil, nil, domain.ErrNotFound
	}
	completas := 0
	for _, d := range orden.Detalles {
		if d.Completa(uc.politica.CriterioCompletitud) {
			completas++
		}
	}
	pickings, err := uc.pickRepo.CountByOrden(ordenID)
	if err != nil {
		return nil, nil, err
	}
	m := &Metricas{
		TotalLineas:     len(orden.Detalles),
		LineasCompletas: completas,
		TotalPickings:   pickings,
	}
	if m.TotalLineas > 0 {
		m.PorcentajeCompletado = decimal.NewFromInt(int64(completas * 100)).
			Div(decimal.NewFromInt(int64(m.TotalLineas))).Round(2)
	}
	return orden, m, nil
}

// List lista órdenes con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, filtro repository.OrdenFiltro) ([]*entity.OrdenSalida, int, error) {
	if filtro.Estado != "" && !entity.EstadoOrdenValido(filtro.Estado) {
		return nil, 0, domain.ErrInvalidInput
	}
	return uc.ordenRepo.List(filtro)
}

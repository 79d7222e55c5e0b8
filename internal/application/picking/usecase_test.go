package picking_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/application/picking"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/allocation"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: asignador de picking sobre el storage en memoria, con el gestor de
// órdenes para llevar las órdenes hasta EN_PICKING.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	picking  *picking.UseCase
	orders   *orders.UseCase
	ledger   *ledger.UseCase
	invRepo  repository.InventarioRepository
	ordRepo  repository.OrdenRepository
	pickRepo repository.PickingRepository
	loteRepo repository.LoteRepository
}

const (
	prodID = "prod-1"
	ubicID = "ubic-1"
	loteID = "lote-1"
	actor  = "tester"
)

func newFixture(t *testing.T, forzado bool) *fixture {
	return newFixtureCriterio(t, forzado, "")
}

func newFixtureCriterio(t *testing.T, forzado bool, criterio string) *fixture {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	ledgerUC := ledger.New(tx)
	estrategia, err := allocation.Nueva(allocation.FEFO)
	require.NoError(t, err)

	pickRepo := memory.NewPickingRepository(store)
	pickingUC := picking.New(tx, ledgerUC, estrategia, pickRepo, picking.Politica{
		CriterioCompletitud:   criterio,
		PermitirCierreForzado: forzado,
	})
	ordRepo := memory.NewOrdenRepository(store)
	prodRepo := memory.NewProductoRepository(store)
	loteRepo := memory.NewLoteRepository(store)
	ordersUC := orders.New(tx, pickingUC, ledgerUC, ordRepo, prodRepo, loteRepo, pickRepo,
		orders.Politica{PermitirCompromisoParcial: true, CriterioCompletitud: criterio})

	now := time.Now()
	require.NoError(t, prodRepo.Create(&entity.Producto{
		ID: prodID, Codigo: "SKU-001", Nombre: "Harina 1kg",
		Estado: entity.ProductoDisponible, Activo: true,
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, memory.NewUbicacionRepository(store).Create(&entity.Ubicacion{
		ID: ubicID, Codigo: "A-01-01", Tipo: entity.UbicacionPicking,
		Activa: true, CreatedAt: now, UpdatedAt: now,
	}))
	return &fixture{
		picking:  pickingUC,
		orders:   ordersUC,
		ledger:   ledgerUC,
		invRepo:  memory.NewInventarioRepository(store),
		ordRepo:  ordRepo,
		pickRepo: pickRepo,
		loteRepo: loteRepo,
	}
}

// sembrar carga qty unidades del lote en la ubicación de picking.
func (f *fixture) sembrar(t *testing.T, qty int64) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.loteRepo.Create(&entity.Lote{
		ID: loteID, Codigo: "L-001", ProductoID: prodID,
		CantidadInicial:    decimal.NewFromInt(qty),
		CantidadDisponible: decimal.Zero,
		FechaVencimiento:   now.AddDate(0, 3, 0),
		Estado:             entity.LoteDisponible,
		CreatedAt:          now, UpdatedAt: now,
	}))
	id := loteID
	require.NoError(t, f.ledger.Ajustar(context.Background(), ledger.AjusteInput{
		ProductoID: prodID, UbicacionID: ubicID, LoteID: &id,
		Tipo: entity.MovEntrada, Cantidad: decimal.NewFromInt(qty), Actor: actor,
	}))
}

// ordenEnPicking crea y confirma una orden de qty unidades, devolviendo la
// orden y su tarea de picking.
func (f *fixture) ordenEnPicking(t *testing.T, qty int64) (*entity.OrdenSalida, *entity.Picking) {
	t.Helper()
	ctx := context.Background()
	orden, err := f.orders.Crear(ctx, orders.CrearInput{
		Cliente: "ACME", Prioridad: 1,
		Lineas:    []orders.LineaInput{{ProductoID: prodID, CantSolicitada: decimal.NewFromInt(qty)}},
		CreadoPor: actor,
	})
	require.NoError(t, err)
	require.NoError(t, f.orders.Confirmar(ctx, orden.ID, actor))
	tareas, err := f.pickRepo.ListByOrden(orden.ID)
	require.NoError(t, err)
	require.Len(t, tareas, 1)
	return orden, tareas[0]
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de la tarea
// ──────────────────────────────────────────────────────────────────────────────

func TestTransiciones_AsignarIniciarPausar(t *testing.T) {
	f := newFixture(t, false)
	f.sembrar(t, 50)
	_, tarea := f.ordenEnPicking(t, 20)
	ctx := context.Background()

	require.NoError(t, f.picking.Asignar(ctx, tarea.ID, "operador-1"))
	cargada, err := f.picking.GetByID(ctx, tarea.ID)
	require.NoError(t, err)
	require.NotNil(t, cargada.AsignadoA)
	assert.Equal(t, "operador-1", *cargada.AsignadoA)
	assert.NotNil(t, cargada.FechaAsignacion)

	require.NoError(t, f.picking.Iniciar(ctx, tarea.ID))
	require.NoError(t, f.picking.Pausar(ctx, tarea.ID))
	require.NoError(t, f.picking.Iniciar(ctx, tarea.ID), "desde PAUSADO puede retomarse")

	// Pausar dos veces seguidas no es válido.
	require.NoError(t, f.picking.Pausar(ctx, tarea.ID))
	assert.ErrorIs(t, f.picking.Pausar(ctx, tarea.ID), domain.ErrInvalidState)
}

func TestTransiciones_TareaTerminalNoSeMueve(t *testing.T) {
	f := newFixture(t, false)
	f.sembrar(t, 50)
	_, tarea := f.ordenEnPicking(t, 20)
	ctx := context.Background()

	require.NoError(t, f.picking.CancelarTarea(ctx, tarea.ID, actor))

	assert.ErrorIs(t, f.picking.Iniciar(ctx, tarea.ID), domain.ErrInvalidState)
	assert.ErrorIs(t, f.picking.Asignar(ctx, tarea.ID, "op"), domain.ErrInvalidState)
	assert.ErrorIs(t, f.picking.CompletarTarea(ctx, tarea.ID, actor), domain.ErrInvalidState)
}

func TestGetByID_TareaInexistente(t *testing.T) {
	f := newFixture(t, false)

	tarea, err := f.picking.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, tarea)
}

func TestRegistrarPicks_PrimeraConfirmacionArrancaLaTarea(t *testing.T) {
	f := newFixture(t, false)
	f.sembrar(t, 50)
	_, tarea := f.ordenEnPicking(t, 20)

	require.NoError(t, f.picking.RegistrarPicks(context.Background(), tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(5)}},
		actor))

	cargada, err := f.picking.GetByID(context.Background(), tarea.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickingEnProceso, cargada.Estado)
}

// ──────────────────────────────────────────────────────────────────────────────
// Completar
// ──────────────────────────────────────────────────────────────────────────────

func TestCompletar_ConPendientesFallaSinCierreForzado(t *testing.T) {
	f := newFixture(t, false)
	f.sembrar(t, 50)
	_, tarea := f.ordenEnPicking(t, 20)
	ctx := context.Background()

	require.NoError(t, f.picking.RegistrarPicks(ctx, tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(12)}},
		actor))

	err := f.picking.CompletarTarea(ctx, tarea.ID, actor)
	assert.ErrorIs(t, err, domain.ErrIncompleteDetails)
}

func TestCompletar_CierreForzadoLiberaElFaltante(t *testing.T) {
	f := newFixture(t, true)
	f.sembrar(t, 50)
	orden, tarea := f.ordenEnPicking(t, 20)
	ctx := context.Background()

	require.NoError(t, f.picking.RegistrarPicks(ctx, tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(12)}},
		actor))
	require.NoError(t, f.picking.CompletarTarea(ctx, tarea.ID, actor))

	cargada, err := f.picking.GetByID(ctx, tarea.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickingCompletado, cargada.Estado)
	assert.NotNil(t, cargada.FechaCierre)

	// Las 8 unidades no pickeadas vuelven al disponible.
	id := loteID
	rec, err := f.invRepo.Get(prodID, ubicID, &id)
	require.NoError(t, err)
	assert.True(t, rec.CantidadReservada.IsZero())
	assert.True(t, rec.Cantidad.Equal(decimal.NewFromInt(38)))

	// El compromiso de la línea baja a lo efectivamente pickeado.
	o, err := f.ordRepo.GetByID(orden.ID)
	require.NoError(t, err)
	assert.True(t, o.Detalles[0].CantComprometida.Equal(decimal.NewFromInt(12)))
}

func TestCompletar_CierreForzadoCompletaLaOrdenBajoComprometida(t *testing.T) {
	f := newFixtureCriterio(t, true, entity.CriterioComprometida)
	f.sembrar(t, 50)
	orden, tarea := f.ordenEnPicking(t, 20)
	ctx := context.Background()

	require.NoError(t, f.picking.RegistrarPicks(ctx, tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(12)}},
		actor))
	require.NoError(t, f.picking.CompletarTarea(ctx, tarea.ID, actor))

	// Al bajar el compromiso a lo pickeado, la línea queda completa bajo el
	// criterio "comprometida" y la orden debe cerrarse: ningún pick posterior
	// va a llegar (la tarea es terminal y comprometido == pickeado).
	o, err := f.ordRepo.GetByID(orden.ID)
	require.NoError(t, err)
	assert.True(t, o.Detalles[0].CantComprometida.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, entity.OrdenPickingCompleto, o.Estado)
}

func TestCompletar_SinPendientesCierraLimpio(t *testing.T) {
	f := newFixture(t, false)
	f.sembrar(t, 50)
	_, tarea := f.ordenEnPicking(t, 20)
	ctx := context.Background()

	require.NoError(t, f.picking.RegistrarPicks(ctx, tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(20)}},
		actor))
	require.NoError(t, f.picking.CompletarTarea(ctx, tarea.ID, actor))

	cargada, err := f.picking.GetByID(ctx, tarea.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickingCompletado, cargada.Estado)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelar y reasignar
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelarTarea_PermiteReasignarConNuevaTarea(t *testing.T) {
	f := newFixture(t, false)
	f.sembrar(t, 50)
	orden, tarea := f.ordenEnPicking(t, 20)
	ctx := context.Background()

	require.NoError(t, f.picking.CancelarTarea(ctx, tarea.ID, actor))

	// El compromiso quedó en cero y el stock volvió a disponible: una tarea
	// nueva debe poder reservar de nuevo las 20 unidades.
	nueva, err := f.picking.CrearTarea(ctx, orden.ID, nil, actor)
	require.NoError(t, err)
	require.Len(t, nueva.Detalles, 1)
	assert.True(t, nueva.Detalles[0].CantObjetivo.Equal(decimal.NewFromInt(20)))

	o, err := f.ordRepo.GetByID(orden.ID)
	require.NoError(t, err)
	assert.True(t, o.Detalles[0].CantComprometida.Equal(decimal.NewFromInt(20)))
}

func TestCrearTarea_SinFaltanteNoHayNadaQueAsignar(t *testing.T) {
	f := newFixture(t, false)
	f.sembrar(t, 50)
	orden, _ := f.ordenEnPicking(t, 20)

	_, err := f.picking.CrearTarea(context.Background(), orden.ID, nil, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"con la línea ya comprometida completa no hay nada que asignar")
}

func TestCrearTarea_TomaElStockQueEntroDespues(t *testing.T) {
	f := newFixture(t, false)
	f.sembrar(t, 30)
	orden, _ := f.ordenEnPicking(t, 50) // compromete 30, faltan 20
	ctx := context.Background()

	// Entra mercancía nueva como stock sin lote.
	require.NoError(t, f.ledger.Ajustar(ctx, ledger.AjusteInput{
		ProductoID: prodID, UbicacionID: ubicID,
		Tipo: entity.MovDevolucion, Cantidad: decimal.NewFromInt(20), Actor: actor,
	}))

	operador := "operador-2"
	nueva, err := f.picking.CrearTarea(ctx, orden.ID, &operador, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.PickingAsignado, nueva.Estado)
	require.NotNil(t, nueva.AsignadoA)

	total := decimal.Zero
	for _, d := range nueva.Detalles {
		total = total.Add(d.CantObjetivo)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(20)),
		"la tarea nueva cubre exactamente el faltante")

	o, err := f.ordRepo.GetByID(orden.ID)
	require.NoError(t, err)
	assert.True(t, o.Detalles[0].CantComprometida.Equal(decimal.NewFromInt(50)))
}

func TestCrearTarea_SoloParaOrdenesEnPicking(t *testing.T) {
	f := newFixture(t, false)
	f.sembrar(t, 50)
	orden, err := f.orders.Crear(context.Background(), orders.CrearInput{
		Cliente: "ACME", Prioridad: 1,
		Lineas:    []orders.LineaInput{{ProductoID: prodID, CantSolicitada: decimal.NewFromInt(5)}},
		CreadoPor: actor,
	})
	require.NoError(t, err)

	_, err = f.picking.CrearTarea(context.Background(), orden.ID, nil, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "la orden sigue en CREADA")
}

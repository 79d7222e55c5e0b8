package orders_test

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
// Fixture: flujo de fulfillment completo sobre el storage en memoria.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	orders   *orders.UseCase
	picking  *picking.UseCase
	ledger   *ledger.UseCase
	invRepo  repository.InventarioRepository
	ordRepo  repository.OrdenRepository
	pickRepo repository.PickingRepository
	prodRepo repository.ProductoRepository
	loteRepo repository.LoteRepository
}

type opciones struct {
	parcial  bool
	criterio string
	forzado  bool
}

const (
	prodID = "prod-1"
	ubicID = "ubic-1"
	actor  = "tester"
)

func newFixture(t *testing.T, opt opciones) *fixture {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	ledgerUC := ledger.New(tx)

	estrategia, err := allocation.Nueva(allocation.FEFO)
	require.NoError(t, err)

	pickRepo := memory.NewPickingRepository(store)
	pickingUC := picking.New(tx, ledgerUC, estrategia, pickRepo, picking.Politica{
		CriterioCompletitud:   opt.criterio,
		PermitirCierreForzado: opt.forzado,
	})

	ordRepo := memory.NewOrdenRepository(store)
	prodRepo := memory.NewProductoRepository(store)
	loteRepo := memory.NewLoteRepository(store)
	ordersUC := orders.New(tx, pickingUC, ledgerUC, ordRepo, prodRepo, loteRepo, pickRepo,
		orders.Politica{
			PermitirCompromisoParcial: opt.parcial,
			CriterioCompletitud:       opt.criterio,
		})

	f := &fixture{
		orders:   ordersUC,
		picking:  pickingUC,
		ledger:   ledgerUC,
		invRepo:  memory.NewInventarioRepository(store),
		ordRepo:  ordRepo,
		pickRepo: pickRepo,
		prodRepo: prodRepo,
		loteRepo: loteRepo,
	}

	now := time.Now()
	require.NoError(t, prodRepo.Create(&entity.Producto{
		ID: prodID, Codigo: "SKU-001", Nombre: "Café molido 500g",
		Estado: entity.ProductoDisponible, Activo: true,
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, memory.NewUbicacionRepository(store).Create(&entity.Ubicacion{
		ID: ubicID, Codigo: "A-01-01", Tipo: entity.UbicacionPicking,
		Activa: true, CreatedAt: now, UpdatedAt: now,
	}))
	return f
}

// sembrarLote crea un lote y carga qty unidades en la ubicación de picking.
func (f *fixture) sembrarLote(t *testing.T, id string, vencDias int, qty int64) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.loteRepo.Create(&entity.Lote{
		ID: id, Codigo: "L-" + id, ProductoID: prodID,
		CantidadInicial:    decimal.NewFromInt(qty),
		CantidadDisponible: decimal.Zero,
		FechaFabricacion:   now.AddDate(0, 0, -30),
		FechaVencimiento:   now.AddDate(0, 0, vencDias),
		Estado:             entity.LoteDisponible,
		CreatedAt:          now, UpdatedAt: now,
	}))
	loteID := id
	require.NoError(t, f.ledger.Ajustar(context.Background(), ledger.AjusteInput{
		ProductoID:  prodID,
		UbicacionID: ubicID,
		LoteID:      &loteID,
		Tipo:        entity.MovEntrada,
		Cantidad:    decimal.NewFromInt(qty),
		Actor:       actor,
	}))
}

// crearOrden crea una orden de una línea por qty unidades.
func (f *fixture) crearOrden(t *testing.T, qty int64) *entity.OrdenSalida {
	t.Helper()
	orden, err := f.orders.Crear(context.Background(), orders.CrearInput{
		Cliente:         "ACME",
		FechaCompromiso: time.Now().AddDate(0, 0, 2),
		Prioridad:       2,
		Lineas: []orders.LineaInput{
			{ProductoID: prodID, CantSolicitada: decimal.NewFromInt(qty)},
		},
		CreadoPor: actor,
	})
	require.NoError(t, err)
	return orden
}

func (f *fixture) orden(t *testing.T, id string) *entity.OrdenSalida {
	t.Helper()
	o, err := f.ordRepo.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o
}

func (f *fixture) tareaDeOrden(t *testing.T, ordenID string) *entity.Picking {
	t.Helper()
	tareas, err := f.pickRepo.ListByOrden(ordenID)
	require.NoError(t, err)
	require.NotEmpty(t, tareas, "la confirmación debe crear una tarea de picking")
	return tareas[0]
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear
// ──────────────────────────────────────────────────────────────────────────────

func TestCrear_ValidaLineas(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	ctx := context.Background()

	_, err := f.orders.Crear(ctx, orders.CrearInput{Cliente: "ACME", Prioridad: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas no hay orden")

	_, err = f.orders.Crear(ctx, orders.CrearInput{
		Cliente: "ACME", Prioridad: 9,
		Lineas: []orders.LineaInput{{ProductoID: prodID, CantSolicitada: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "prioridad fuera de 1..5")

	_, err = f.orders.Crear(ctx, orders.CrearInput{
		Cliente: "ACME", Prioridad: 1,
		Lineas: []orders.LineaInput{{ProductoID: "no-existe", CantSolicitada: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCrear_LotePreferenteDebeSerDelProducto(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	now := time.Now()
	require.NoError(t, f.loteRepo.Create(&entity.Lote{
		ID: "lote-ajeno", Codigo: "L-X", ProductoID: "otro-producto",
		CantidadInicial: decimal.NewFromInt(10),
		Estado:          entity.LoteDisponible,
		CreatedAt:       now, UpdatedAt: now,
	}))

	ajeno := "lote-ajeno"
	_, err := f.orders.Crear(context.Background(), orders.CrearInput{
		Cliente: "ACME", Prioridad: 1,
		Lineas: []orders.LineaInput{{
			ProductoID:     prodID,
			CantSolicitada: decimal.NewFromInt(1),
			LotePreferente: &ajeno,
		}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmar
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirmar_CompromisoParcialConStockCorto(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	f.sembrarLote(t, "lote-1", 30, 60)
	orden := f.crearOrden(t, 100)

	require.NoError(t, f.orders.Confirmar(context.Background(), orden.ID, actor))

	o := f.orden(t, orden.ID)
	assert.Equal(t, entity.OrdenEnPicking, o.Estado)
	assert.True(t, o.Detalles[0].CantComprometida.Equal(decimal.NewFromInt(60)),
		"con 60 disponibles de 100 pedidas se compromete lo que hay")

	tarea := f.tareaDeOrden(t, orden.ID)
	assert.Equal(t, entity.PickingAsignado, tarea.Estado)
	total := decimal.Zero
	for _, d := range tarea.Detalles {
		total = total.Add(d.CantObjetivo)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(60)))

	loteID := "lote-1"
	rec, err := f.invRepo.Get(prodID, ubicID, &loteID)
	require.NoError(t, err)
	assert.True(t, rec.CantidadReservada.Equal(decimal.NewFromInt(60)),
		"el compromiso queda respaldado por reserva en el ledger")
}

func TestConfirmar_SinCompromisoParcialRevierteTodo(t *testing.T) {
	f := newFixture(t, opciones{parcial: false})
	f.sembrarLote(t, "lote-1", 30, 60)
	orden := f.crearOrden(t, 100)

	err := f.orders.Confirmar(context.Background(), orden.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	o := f.orden(t, orden.ID)
	assert.Equal(t, entity.OrdenCreada, o.Estado, "la orden no avanza")
	assert.True(t, o.Detalles[0].CantComprometida.IsZero())

	loteID := "lote-1"
	rec, err := f.invRepo.Get(prodID, ubicID, &loteID)
	require.NoError(t, err)
	assert.True(t, rec.CantidadReservada.IsZero(),
		"la transacción revertida no deja reservas colgadas")
}

func TestConfirmar_DobleConfirmacionFalla(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	f.sembrarLote(t, "lote-1", 30, 100)
	orden := f.crearOrden(t, 50)

	require.NoError(t, f.orders.Confirmar(context.Background(), orden.ID, actor))
	err := f.orders.Confirmar(context.Background(), orden.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	loteID := "lote-1"
	rec, err2 := f.invRepo.Get(prodID, ubicID, &loteID)
	require.NoError(t, err2)
	assert.True(t, rec.CantidadReservada.Equal(decimal.NewFromInt(50)),
		"la segunda confirmación no debe duplicar reservas")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestConfirmar_FEFOConsumeElLoteQueVencePrimero(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	f.sembrarLote(t, "lote-lejano", 90, 50)
	f.sembrarLote(t, "lote-proximo", 10, 50)
	orden := f.crearOrden(t, 30)

	require.NoError(t, f.orders.Confirmar(context.Background(), orden.ID, actor))

	tarea := f.tareaDeOrden(t, orden.ID)
	require.Len(t, tarea.Detalles, 1, "30 caben completas en el lote más próximo a vencer")
	require.NotNil(t, tarea.Detalles[0].LoteID)
	assert.Equal(t, "lote-proximo", *tarea.Detalles[0].LoteID)
}

func TestConfirmar_LotePreferenteSeAntepone(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	f.sembrarLote(t, "lote-proximo", 10, 50)
	f.sembrarLote(t, "lote-elegido", 90, 50)

	elegido := "lote-elegido"
	orden, err := f.orders.Crear(context.Background(), orders.CrearInput{
		Cliente: "ACME", Prioridad: 1,
		Lineas: []orders.LineaInput{{
			ProductoID:     prodID,
			CantSolicitada: decimal.NewFromInt(20),
			LotePreferente: &elegido,
		}},
		CreadoPor: actor,
	})
	require.NoError(t, err)
	require.NoError(t, f.orders.Confirmar(context.Background(), orden.ID, actor))

	tarea := f.tareaDeOrden(t, orden.ID)
	require.Len(t, tarea.Detalles, 1)
	require.NotNil(t, tarea.Detalles[0].LoteID)
	assert.Equal(t, "lote-elegido", *tarea.Detalles[0].LoteID,
		"el lote preferente manda por encima de FEFO")
}

func TestConfirmar_IgnoraLotesVencidos(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	f.sembrarLote(t, "lote-vencido", -1, 50)
	f.sembrarLote(t, "lote-vigente", 30, 20)
	orden := f.crearOrden(t, 40)

	require.NoError(t, f.orders.Confirmar(context.Background(), orden.ID, actor))

	o := f.orden(t, orden.ID)
	assert.True(t, o.Detalles[0].CantComprometida.Equal(decimal.NewFromInt(20)),
		"solo el stock del lote vigente es asignable")
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: confirmar → picks → completitud
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_CriterioSolicitada_OrdenQuedaEnPicking(t *testing.T) {
	f := newFixture(t, opciones{parcial: true, criterio: entity.CriterioSolicitada})
	f.sembrarLote(t, "lote-1", 30, 60)
	orden := f.crearOrden(t, 100)
	require.NoError(t, f.orders.Confirmar(context.Background(), orden.ID, actor))

	tarea := f.tareaDeOrden(t, orden.ID)
	require.NoError(t, f.picking.RegistrarPicks(context.Background(), tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(60)}},
		actor))

	o := f.orden(t, orden.ID)
	assert.Equal(t, entity.OrdenEnPicking, o.Estado,
		"bajo el criterio solicitada, pickear 60 de 100 no cierra la orden")
	assert.True(t, o.Detalles[0].CantPickeada.Equal(decimal.NewFromInt(60)))
}

func TestFlujo_CriterioComprometida_OrdenSeCompleta(t *testing.T) {
	f := newFixture(t, opciones{parcial: true, criterio: entity.CriterioComprometida})
	f.sembrarLote(t, "lote-1", 30, 60)
	orden := f.crearOrden(t, 100)
	require.NoError(t, f.orders.Confirmar(context.Background(), orden.ID, actor))

	tarea := f.tareaDeOrden(t, orden.ID)
	require.NoError(t, f.picking.RegistrarPicks(context.Background(), tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(60)}},
		actor))

	o := f.orden(t, orden.ID)
	assert.Equal(t, entity.OrdenPickingCompleto, o.Estado,
		"bajo el criterio comprometida, pickear todo lo comprometido completa la orden")
}

func TestFlujo_PickDespachaStockReservado(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	f.sembrarLote(t, "lote-1", 30, 100)
	orden := f.crearOrden(t, 40)
	require.NoError(t, f.orders.Confirmar(context.Background(), orden.ID, actor))

	tarea := f.tareaDeOrden(t, orden.ID)
	require.NoError(t, f.picking.RegistrarPicks(context.Background(), tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(25)}},
		actor))

	loteID := "lote-1"
	rec, err := f.invRepo.Get(prodID, ubicID, &loteID)
	require.NoError(t, err)
	assert.True(t, rec.Cantidad.Equal(decimal.NewFromInt(75)), "el pick saca mercancía física")
	assert.True(t, rec.CantidadReservada.Equal(decimal.NewFromInt(15)),
		"la reserva baja junto con el físico")
}

func TestFlujo_PicksAcumulativosNoIncrementales(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	f.sembrarLote(t, "lote-1", 30, 100)
	orden := f.crearOrden(t, 40)
	require.NoError(t, f.orders.Confirmar(context.Background(), orden.ID, actor))

	tarea := f.tareaDeOrden(t, orden.ID)
	detID := tarea.Detalles[0].ID
	ctx := context.Background()

	require.NoError(t, f.picking.RegistrarPicks(ctx, tarea.ID,
		[]picking.PickInput{{DetalleID: detID, CantConfirmada: decimal.NewFromInt(10)}}, actor))
	require.NoError(t, f.picking.RegistrarPicks(ctx, tarea.ID,
		[]picking.PickInput{{DetalleID: detID, CantConfirmada: decimal.NewFromInt(30)}}, actor))

	o := f.orden(t, orden.ID)
	assert.True(t, o.Detalles[0].CantPickeada.Equal(decimal.NewFromInt(30)),
		"la confirmación es el total acumulado, no un incremento")

	// Retroceder el acumulado se rechaza.
	err := f.picking.RegistrarPicks(ctx, tarea.ID,
		[]picking.PickInput{{DetalleID: detID, CantConfirmada: decimal.NewFromInt(20)}}, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFlujo_PickPorEncimaDelObjetivo(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	f.sembrarLote(t, "lote-1", 30, 100)
	orden := f.crearOrden(t, 40)
	require.NoError(t, f.orders.Confirmar(context.Background(), orden.ID, actor))

	tarea := f.tareaDeOrden(t, orden.ID)
	err := f.picking.RegistrarPicks(context.Background(), tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(41)}},
		actor)
	assert.ErrorIs(t, err, domain.ErrExceedsTarget)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelar
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelar_LiberaReservasPendientes(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	f.sembrarLote(t, "lote-1", 30, 100)
	orden := f.crearOrden(t, 40)
	ctx := context.Background()
	require.NoError(t, f.orders.Confirmar(ctx, orden.ID, actor))

	// Se pickean 10; al cancelar deben liberarse las 30 restantes.
	tarea := f.tareaDeOrden(t, orden.ID)
	require.NoError(t, f.picking.RegistrarPicks(ctx, tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(10)}},
		actor))

	require.NoError(t, f.orders.Cancelar(ctx, orden.ID, actor))

	o := f.orden(t, orden.ID)
	assert.Equal(t, entity.OrdenCancelada, o.Estado)

	loteID := "lote-1"
	rec, err := f.invRepo.Get(prodID, ubicID, &loteID)
	require.NoError(t, err)
	assert.True(t, rec.CantidadReservada.IsZero(), "sin reservas colgadas tras cancelar")
	assert.True(t, rec.Cantidad.Equal(decimal.NewFromInt(90)),
		"lo ya pickeado no se revierte")

	tareas, err := f.pickRepo.ListByOrden(orden.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickingCancelado, tareas[0].Estado)
}

func TestCancelar_OrdenTerminalFalla(t *testing.T) {
	f := newFixture(t, opciones{parcial: true})
	f.sembrarLote(t, "lote-1", 30, 100)
	orden := f.crearOrden(t, 10)
	ctx := context.Background()
	require.NoError(t, f.orders.Confirmar(ctx, orden.ID, actor))

	tarea := f.tareaDeOrden(t, orden.ID)
	require.NoError(t, f.picking.RegistrarPicks(ctx, tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(10)}},
		actor))

	o := f.orden(t, orden.ID)
	require.Equal(t, entity.OrdenPickingCompleto, o.Estado)

	err := f.orders.Cancelar(ctx, orden.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_Metricas(t *testing.T) {
	f := newFixture(t, opciones{parcial: true, criterio: entity.CriterioComprometida})
	f.sembrarLote(t, "lote-1", 30, 100)
	orden := f.crearOrden(t, 40)
	ctx := context.Background()
	require.NoError(t, f.orders.Confirmar(ctx, orden.ID, actor))

	_, m, err := f.orders.GetByID(ctx, orden.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalLineas)
	assert.Equal(t, 0, m.LineasCompletas)
	assert.Equal(t, 1, m.TotalPickings)
	assert.True(t, m.PorcentajeCompletado.IsZero())

	tarea := f.tareaDeOrden(t, orden.ID)
	require.NoError(t, f.picking.RegistrarPicks(ctx, tarea.ID,
		[]picking.PickInput{{DetalleID: tarea.Detalles[0].ID, CantConfirmada: decimal.NewFromInt(40)}},
		actor))

	_, m, err = f.orders.GetByID(ctx, orden.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, m.LineasCompletas)
	assert.True(t, m.PorcentajeCompletado.Equal(decimal.NewFromInt(100)))
}

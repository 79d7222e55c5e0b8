package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: ledger sobre el storage en memoria, con una ubicación activa y un
// lote sembrados. Las aserciones de saldo leen por los repositorios standalone.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc       *ledger.UseCase
	invRepo  repository.InventarioRepository
	movRepo  repository.MovimientoRepository
	loteRepo repository.LoteRepository
	ubicRepo repository.UbicacionRepository
}

const (
	prodID  = "prod-1"
	ubicID  = "ubic-1"
	ubicID2 = "ubic-2"
	loteID  = "lote-1"
	actor   = "tester"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		uc:       ledger.New(memory.NewTxRunner(store)),
		invRepo:  memory.NewInventarioRepository(store),
		movRepo:  memory.NewMovimientoRepository(store),
		loteRepo: memory.NewLoteRepository(store),
		ubicRepo: memory.NewUbicacionRepository(store),
	}
	now := time.Now()
	require.NoError(t, f.ubicRepo.Create(&entity.Ubicacion{
		ID: ubicID, Codigo: "A-01-01", Tipo: entity.UbicacionPicking,
		Activa: true, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, f.ubicRepo.Create(&entity.Ubicacion{
		ID: ubicID2, Codigo: "A-01-02", Tipo: entity.UbicacionAlmacenamiento,
		Activa: true, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, f.loteRepo.Create(&entity.Lote{
		ID: loteID, Codigo: "L-001", ProductoID: prodID,
		CantidadInicial:    decimal.NewFromInt(1000),
		CantidadDisponible: decimal.Zero,
		FechaVencimiento:   now.AddDate(0, 6, 0),
		Estado:             entity.LoteDisponible,
		CreatedAt:          now, UpdatedAt: now,
	}))
	return f
}

// entrada siembra stock físico en el triplete vía el propio ledger.
func (f *fixture) entrada(t *testing.T, ubicacion string, loteID *string, qty int64) {
	t.Helper()
	require.NoError(t, f.uc.Ajustar(context.Background(), ledger.AjusteInput{
		ProductoID:  prodID,
		UbicacionID: ubicacion,
		LoteID:      loteID,
		Tipo:        entity.MovEntrada,
		Cantidad:    decimal.NewFromInt(qty),
		Actor:       actor,
	}))
}

func (f *fixture) registro(t *testing.T, ubicacion string, loteID *string) *entity.RegistroInventario {
	t.Helper()
	rec, err := f.invRepo.Get(prodID, ubicacion, loteID)
	require.NoError(t, err)
	return rec
}

func (f *fixture) movimientos(t *testing.T) []*entity.Movimiento {
	t.Helper()
	movs, _, err := f.movRepo.List(repository.MovimientoFiltro{})
	require.NoError(t, err)
	return movs
}

func ptr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestAjustar_EntradaCreaRegistroYMovimiento(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, nil, 50)

	rec := f.registro(t, ubicID, nil)
	assert.True(t, rec.Cantidad.Equal(decimal.NewFromInt(50)))
	assert.True(t, rec.CantidadReservada.IsZero())

	movs := f.movimientos(t)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovEntrada, movs[0].Tipo)
	assert.True(t, movs[0].CantidadAntes.IsZero(), "antes debe ser el saldo previo")
	assert.True(t, movs[0].CantidadDespues.Equal(decimal.NewFromInt(50)))
}

func TestAjustar_SalidaNoPuedeDejarDisponibleNegativo(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, nil, 10)

	err := f.uc.Ajustar(context.Background(), ledger.AjusteInput{
		ProductoID:  prodID,
		UbicacionID: ubicID,
		Tipo:        entity.MovSalida,
		Cantidad:    decimal.NewFromInt(11),
		Actor:       actor,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Sin efectos parciales: el saldo y el log quedan intactos.
	rec := f.registro(t, ubicID, nil)
	assert.True(t, rec.Cantidad.Equal(decimal.NewFromInt(10)))
	assert.Len(t, f.movimientos(t), 1)
}

func TestAjustar_AjusteNegativoRespetaReserva(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, nil, 10)
	require.NoError(t, f.uc.Reservar(context.Background(), prodID, ubicID, nil,
		decimal.NewFromInt(6), actor, "ref"))

	// Quedan 4 disponibles; bajar 5 rompería reservada ≤ cantidad.
	err := f.uc.Ajustar(context.Background(), ledger.AjusteInput{
		ProductoID:  prodID,
		UbicacionID: ubicID,
		Tipo:        entity.MovAjuste,
		Cantidad:    decimal.NewFromInt(-5),
		Motivo:      "conteo",
		Actor:       actor,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAjustar_CapacidadDeUbicacion(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	require.NoError(t, f.ubicRepo.Create(&entity.Ubicacion{
		ID: "ubic-chica", Codigo: "B-01-01", Tipo: entity.UbicacionAlmacenamiento,
		Capacidad: decimal.NewFromInt(20), Activa: true,
		CreatedAt: now, UpdatedAt: now,
	}))

	err := f.uc.Ajustar(context.Background(), ledger.AjusteInput{
		ProductoID:  prodID,
		UbicacionID: "ubic-chica",
		Tipo:        entity.MovEntrada,
		Cantidad:    decimal.NewFromInt(21),
		Actor:       actor,
	})
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	// Dentro del cupo entra sin problema.
	err = f.uc.Ajustar(context.Background(), ledger.AjusteInput{
		ProductoID:  prodID,
		UbicacionID: "ubic-chica",
		Tipo:        entity.MovEntrada,
		Cantidad:    decimal.NewFromInt(20),
		Actor:       actor,
	})
	assert.NoError(t, err)
}

func TestAjustar_TipoInvalido(t *testing.T) {
	f := newFixture(t)
	err := f.uc.Ajustar(context.Background(), ledger.AjusteInput{
		ProductoID:  prodID,
		UbicacionID: ubicID,
		Tipo:        "RESERVA", // las reservas no entran por Ajustar
		Cantidad:    decimal.NewFromInt(1),
		Actor:       actor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAjustar_ConLoteMantieneDisponibleDelLote(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, ptr(loteID), 30)

	lote, err := f.loteRepo.GetByID(loteID)
	require.NoError(t, err)
	assert.True(t, lote.CantidadDisponible.Equal(decimal.NewFromInt(30)),
		"la entrada física con lote debe reflejarse en el disponible del lote")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservas y liberaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestReservar_MueveDisponibleAReservado(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, nil, 100)

	require.NoError(t, f.uc.Reservar(context.Background(), prodID, ubicID, nil,
		decimal.NewFromInt(40), actor, "orden:o-1"))

	rec := f.registro(t, ubicID, nil)
	assert.True(t, rec.Cantidad.Equal(decimal.NewFromInt(100)), "la reserva no toca el físico")
	assert.True(t, rec.CantidadReservada.Equal(decimal.NewFromInt(40)))
	assert.True(t, rec.Disponible().Equal(decimal.NewFromInt(60)))
}

func TestReservar_InsuficienteNoDejaEfectos(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, nil, 10)

	err := f.uc.Reservar(context.Background(), prodID, ubicID, nil,
		decimal.NewFromInt(11), actor, "ref")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	rec := f.registro(t, ubicID, nil)
	assert.True(t, rec.CantidadReservada.IsZero())
	assert.Len(t, f.movimientos(t), 1, "solo la entrada inicial en el log")
}

func TestLiberar_InversaDeReservar(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, nil, 10)
	require.NoError(t, f.uc.Reservar(context.Background(), prodID, ubicID, nil,
		decimal.NewFromInt(10), actor, "ref"))

	require.NoError(t, f.uc.Liberar(context.Background(), prodID, ubicID, nil,
		decimal.NewFromInt(4), actor, "ref"))

	rec := f.registro(t, ubicID, nil)
	assert.True(t, rec.CantidadReservada.Equal(decimal.NewFromInt(6)))

	// Liberar más de lo reservado es un error de reserva, no de stock.
	err := f.uc.Liberar(context.Background(), prodID, ubicID, nil,
		decimal.NewFromInt(7), actor, "ref")
	assert.ErrorIs(t, err, domain.ErrInvalidReservation)
}

func TestReservar_ConcurrenciaNoSobrevende(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, nil, 10)

	// 20 goroutines compiten por reservar 1 unidad cada una sobre 10 disponibles.
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.uc.Reservar(context.Background(), prodID, ubicID, nil,
				decimal.NewFromInt(1), actor, "carrera")
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 10, ok, "deben triunfar exactamente tantas reservas como stock había")

	rec := f.registro(t, ubicID, nil)
	assert.True(t, rec.CantidadReservada.Equal(decimal.NewFromInt(10)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestTrasladar_ParAtomicoDeMovimientos(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, nil, 50)

	require.NoError(t, f.uc.Trasladar(context.Background(), ledger.TrasladoInput{
		ProductoID: prodID,
		OrigenID:   ubicID,
		DestinoID:  ubicID2,
		Cantidad:   decimal.NewFromInt(20),
		Motivo:     "reabastecimiento",
		Actor:      actor,
	}))

	assert.True(t, f.registro(t, ubicID, nil).Cantidad.Equal(decimal.NewFromInt(30)))
	assert.True(t, f.registro(t, ubicID2, nil).Cantidad.Equal(decimal.NewFromInt(20)))

	// El par de TRASLADO comparte TransaccionID y suma cero.
	movs := f.movimientos(t)
	var traslados []*entity.Movimiento
	for _, m := range movs {
		if m.Tipo == entity.MovTraslado {
			traslados = append(traslados, m)
		}
	}
	require.Len(t, traslados, 2)
	assert.Equal(t, traslados[0].TransaccionID, traslados[1].TransaccionID)
	assert.True(t, traslados[0].Cantidad.Add(traslados[1].Cantidad).IsZero())
}

func TestTrasladar_NoMueveStockReservado(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, nil, 10)
	require.NoError(t, f.uc.Reservar(context.Background(), prodID, ubicID, nil,
		decimal.NewFromInt(8), actor, "ref"))

	err := f.uc.Trasladar(context.Background(), ledger.TrasladoInput{
		ProductoID: prodID,
		OrigenID:   ubicID,
		DestinoID:  ubicID2,
		Cantidad:   decimal.NewFromInt(3),
		Actor:      actor,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"solo el disponible (no reservado) puede trasladarse")
}

func TestTrasladar_MismaUbicacionInvalida(t *testing.T) {
	f := newFixture(t)
	err := f.uc.Trasladar(context.Background(), ledger.TrasladoInput{
		ProductoID: prodID,
		OrigenID:   ubicID,
		DestinoID:  ubicID,
		Cantidad:   decimal.NewFromInt(1),
		Actor:      actor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Operaciones a nivel de lote
// ──────────────────────────────────────────────────────────────────────────────

func TestAjustarLote_AcotadoACantidadInicial(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, ptr(loteID), 100)

	// Bajar por conteo funciona y deja rastro con ubicación nula.
	require.NoError(t, f.uc.AjustarLote(context.Background(), loteID,
		decimal.NewFromInt(-10), "merma en conteo", actor))

	lote, err := f.loteRepo.GetByID(loteID)
	require.NoError(t, err)
	assert.True(t, lote.CantidadDisponible.Equal(decimal.NewFromInt(90)))

	movs := f.movimientos(t)
	ultimo := movs[len(movs)-1]
	if ultimo.Tipo != entity.MovAjuste {
		// El orden de listado puede ser descendente; búscalo.
		for _, m := range movs {
			if m.Tipo == entity.MovAjuste {
				ultimo = m
			}
		}
	}
	assert.Equal(t, entity.MovAjuste, ultimo.Tipo)
	assert.Nil(t, ultimo.UbicacionID, "el ajuste de lote no referencia ubicación")

	// Subir por encima de la cantidad inicial se rechaza.
	err = f.uc.AjustarLote(context.Background(), loteID,
		decimal.NewFromInt(10_000), "error de captura", actor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAjustarLote_MotivoObligatorio(t *testing.T) {
	f := newFixture(t)
	err := f.uc.AjustarLote(context.Background(), loteID, decimal.NewFromInt(-1), "", actor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReservarLote_RepartidaEntreUbicaciones(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, ptr(loteID), 6)
	f.entrada(t, ubicID2, ptr(loteID), 6)

	require.NoError(t, f.uc.ReservarLote(context.Background(), loteID,
		decimal.NewFromInt(10), actor))

	r1 := f.registro(t, ubicID, ptr(loteID))
	r2 := f.registro(t, ubicID2, ptr(loteID))
	total := r1.CantidadReservada.Add(r2.CantidadReservada)
	assert.True(t, total.Equal(decimal.NewFromInt(10)),
		"la reserva debe repartirse entre los registros del lote")
}

func TestReservarLote_TodoONada(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, ptr(loteID), 4)
	f.entrada(t, ubicID2, ptr(loteID), 4)

	err := f.uc.ReservarLote(context.Background(), loteID, decimal.NewFromInt(9), actor)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La transacción se revirtió: nada quedó reservado.
	r1 := f.registro(t, ubicID, ptr(loteID))
	r2 := f.registro(t, ubicID2, ptr(loteID))
	assert.True(t, r1.CantidadReservada.IsZero())
	assert.True(t, r2.CantidadReservada.IsZero())
}

func TestLiberarLote_ReservaInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, ubicID, ptr(loteID), 10)
	require.NoError(t, f.uc.ReservarLote(context.Background(), loteID,
		decimal.NewFromInt(3), actor))

	err := f.uc.LiberarLote(context.Background(), loteID, decimal.NewFromInt(4), actor)
	assert.ErrorIs(t, err, domain.ErrInvalidReservation)
}

// ──────────────────────────────────────────────────────────────────────────────
// El log como fuente de verdad
// ──────────────────────────────────────────────────────────────────────────────

// TestLog_ReproduceElSaldo verifica que re-aplicar los deltas físicos del log
// (ignorando RESERVA/LIBERACION, que solo mueven el split interno) reproduce la
// cantidad actual del triplete.
func TestLog_ReproduceElSaldo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.entrada(t, ubicID, nil, 100)
	require.NoError(t, f.uc.Reservar(ctx, prodID, ubicID, nil, decimal.NewFromInt(30), actor, "r1"))
	require.NoError(t, f.uc.Liberar(ctx, prodID, ubicID, nil, decimal.NewFromInt(10), actor, "r1"))
	require.NoError(t, f.uc.Ajustar(ctx, ledger.AjusteInput{
		ProductoID: prodID, UbicacionID: ubicID,
		Tipo: entity.MovSalida, Cantidad: decimal.NewFromInt(15), Actor: actor,
	}))
	require.NoError(t, f.uc.Ajustar(ctx, ledger.AjusteInput{
		ProductoID: prodID, UbicacionID: ubicID,
		Tipo: entity.MovAjuste, Cantidad: decimal.NewFromInt(-5), Motivo: "conteo", Actor: actor,
	}))

	saldo := decimal.Zero
	for _, m := range f.movimientos(t) {
		switch m.Tipo {
		case entity.MovReserva, entity.MovLiberacion:
			continue
		}
		if m.UbicacionID == nil || *m.UbicacionID != ubicID {
			continue
		}
		saldo = saldo.Add(m.Cantidad)
	}

	rec := f.registro(t, ubicID, nil)
	assert.True(t, saldo.Equal(rec.Cantidad),
		"la suma de los deltas físicos del log debe reproducir el saldo actual")
}

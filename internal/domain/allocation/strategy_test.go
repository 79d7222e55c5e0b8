package allocation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/allocation"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var baseDia = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// candidatoConLote arma un candidato con lote: vencimiento y fabricación en
// días relativos a baseDia.
func candidatoConLote(codigo string, fabDias, vencDias int) allocation.Candidato {
	loteID := "lote-" + codigo
	return allocation.Candidato{
		Registro: &entity.RegistroInventario{
			ProductoID:  "prod-1",
			UbicacionID: "ubic-1",
			LoteID:      &loteID,
			Cantidad:    decimal.NewFromInt(10),
		},
		Lote: &entity.Lote{
			ID:               loteID,
			Codigo:           codigo,
			ProductoID:       "prod-1",
			FechaFabricacion: baseDia.AddDate(0, 0, fabDias),
			FechaVencimiento: baseDia.AddDate(0, 0, vencDias),
			Estado:           entity.LoteDisponible,
		},
	}
}

// candidatoSinLote arma un candidato de stock sin lote.
func candidatoSinLote() allocation.Candidato {
	return allocation.Candidato{
		Registro: &entity.RegistroInventario{
			ProductoID:  "prod-1",
			UbicacionID: "ubic-2",
			Cantidad:    decimal.NewFromInt(5),
		},
	}
}

func codigos(candidatos []allocation.Candidato) []string {
	out := make([]string, 0, len(candidatos))
	for _, c := range candidatos {
		if c.Lote == nil {
			out = append(out, "<sin-lote>")
			continue
		}
		out = append(out, c.Lote.Codigo)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Nueva
// ──────────────────────────────────────────────────────────────────────────────

func TestNueva_FEFOPorDefecto(t *testing.T) {
	est, err := allocation.Nueva("")
	require.NoError(t, err)
	assert.Equal(t, allocation.FEFO, est.Nombre(), "sin nombre debe construirse FEFO")
}

func TestNueva_InsensibleAMayusculas(t *testing.T) {
	est, err := allocation.Nueva("fefo")
	require.NoError(t, err)
	assert.Equal(t, allocation.FEFO, est.Nombre())

	est, err = allocation.Nueva("fifo")
	require.NoError(t, err)
	assert.Equal(t, allocation.FIFO, est.Nombre())
}

func TestNueva_NombreDesconocido(t *testing.T) {
	_, err := allocation.Nueva("lifo")
	assert.Error(t, err, "una estrategia desconocida debe rechazarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// FEFO
// ──────────────────────────────────────────────────────────────────────────────

func TestFEFO_VencimientoMasProximoPrimero(t *testing.T) {
	est, err := allocation.Nueva(allocation.FEFO)
	require.NoError(t, err)

	candidatos := []allocation.Candidato{
		candidatoConLote("L-C", 0, 90),
		candidatoConLote("L-A", 0, 10),
		candidatoConLote("L-B", 0, 30),
	}
	est.Ordenar(candidatos)

	assert.Equal(t, []string{"L-A", "L-B", "L-C"}, codigos(candidatos),
		"el lote que vence primero debe consumirse primero")
}

func TestFEFO_SinLoteAlFinal(t *testing.T) {
	est, _ := allocation.Nueva(allocation.FEFO)

	candidatos := []allocation.Candidato{
		candidatoSinLote(),
		candidatoConLote("L-A", 0, 10),
		candidatoSinLote(),
	}
	est.Ordenar(candidatos)

	assert.Equal(t, []string{"L-A", "<sin-lote>", "<sin-lote>"}, codigos(candidatos),
		"el stock sin lote se consume después de cualquier lote")
}

func TestFEFO_EmpatePorCodigo(t *testing.T) {
	est, _ := allocation.Nueva(allocation.FEFO)

	candidatos := []allocation.Candidato{
		candidatoConLote("L-Z", 0, 15),
		candidatoConLote("L-A", 0, 15),
	}
	est.Ordenar(candidatos)

	assert.Equal(t, []string{"L-A", "L-Z"}, codigos(candidatos),
		"con el mismo vencimiento desempata el código para un orden reproducible")
}

// ──────────────────────────────────────────────────────────────────────────────
// FIFO
// ──────────────────────────────────────────────────────────────────────────────

func TestFIFO_FabricacionMasAntiguaPrimero(t *testing.T) {
	est, err := allocation.Nueva(allocation.FIFO)
	require.NoError(t, err)

	// L-B se fabricó antes aunque vence después: FIFO lo prefiere.
	candidatos := []allocation.Candidato{
		candidatoConLote("L-A", -5, 10),
		candidatoConLote("L-B", -30, 60),
	}
	est.Ordenar(candidatos)

	assert.Equal(t, []string{"L-B", "L-A"}, codigos(candidatos),
		"FIFO ordena por fabricación, no por vencimiento")
}

func TestFIFO_SinLoteAlFinal(t *testing.T) {
	est, _ := allocation.Nueva(allocation.FIFO)

	candidatos := []allocation.Candidato{
		candidatoSinLote(),
		candidatoConLote("L-A", -1, 30),
	}
	est.Ordenar(candidatos)

	assert.Equal(t, []string{"L-A", "<sin-lote>"}, codigos(candidatos))
}

package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

func newProductoUseCase() *usecase.ProductoUseCase {
	store := memory.NewStore()
	return usecase.NewProductoUseCase(
		memory.NewProductoRepository(store),
		memory.NewInventarioRepository(store),
	)
}

func crearProducto(t *testing.T, uc *usecase.ProductoUseCase, codigo, nombre string) *dto.ProductoResponse {
	t.Helper()
	p, err := uc.Create(dto.CreateProductoRequest{
		Codigo:       codigo,
		Nombre:       nombre,
		UnidadMedida: "UN",
	})
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// NormalizarBusqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizarBusqueda(t *testing.T) {
	casos := map[string]string{
		"AZÚCAR":         "azucar",
		"  café molido ": "cafe molido",
		"Niño":           "nino",
		"ya-plano":       "ya-plano",
		"":               "",
	}
	for entrada, esperado := range casos {
		assert.Equal(t, esperado, usecase.NormalizarBusqueda(entrada), "entrada %q", entrada)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD de productos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CodigoDuplicado(t *testing.T) {
	uc := newProductoUseCase()
	crearProducto(t, uc, "SKU-001", "Azúcar refinada")

	_, err := uc.Create(dto.CreateProductoRequest{
		Codigo:       "SKU-001",
		Nombre:       "otro producto",
		UnidadMedida: "UN",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_Validaciones(t *testing.T) {
	uc := newProductoUseCase()

	_, err := uc.Create(dto.CreateProductoRequest{Nombre: "sin código", UnidadMedida: "UN"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(dto.CreateProductoRequest{
		Codigo:       "SKU-002",
		Nombre:       "stock mínimo negativo",
		UnidadMedida: "UN",
		StockMinimo:  decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCambiarEstado_EstadoInvalido(t *testing.T) {
	uc := newProductoUseCase()
	p := crearProducto(t, uc, "SKU-001", "Azúcar")

	_, err := uc.CambiarEstado(p.ID, "ROTO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	actualizado, err := uc.CambiarEstado(p.ID, entity.ProductoCuarentena)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductoCuarentena, actualizado.Estado)
}

func TestDesactivar_BajaLogica(t *testing.T) {
	uc := newProductoUseCase()
	p := crearProducto(t, uc, "SKU-001", "Azúcar")

	require.NoError(t, uc.Desactivar(p.ID))

	// Sigue siendo consultable por id, solo deja de estar activo.
	cargado, err := uc.GetByID(p.ID)
	require.NoError(t, err)
	assert.False(t, cargado.Activo)

	items, total, err := uc.List(repository.ProductoFiltro{SoloActivos: true})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

// ──────────────────────────────────────────────────────────────────────────────
// Búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestList_BusquedaInsensibleAAcentos(t *testing.T) {
	uc := newProductoUseCase()
	crearProducto(t, uc, "SKU-001", "Azúcar refinada")
	crearProducto(t, uc, "SKU-002", "Café molido")
	crearProducto(t, uc, "SKU-003", "Harina de trigo")

	// "AZUCAR" sin tilde debe encontrar "Azúcar".
	items, total, err := uc.List(repository.ProductoFiltro{Busqueda: "AZUCAR"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "SKU-001", items[0].Codigo)

	// Y al revés: "café" con tilde encuentra por nombre normalizado.
	items, total, err = uc.List(repository.ProductoFiltro{Busqueda: "café"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "SKU-002", items[0].Codigo)

	// Búsqueda por código parcial.
	_, total, err = uc.List(repository.ProductoFiltro{Busqueda: "sku-00"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestList_BajoStock(t *testing.T) {
	uc := newProductoUseCase()
	p, err := uc.Create(dto.CreateProductoRequest{
		Codigo:       "SKU-001",
		Nombre:       "Azúcar",
		UnidadMedida: "UN",
		StockMinimo:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	crearProducto(t, uc, "SKU-002", "Café sin mínimo configurado")

	// Sin existencias y con mínimo 10, SKU-001 está bajo stock. SKU-002 no
	// participa porque no definió mínimo.
	items, total, err := uc.List(repository.ProductoFiltro{SoloBajoStock: true})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, p.ID, items[0].ID)
}

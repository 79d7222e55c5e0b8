package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductoDisponible = "DISPONIBLE"
	ProductoRetenido   = "RETENIDO"
	ProductoCuarentena = "CUARENTENA" // retención de calidad
	ProductoDanado     = "DANADO"
)

// Producto representa un SKU del catálogo. Se desactiva, nunca se elimina.
// El stock se maneja por (ubicación, lote) en registros de inventario; el
// producto solo carga el umbral mínimo para alertas.
type Producto struct {
	ID           string
	Codigo       string // único
	Nombre       string
	Descripcion  string
	UnidadMedida string
	StockMinimo  decimal.Decimal
	Estado       string
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EstadoProductoValido valida contra la enumeración cerrada de estados.
func EstadoProductoValido(s string) bool {
	switch s {
	case ProductoDisponible, ProductoRetenido, ProductoCuarentena, ProductoDanado:
		return true
	}
	return false
}

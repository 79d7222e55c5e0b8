package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductoRequest entrada para crear un producto.
type CreateProductoRequest struct {
	Codigo       string          `json:"codigo" validate:"required,min=1,max=50"`
	Nombre       string          `json:"nombre" validate:"required,min=1,max=200"`
	Descripcion  string          `json:"descripcion"`
	UnidadMedida string          `json:"unidad_medida" validate:"required"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"`
}

// UpdateProductoRequest entrada para actualizar un producto.
type UpdateProductoRequest struct {
	Nombre       *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Descripcion  *string          `json:"descripcion"`
	UnidadMedida *string          `json:"unidad_medida"`
	StockMinimo  *decimal.Decimal `json:"stock_minimo"`
}

// CambiarEstadoProductoRequest cambio de estado de calidad.
type CambiarEstadoProductoRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// ProductoResponse salida de un producto.
type ProductoResponse struct {
	ID           string          `json:"id"`
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion"`
	UnidadMedida string          `json:"unidad_medida"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"`
	Estado       string          `json:"estado"`
	Activo       bool            `json:"activo"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StockProductoResponse existencias de un producto desglosadas por ubicación y lote.
type StockProductoResponse struct {
	ProductoID      string                  `json:"id_producto"`
	Total           decimal.Decimal         `json:"total"`
	TotalReservado  decimal.Decimal         `json:"total_reservado"`
	TotalDisponible decimal.Decimal         `json:"total_disponible"`
	Registros       []RegistroStockResponse `json:"registros"`
}

// RegistroStockResponse un triplete (producto, ubicación, lote) con sus cantidades.
type RegistroStockResponse struct {
	UbicacionID string          `json:"id_ubicacion"`
	LoteID      *string         `json:"id_lote,omitempty"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	Reservada   decimal.Decimal `json:"cantidad_reservada"`
	Disponible  decimal.Decimal `json:"disponible"`
}

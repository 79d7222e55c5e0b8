package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLoteRequest entrada para registrar un lote.
type CreateLoteRequest struct {
	Codigo           string          `json:"codigo" validate:"required,min=1,max=50"`
	ProductoID       string          `json:"id_producto" validate:"required"`
	CantidadInicial  decimal.Decimal `json:"cantidad_inicial"`
	FechaFabricacion time.Time       `json:"fecha_fabricacion"`
	FechaVencimiento time.Time       `json:"fecha_vencimiento"`
}

// AjusteLoteRequest ajuste directo de la cantidad disponible de un lote.
type AjusteLoteRequest struct {
	Cantidad decimal.Decimal `json:"cantidad" validate:"required"`
	Motivo   string          `json:"motivo" validate:"required"`
}

// ReservaLoteRequest reserva o liberación a nivel de lote.
type ReservaLoteRequest struct {
	Cantidad decimal.Decimal `json:"cantidad" validate:"required"`
}

// CambiarEstadoLoteRequest cambio de estado del lote.
type CambiarEstadoLoteRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// LoteResponse salida de un lote.
type LoteResponse struct {
	ID                 string          `json:"id"`
	Codigo             string          `json:"codigo"`
	ProductoID         string          `json:"id_producto"`
	CantidadInicial    decimal.Decimal `json:"cantidad_inicial"`
	CantidadDisponible decimal.Decimal `json:"cantidad_disponible"`
	FechaFabricacion   time.Time       `json:"fecha_fabricacion"`
	FechaVencimiento   time.Time       `json:"fecha_vencimiento"`
	Estado             string          `json:"estado"`
	Vencido            bool            `json:"vencido"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

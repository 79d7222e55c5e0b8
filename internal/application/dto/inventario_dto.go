package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AjusteInventarioRequest movimiento de ajuste sobre un triplete
// (producto, ubicación, lote). Para AJUSTE la cantidad lleva signo;
// para ENTRADA/SALIDA/DEVOLUCION es positiva.
type AjusteInventarioRequest struct {
	ProductoID  string          `json:"id_producto" validate:"required"`
	UbicacionID string          `json:"id_ubicacion" validate:"required"`
	LoteID      *string         `json:"id_lote"`
	Tipo        string          `json:"tipo" validate:"required"`
	Cantidad    decimal.Decimal `json:"cantidad" validate:"required"`
	Motivo      string          `json:"motivo"`
	Referencia  string          `json:"referencia"`
}

// ReservaInventarioRequest reserva o liberación sobre un triplete.
type ReservaInventarioRequest struct {
	ProductoID  string          `json:"id_producto" validate:"required"`
	UbicacionID string          `json:"id_ubicacion" validate:"required"`
	LoteID      *string         `json:"id_lote"`
	Cantidad    decimal.Decimal `json:"cantidad" validate:"required"`
	Referencia  string          `json:"referencia"`
}

// TrasladoRequest traslado entre ubicaciones.
type TrasladoRequest struct {
	ProductoID       string          `json:"id_producto" validate:"required"`
	UbicacionOrigen  string          `json:"id_ubicacion_origen" validate:"required"`
	UbicacionDestino string          `json:"id_ubicacion_destino" validate:"required"`
	LoteID           *string         `json:"id_lote"`
	Cantidad         decimal.Decimal `json:"cantidad" validate:"required"`
	Motivo           string          `json:"motivo"`
}

// MovimientoResponse salida de un movimiento del historial.
type MovimientoResponse struct {
	ID              string          `json:"id"`
	TransaccionID   string          `json:"id_transaccion"`
	ProductoID      string          `json:"id_producto"`
	UbicacionID     *string         `json:"id_ubicacion,omitempty"`
	LoteID          *string         `json:"id_lote,omitempty"`
	Tipo            string          `json:"tipo"`
	Cantidad        decimal.Decimal `json:"cantidad"`
	CantidadAntes   decimal.Decimal `json:"cantidad_antes"`
	CantidadDespues decimal.Decimal `json:"cantidad_despues"`
	Motivo          string          `json:"motivo,omitempty"`
	Referencia      string          `json:"referencia,omitempty"`
	CreadoPor       string          `json:"creado_por"`
	CreatedAt       time.Time       `json:"created_at"`
}

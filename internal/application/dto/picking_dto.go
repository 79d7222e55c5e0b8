package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePickingRequest re-asignación de picking para una orden EN_PICKING
// con líneas todavía cortas de compromiso.
type CreatePickingRequest struct {
	OrdenID   string  `json:"id_orden" validate:"required"`
	AsignadoA *string `json:"asignado_a"`
}

// AsignarPickingRequest asignación de una tarea existente a un operador.
type AsignarPickingRequest struct {
	AsignadoA string `json:"asignado_a" validate:"required"`
}

// RegistrarPicksRequest confirmaciones de picks sobre una tarea. Las
// cantidades confirmadas son acumuladas, no incrementales.
type RegistrarPicksRequest struct {
	Detalles []PickConfirmado `json:"detalles" validate:"required,min=1"`
}

// PickConfirmado avance confirmado de un detalle de picking.
type PickConfirmado struct {
	DetalleID      string          `json:"id_picking_det" validate:"required"`
	CantConfirmada decimal.Decimal `json:"cantidad_confirmada" validate:"required"`
}

// PickingResponse salida de una tarea de picking con sus detalles.
type PickingResponse struct {
	ID              string                   `json:"id"`
	OrdenID         string                   `json:"id_orden"`
	Estado          string                   `json:"estado"`
	AsignadoA       *string                  `json:"asignado_a,omitempty"`
	CreadoPor       string                   `json:"creado_por"`
	FechaAsignacion *time.Time               `json:"fecha_asignacion,omitempty"`
	FechaCierre     *time.Time               `json:"fecha_cierre,omitempty"`
	Detalles        []PickingDetalleResponse `json:"detalles"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// PickingDetalleResponse un detalle de picking con su avance.
type PickingDetalleResponse struct {
	ID             string          `json:"id"`
	DetalleOrdenID string          `json:"id_detalle_orden"`
	ProductoID     string          `json:"id_producto"`
	UbicacionID    string          `json:"id_ubicacion"`
	LoteID         *string         `json:"id_lote,omitempty"`
	CantObjetivo   decimal.Decimal `json:"cant_objetivo"`
	CantPickeada   decimal.Decimal `json:"cant_pickeada"`
	Pendiente      decimal.Decimal `json:"pendiente"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de tarea de picking.
const (
	PickingAsignado   = "ASIGNADO"
	PickingEnProceso  = "EN_PROCESO"
	PickingPausado    = "PAUSADO"
	PickingCompletado = "COMPLETADO"
	PickingCancelado  = "CANCELADO"
)

// Picking es una tarea de picking derivada de una orden de salida confirmada.
// Nace en ASIGNADO (con o sin operador); COMPLETADO y CANCELADO son terminales.
type Picking struct {
	ID              string
	OrdenID         string
	Estado          string
	AsignadoA       *string
	CreadoPor       string
	FechaAsignacion *time.Time
	FechaCierre     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Detalles        []*PickingDetalle
}

// Terminal indica si la tarea ya no admite transiciones.
func (p *Picking) Terminal() bool {
	return p.Estado == PickingCompletado || p.Estado == PickingCancelado
}

// PickingDetalle es una instrucción de pick: traer CantObjetivo de un producto
// desde una (ubicación, lote) concreta. Invariante: CantPickeada ≤ CantObjetivo.
type PickingDetalle struct {
	ID             string
	PickingID      string
	DetalleOrdenID string
	ProductoID     string
	UbicacionID    string
	LoteID         *string
	CantObjetivo   decimal.Decimal
	CantPickeada   decimal.Decimal
}

// Pendiente devuelve la cantidad reservada aún no pickeada.
func (d *PickingDetalle) Pendiente() decimal.Decimal {
	return d.CantObjetivo.Sub(d.CantPickeada)
}

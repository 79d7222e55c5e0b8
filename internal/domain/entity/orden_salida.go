package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de orden de salida.
const (
	OrdenCreada          = "CREADA"
	OrdenEnPicking       = "EN_PICKING"
	OrdenPickingCompleto = "PICKING_COMPLETO"
	OrdenCancelada       = "CANCELADA"
)

// Criterios de completitud de línea: contra lo solicitado o contra lo comprometido.
const (
	CriterioSolicitada   = "solicitada"
	CriterioComprometida = "comprometida"
)

// OrdenSalida es la cabecera de una orden de salida. Ciclo de vida:
// CREADA → EN_PICKING → PICKING_COMPLETO; CREADA|EN_PICKING → CANCELADA.
// PICKING_COMPLETO y CANCELADA son terminales.
type OrdenSalida struct {
	ID              string
	Cliente         string
	Prioridad       int // 1 (más urgente) a 5
	FechaCompromiso time.Time
	Estado          string
	CreadoPor       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Detalles        []*DetalleOrden
}

// Terminal indica si la orden ya no admite transiciones.
func (o *OrdenSalida) Terminal() bool {
	return o.Estado == OrdenPickingCompleto || o.Estado == OrdenCancelada
}

// DetalleOrden es una línea de la orden. Invariante (salvo override manual):
// 0 ≤ CantPickeada ≤ CantComprometida ≤ CantSolicitada.
type DetalleOrden struct {
	ID               string
	OrdenID          string
	ProductoID       string
	LotePreferente   *string
	CantSolicitada   decimal.Decimal
	CantComprometida decimal.Decimal
	CantPickeada     decimal.Decimal
}

// Completa evalúa la línea bajo el criterio dado. Bajo "comprometida" una línea
// sin compromiso no cuenta como completa: evitaría cerrar órdenes que nunca
// reservaron nada.
func (d *DetalleOrden) Completa(criterio string) bool {
	switch criterio {
	case CriterioComprometida:
		return d.CantComprometida.GreaterThan(decimal.Zero) &&
			d.CantPickeada.GreaterThanOrEqual(d.CantComprometida)
	default:
		return d.CantPickeada.GreaterThanOrEqual(d.CantSolicitada)
	}
}

// OrdenCompleta indica si todas las líneas están completas bajo el criterio.
func OrdenCompleta(detalles []*DetalleOrden, criterio string) bool {
	if len(detalles) == 0 {
		return false
	}
	for _, d := range detalles {
		if !d.Completa(criterio) {
			return false
		}
	}
	return true
}

// EstadoOrdenValido valida contra la enumeración cerrada de estados.
func EstadoOrdenValido(s string) bool {
	switch s {
	case OrdenCreada, OrdenEnPicking, OrdenPickingCompleto, OrdenCancelada:
		return true
	}
	return false
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrdenRequest entrada para crear una orden de salida.
type CreateOrdenRequest struct {
	Cliente         string               `json:"cliente" validate:"required"`
	FechaCompromiso time.Time            `json:"fecha_compromiso"`
	Prioridad       int                  `json:"prioridad" validate:"min=1,max=5"`
	Detalles        []CreateDetalleOrden `json:"detalles" validate:"required,min=1"`
}

// CreateDetalleOrden una línea solicitada de la orden.
type CreateDetalleOrden struct {
	ProductoID     string          `json:"id_producto" validate:"required"`
	CantSolicitada decimal.Decimal `json:"cant_solicitada" validate:"required"`
	LotePreferente *string         `json:"lote_preferente"`
}

// OrdenResponse salida de una orden con sus líneas.
type OrdenResponse struct {
	ID              string                 `json:"id"`
	Cliente         string                 `json:"cliente"`
	Prioridad       int                    `json:"prioridad"`
	FechaCompromiso time.Time              `json:"fecha_compromiso"`
	Estado          string                 `json:"estado"`
	CreadoPor       string                 `json:"creado_por"`
	Detalles        []DetalleOrdenResponse `json:"detalles"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// DetalleOrdenResponse una línea de la orden con su avance.
type DetalleOrdenResponse struct {
	ID               string          `json:"id"`
	ProductoID       string          `json:"id_producto"`
	LotePreferente   *string         `json:"lote_preferente,omitempty"`
	CantSolicitada   decimal.Decimal `json:"cant_solicitada"`
	CantComprometida decimal.Decimal `json:"cant_comprometida"`
	CantPickeada     decimal.Decimal `json:"cant_pickeada"`
	Completa         bool            `json:"completa"`
}

// OrdenDetalladaResponse orden con métricas de avance.
type OrdenDetalladaResponse struct {
	OrdenResponse
	Metricas MetricasOrdenResponse `json:"metricas"`
}

// MetricasOrdenResponse agregados de avance de la orden.
type MetricasOrdenResponse struct {
	TotalLineas          int             `json:"total_lineas"`
	LineasCompletas      int             `json:"lineas_completas"`
	PorcentajeCompletado decimal.Decimal `json:"porcentaje_completado"`
	TotalPickings        int             `json:"total_pickings"`
}

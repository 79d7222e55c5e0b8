package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de lote.
const (
	LoteDisponible = "DISPONIBLE"
	LoteReservado  = "RESERVADO"
	LoteVencido    = "VENCIDO"
	LoteRetirado   = "RETIRADO"
)

// Lote representa una partida trazable de un producto con su propia cantidad
// y fecha de vencimiento. Invariante: 0 ≤ CantidadDisponible ≤ CantidadInicial;
// la disponible solo sube mediante ajuste explícito con motivo.
type Lote struct {
	ID                 string
	Codigo             string
	ProductoID         string
	CantidadInicial    decimal.Decimal
	CantidadDisponible decimal.Decimal
	FechaFabricacion   time.Time
	FechaVencimiento   time.Time
	Estado             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Vencido indica si el lote ya pasó su fecha de vencimiento en el instante dado.
func (l *Lote) Vencido(ahora time.Time) bool {
	return !l.FechaVencimiento.IsZero() && l.FechaVencimiento.Before(ahora)
}

// Asignable indica si el lote puede usarse para reservas de picking.
func (l *Lote) Asignable(ahora time.Time) bool {
	return l.Estado == LoteDisponible && !l.Vencido(ahora)
}

// EstadoLoteValido valida contra la enumeración cerrada de estados.
func EstadoLoteValido(s string) bool {
	switch s {
	case LoteDisponible, LoteReservado, LoteVencido, LoteRetirado:
		return true
	}
	return false
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegistroInventario es la cantidad actual de un producto en una ubicación,
// opcionalmente dentro de un lote. Identidad compuesta (producto, ubicación, lote).
// Solo el ledger de inventario lo muta; invariantes en todo momento:
// CantidadReservada ≤ Cantidad y Disponible() ≥ 0.
type RegistroInventario struct {
	ProductoID        string
	UbicacionID       string
	LoteID            *string
	Cantidad          decimal.Decimal
	CantidadReservada decimal.Decimal
	UpdatedAt         time.Time
}

// Disponible devuelve la cantidad no reservada.
func (r *RegistroInventario) Disponible() decimal.Decimal {
	return r.Cantidad.Sub(r.CantidadReservada)
}

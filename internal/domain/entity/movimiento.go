package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovEntrada    = "ENTRADA"
	MovSalida     = "SALIDA"
	MovTraslado   = "TRASLADO"
	MovAjuste     = "AJUSTE"
	MovDevolucion = "DEVOLUCION"
	MovReserva    = "RESERVA"
	MovLiberacion = "LIBERACION"
)

// Movimiento es el registro inmutable de un cambio de inventario (append-only).
// Cantidad es con signo: positiva entra, negativa sale. Para RESERVA/LIBERACION
// CantidadAntes/CantidadDespues reflejan la cantidad reservada del registro;
// para el resto, la cantidad física. TransaccionID agrupa movimientos ligados
// (las dos patas de un TRASLADO comparten el mismo).
type Movimiento struct {
	ID            string
	TransaccionID string
	ProductoID    string
	UbicacionID   *string // nulo en ajustes a nivel de lote
	LoteID        *string
	Tipo            string
	Cantidad        decimal.Decimal
	CantidadAntes   decimal.Decimal
	CantidadDespues decimal.Decimal
	Motivo        string
	Referencia    string // ej. ID de orden de salida o de picking
	CreadoPor     string
	CreatedAt     time.Time
}

// AfectaStock indica si el tipo modifica la cantidad física (los tipos de
// reserva solo mueven cantidad entre disponible y reservada).
func AfectaStock(tipo string) bool {
	switch tipo {
	case MovReserva, MovLiberacion:
		return false
	}
	return true
}

// TipoMovimientoValido valida contra la enumeración cerrada de tipos.
func TipoMovimientoValido(s string) bool {
	switch s {
	case MovEntrada, MovSalida, MovTraslado, MovAjuste, MovDevolucion, MovReserva, MovLiberacion:
		return true
	}
	return false
}

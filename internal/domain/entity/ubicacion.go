package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ubicación.
const (
	UbicacionAlmacenamiento = "ALMACENAMIENTO"
	UbicacionPicking        = "PICKING"
	UbicacionDevoluciones   = "DEVOLUCIONES"
)

// Ubicacion representa una posición física del almacén (pasillo/estante/nivel).
// Capacidad cero significa sin límite.
type Ubicacion struct {
	ID             string
	Codigo         string
	Pasillo        string
	Estante        string
	Nivel          string
	Capacidad      decimal.Decimal
	Tipo           string
	TemperaturaMin *decimal.Decimal
	TemperaturaMax *decimal.Decimal
	HumedadMin     *decimal.Decimal
	HumedadMax     *decimal.Decimal
	Activa         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TipoUbicacionValido valida contra la enumeración cerrada de tipos.
func TipoUbicacionValido(s string) bool {
	switch s {
	case UbicacionAlmacenamiento, UbicacionPicking, UbicacionDevoluciones:
		return true
	}
	return false
}

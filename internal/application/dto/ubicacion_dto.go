package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUbicacionRequest entrada para crear una ubicación.
type CreateUbicacionRequest struct {
	Codigo         string           `json:"codigo" validate:"required,min=1,max=50"`
	Pasillo        string           `json:"pasillo"`
	Estante        string           `json:"estante"`
	Nivel          string           `json:"nivel"`
	Capacidad      decimal.Decimal  `json:"capacidad"`
	Tipo           string           `json:"tipo" validate:"required"`
	TemperaturaMin *decimal.Decimal `json:"temperatura_min"`
	TemperaturaMax *decimal.Decimal `json:"temperatura_max"`
	HumedadMin     *decimal.Decimal `json:"humedad_min"`
	HumedadMax     *decimal.Decimal `json:"humedad_max"`
}

// UpdateUbicacionRequest entrada para actualizar una ubicación.
type UpdateUbicacionRequest struct {
	Pasillo        *string          `json:"pasillo"`
	Estante        *string          `json:"estante"`
	Nivel          *string          `json:"nivel"`
	Capacidad      *decimal.Decimal `json:"capacidad"`
	Tipo           *string          `json:"tipo"`
	TemperaturaMin *decimal.Decimal `json:"temperatura_min"`
	TemperaturaMax *decimal.Decimal `json:"temperatura_max"`
	HumedadMin     *decimal.Decimal `json:"humedad_min"`
	HumedadMax     *decimal.Decimal `json:"humedad_max"`
	Activa         *bool            `json:"activa"`
}

// UbicacionResponse salida de una ubicación.
type UbicacionResponse struct {
	ID             string           `json:"id"`
	Codigo         string           `json:"codigo"`
	Pasillo        string           `json:"pasillo"`
	Estante        string           `json:"estante"`
	Nivel          string           `json:"nivel"`
	Capacidad      decimal.Decimal  `json:"capacidad"`
	Ocupacion      decimal.Decimal  `json:"ocupacion"`
	Tipo           string           `json:"tipo"`
	TemperaturaMin *decimal.Decimal `json:"temperatura_min,omitempty"`
	TemperaturaMax *decimal.Decimal `json:"temperatura_max,omitempty"`
	HumedadMin     *decimal.Decimal `json:"humedad_min,omitempty"`
	HumedadMax     *decimal.Decimal `json:"humedad_max,omitempty"`
	Activa         bool             `json:"activa"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

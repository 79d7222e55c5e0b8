// Package allocation define la política de selección de lotes para picking.
// La regla por defecto es FEFO (first-expired-first-out); la estrategia es
// intercambiable porque operación de bodega necesita forzar FIFO o fijar un
// lote a mano con frecuencia.
package allocation

import (
	"sort"
	"strings"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Nombres de estrategia.
const (
	FEFO = "FEFO"
	FIFO = "FIFO"
)

// Candidato es un registro de inventario elegible para reservar, junto con su
// lote (nulo para stock sin lote).
type Candidato struct {
	Registro *entity.RegistroInventario
	Lote     *entity.Lote
}

// Estrategia ordena los candidatos en el orden en que deben consumirse.
// El lote preferente de la línea se antepone fuera de la estrategia.
type Estrategia interface {
	Nombre() string
	Ordenar(candidatos []Candidato)
}

// Nueva construye la estrategia por nombre (insensible a mayúsculas).
func Nueva(nombre string) (Estrategia, error) {
	switch strings.ToUpper(nombre) {
	case FEFO, "":
		return fefo{}, nil
	case FIFO:
		return fifo{}, nil
	}
	return nil, domain.ErrInvalidInput
}

type fefo struct{}

func (fefo) Nombre() string { return FEFO }

// Ordenar: vencimiento más próximo primero; stock sin lote al final.
// Empates por código de lote para un orden estable y reproducible.
func (fefo) Ordenar(candidatos []Candidato) {
	sort.SliceStable(candidatos, func(i, j int) bool {
		a, b := candidatos[i].Lote, candidatos[j].Lote
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		if !a.FechaVencimiento.Equal(b.FechaVencimiento) {
			return a.FechaVencimiento.Before(b.FechaVencimiento)
		}
		return a.Codigo < b.Codigo
	})
}

type fifo struct{}

func (fifo) Nombre() string { return FIFO }

// Ordenar: fecha de fabricación más antigua primero; stock sin lote al final.
func (fifo) Ordenar(candidatos []Candidato) {
	sort.SliceStable(candidatos, func(i, j int) bool {
		a, b := candidatos[i].Lote, candidatos[j].Lote
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		if !a.FechaFabricacion.Equal(b.FechaFabricacion) {
			return a.FechaFabricacion.Before(b.FechaFabricacion)
		}
		return a.Codigo < b.Codigo
	})
}

package picking

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// DetallePDF una línea de la lista de picking ya resuelta a códigos legibles
// para imprimir (el operador no lee UUIDs).
type DetallePDF struct {
	ProductoCodigo  string
	ProductoNombre  string
	UbicacionCodigo string
	LoteCodigo      string
	CantObjetivo    decimal.Decimal
	CantPickeada    decimal.Decimal
}

// ListPDFGenerator puerto de generación de la lista de picking imprimible.
type ListPDFGenerator interface {
	GeneratePickingListPDF(ctx context.Context, tarea *entity.Picking, orden *entity.OrdenSalida, detalles []DetallePDF) ([]byte, error)
}

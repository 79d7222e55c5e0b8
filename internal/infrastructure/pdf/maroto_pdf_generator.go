// Package pdf implementa la generación de la lista de picking imprimible
// que el operador lleva al pasillo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Lista de Picking + ID tarea  │  Cliente + Fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ubicación | Producto | Lote | Objetivo | Pickeado   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: firma del operador + fecha de cierre               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	apppicking "github.com/jhoicas/Almacen-api/internal/application/picking"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa picking.ListPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GeneratePickingListPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GeneratePickingListPDF(
	_ context.Context,
	tarea *entity.Picking,
	orden *entity.OrdenSalida,
	detalles []apppicking.DetallePDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lista de Picking", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(tarea, orden))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, d := range detalles {
		m.AddRows(detalleRow(d))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(tarea))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + tarea (izq) y cliente + fecha compromiso (der).
func headerRow(tarea *entity.Picking, orden *entity.OrdenSalida) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("LISTA DE PICKING", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tarea: "+tarea.ID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Cliente: "+orden.Cliente, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Compromiso: "+orden.FechaCompromiso.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Prioridad: "+fmt.Sprintf("%d", orden.Prioridad), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Align: align.Right}
	return row.New(7).Add(
		col.New(2).Add(text.New("Ubicación", header)),
		col.New(5).Add(text.New("Producto", header)),
		col.New(2).Add(text.New("Lote", header)),
		col.New(2).Add(text.New("Objetivo", headerRight)),
		col.New(1).Add(text.New("Pick", headerRight)),
	)
}

func detalleRow(d apppicking.DetallePDF) core.Row {
	cell := props.Text{Size: 8}
	cellRight := props.Text{Size: 8, Align: align.Right}
	return row.New(6).Add(
		col.New(2).Add(text.New(d.UbicacionCodigo, cell)),
		col.New(5).Add(text.New(d.ProductoCodigo+" "+d.ProductoNombre, cell)),
		col.New(2).Add(text.New(d.LoteCodigo, cell)),
		col.New(2).Add(text.New(d.CantObjetivo.String(), cellRight)),
		col.New(1).Add(text.New(d.CantPickeada.String(), cellRight)),
	)
}

// footerRow: espacio de firma y estado de la tarea.
func footerRow(tarea *entity.Picking) core.Row {
	operador := "Sin asignar"
	if tarea.AsignadoA != nil {
		operador = *tarea.AsignadoA
	}
	return row.New(14).Add(
		col.New(6).Add(
			text.New("Operador: "+operador, props.Text{Size: 8, Top: 2}),
			text.New("Firma: ______________________", props.Text{Size: 8, Top: 9}),
		),
		col.New(6).Add(
			text.New("Estado: "+tarea.Estado, props.Text{Size: 8, Top: 2, Align: align.Right}),
		),
	)
}

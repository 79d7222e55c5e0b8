// Package excel genera el exporte XLSX del historial de movimientos.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

var movimientosHeaders = []string{
	"ID", "Transacción", "Producto", "Ubicación", "Lote", "Tipo",
	"Cantidad", "Antes", "Después", "Motivo", "Referencia", "Creado por", "Fecha",
}

// ExportMovimientos arma un libro XLSX con una fila por movimiento y
// devuelve sus bytes listos para responder con Content-Disposition.
func ExportMovimientos(movimientos []*entity.Movimiento) ([]byte, error) {
	const sheet = "Movimientos"
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("excel: crear hoja: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo de cabecera: %w", err)
	}

	for i, header := range movimientosHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, m := range movimientos {
		ubicacion := ""
		if m.UbicacionID != nil {
			ubicacion = *m.UbicacionID
		}
		lote := ""
		if m.LoteID != nil {
			lote = *m.LoteID
		}
		values := []any{
			m.ID, m.TransaccionID, m.ProductoID, ubicacion, lote, m.Tipo,
			m.Cantidad.String(), m.CantidadAntes.String(), m.CantidadDespues.String(),
			m.Motivo, m.Referencia, m.CreadoPor, m.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	for i := range movimientosHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 15)
	}

	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"fixtrack/internal/entities"
)

const ordersSheet = "Заявки"

// WriteOrdersXLSX пишет все строки выгрузки на один лист.
func WriteOrdersXLSX(w io.Writer, rows []entities.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(orderHeaders))
	for i, h := range orderHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ordersSheet, "A1", &header); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(orderHeaders), 1)
	if err := f.SetCellStyle(ordersSheet, "A1", lastHeader, style); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := rowValues(row)
		line := make([]interface{}, len(values))
		for j, v := range values {
			line[j] = v
		}
		if err := f.SetSheetRow(ordersSheet, cell, &line); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(ordersSheet, "A", "A", 16)
	_ = f.SetColWidth(ordersSheet, "B", "D", 22)
	_ = f.SetColWidth(ordersSheet, "E", "E", 50)
	_ = f.SetColWidth(ordersSheet, "F", "J", 18)

	return f.Write(w)
}

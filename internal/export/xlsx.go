// Package export renders delivery logs as Excel workbooks for the site
// manager's reporting.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
)

const sheetName = "Deliveries"

var header = []string{"Date", "Material", "Quantity", "Unit", "Document"}

// DeliveryReport builds an xlsx workbook with one row per delivered material
// line, newest delivery first.
func DeliveryReport(project *domain.Project, deliveries []domain.MaterialDelivery) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", fmt.Sprintf("Material deliveries: %s", project.Name)); err != nil {
		return nil, fmt.Errorf("writing title: %w", err)
	}
	for col, name := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	row := 3
	for _, delivery := range deliveries {
		for _, item := range delivery.Items {
			values := []interface{}{
				delivery.DeliveryDate.Format("02.01.2006"),
				item.MaterialName,
				item.Quantity,
				item.Unit,
				delivery.DocumentID.String(),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(sheetName, cell, v); err != nil {
					return nil, fmt.Errorf("writing row %d: %w", row, err)
				}
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

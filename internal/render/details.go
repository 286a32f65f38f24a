package render

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
)

// ProductDetailsSheetName is the secondary worksheet appended after the
// submissions sheet when compact container groups were exported.
const ProductDetailsSheetName = "Product Details"

// detailColumns is the fixed layout of the product details sheet.
var detailColumns = []domain.ColumnDefinition{
	{ID: "date", Label: "Date", Type: domain.ColumnDate, Width: 12},
	{ID: "owner", Label: "Gebietsleiter", Type: domain.ColumnString, Width: 22},
	{ID: "location", Label: "Location", Type: domain.ColumnString, Width: 24},
	{ID: "wave", Label: "Wave", Type: domain.ColumnString, Width: 18},
	{ID: "container", Label: "Container", Type: domain.ColumnString, Width: 16},
	{ID: "product", Label: "Product", Type: domain.ColumnString, Width: 36},
	{ID: "quantity", Label: "Quantity", Type: domain.ColumnNumber, Width: 10},
	{ID: "unit_value", Label: "Unit Value", Type: domain.ColumnCurrency, Width: 12},
	{ID: "line_total", Label: "Line Total", Type: domain.ColumnCurrency, Width: 12},
}

// AddProductDetails appends the secondary sheet: one data row per product
// contribution, sorted by (date desc, owner asc, location asc, container
// asc), with a highlighted separator row inserted whenever the
// (container, location) pair changes relative to the previous row.
func (w *Workbook) AddProductDetails(details []domain.ProductDetail) error {
	if len(details) == 0 {
		return nil
	}

	sorted := make([]domain.ProductDetail, len(details))
	copy(sorted, details)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.OwnerName != b.OwnerName {
			return a.OwnerName < b.OwnerName
		}
		if a.LocationName != b.LocationName {
			return a.LocationName < b.LocationName
		}
		return a.ContainerName < b.ContainerName
	})

	name, err := w.newSheet(ProductDetailsSheetName)
	if err != nil {
		return err
	}
	if err := w.writeHeader(name, headers(detailColumns), widths(detailColumns)); err != nil {
		return err
	}

	sepID, err := w.f.NewStyle(ptr(separatorStyle()))
	if err != nil {
		return fmt.Errorf("render.Workbook.AddProductDetails: %w", err)
	}

	rowNum := 1
	var prevContainer, prevLocation string
	for i, d := range sorted {
		if i == 0 || d.ContainerName != prevContainer || d.LocationName != prevLocation {
			rowNum++
			if err := w.writeSeparatorRow(name, rowNum, sepID, d); err != nil {
				return err
			}
			prevContainer, prevLocation = d.ContainerName, d.LocationName
		}

		rowNum++
		if err := w.writeDetailRow(name, rowNum, d); err != nil {
			return err
		}
	}

	return nil
}

// writeSeparatorRow fills a full-width highlighted break row naming the
// container and location of the section that follows.
func (w *Workbook) writeSeparatorRow(name string, rowNum, styleID int, d domain.ProductDetail) error {
	first, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("render.Workbook.writeSeparatorRow: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(detailColumns), rowNum)
	if err != nil {
		return fmt.Errorf("render.Workbook.writeSeparatorRow: %w", err)
	}

	if err := w.f.SetCellStyle(name, first, last, styleID); err != nil {
		return fmt.Errorf("render.Workbook.writeSeparatorRow: %w", err)
	}
	label := fmt.Sprintf("%s @ %s", d.ContainerName, d.LocationName)
	if err := w.f.SetCellValue(name, first, label); err != nil {
		return fmt.Errorf("render.Workbook.writeSeparatorRow: %w", err)
	}
	return nil
}

// writeDetailRow writes one product contribution with the fixed column
// layout's currency, number, and date formatting.
func (w *Workbook) writeDetailRow(name string, rowNum int, d domain.ProductDetail) error {
	values := map[string]any{
		"date":       d.Date,
		"owner":      d.OwnerName,
		"location":   d.LocationName,
		"wave":       d.WaveName,
		"container":  d.ContainerName,
		"product":    d.ProductName,
		"quantity":   d.Quantity,
		"unit_value": d.UnitValue,
		"line_total": d.LineTotal,
	}

	for j, col := range detailColumns {
		cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
		if err != nil {
			return fmt.Errorf("render.Workbook.writeDetailRow: %w", err)
		}

		styleID, err := w.styleID(styleKey{colType: col.Type, role: domain.RoleStandalone})
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(name, cell, cell, styleID); err != nil {
			return fmt.Errorf("render.Workbook.writeDetailRow: %w", err)
		}

		v, ok := cellValue(col.Type, values[col.ID])
		if !ok {
			continue
		}
		if err := w.f.SetCellValue(name, cell, v); err != nil {
			return fmt.Errorf("render.Workbook.writeDetailRow: %w", err)
		}
	}
	return nil
}

// Package render turns transformed export rows into styled worksheets of an
// in-memory OOXML workbook. It mutates the workbook only; serialization is
// the orchestrator's job.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
)

// Row heights for compact multi-line cells: 15 units per text line, clamped
// to [60, 150].
const (
	compactLineHeight = 15
	compactMinHeight  = 60
	compactMaxHeight  = 150
)

// primaryLabelColumnID is the item-label column that receives indent (child
// rows) and wrapped multi-line text (compact rows).
const primaryLabelColumnID = "item_name"

// Workbook wraps an excelize file together with the style cache shared by all
// of its sheets. Each export call owns exactly one Workbook for its lifetime;
// nothing here is safe for concurrent use.
type Workbook struct {
	f      *excelize.File
	styles map[styleKey]int
	sheets int
}

// NewWorkbook creates an empty in-memory workbook.
func NewWorkbook() *Workbook {
	return &Workbook{
		f:      excelize.NewFile(),
		styles: make(map[styleKey]int),
	}
}

// File exposes the underlying excelize file for serialization and for test
// inspection.
func (w *Workbook) File() *excelize.File {
	return w.f
}

// SheetCount returns the number of worksheets added so far.
func (w *Workbook) SheetCount() int {
	return w.sheets
}

// AddSheet appends one worksheet: a frozen, styled header row built from the
// column definitions, then one row per export row with per-cell value
// coercion and role-driven styling.
func (w *Workbook) AddSheet(label string, cols []domain.ColumnDefinition, rows []domain.ExportRow) error {
	name, err := w.newSheet(label)
	if err != nil {
		return err
	}

	if err := w.writeHeader(name, headers(cols), widths(cols)); err != nil {
		return err
	}

	primary := primaryColumnIndex(cols)
	for i, row := range rows {
		rowNum := i + 2
		for j, col := range cols {
			cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return fmt.Errorf("render.Workbook.AddSheet: %w", err)
			}

			styleID, err := w.styleID(styleKey{colType: col.Type, role: row.Role, primary: j == primary})
			if err != nil {
				return err
			}
			if err := w.f.SetCellStyle(name, cell, cell, styleID); err != nil {
				return fmt.Errorf("render.Workbook.AddSheet: %w", err)
			}

			v, ok := cellValue(col.Type, row.Values[col.ID])
			if !ok {
				continue
			}
			if err := w.f.SetCellValue(name, cell, v); err != nil {
				return fmt.Errorf("render.Workbook.AddSheet: %w", err)
			}
		}

		if row.Role == domain.RoleCompact && primary >= 0 {
			if err := w.f.SetRowHeight(name, rowNum, compactRowHeight(row.Values[cols[primary].ID])); err != nil {
				return fmt.Errorf("render.Workbook.AddSheet: %w", err)
			}
		}
	}

	return nil
}

// newSheet registers the next worksheet under a sanitized name. The first
// sheet reuses excelize's default sheet so the workbook never carries an
// empty leftover tab.
func (w *Workbook) newSheet(label string) (string, error) {
	name := safeSheetName(label)
	if w.sheets == 0 {
		if err := w.f.SetSheetName(w.f.GetSheetName(0), name); err != nil {
			return "", fmt.Errorf("render.Workbook.newSheet: %w", err)
		}
	} else {
		if _, err := w.f.NewSheet(name); err != nil {
			return "", fmt.Errorf("render.Workbook.newSheet: %w", err)
		}
	}
	w.sheets++
	return name, nil
}

// writeHeader writes the bold header row, applies column widths, and freezes
// the top row.
func (w *Workbook) writeHeader(name string, labels []string, colWidths []float64) error {
	headerID, err := w.f.NewStyle(ptr(headerStyle()))
	if err != nil {
		return fmt.Errorf("render.Workbook.writeHeader: %w", err)
	}

	for j, label := range labels {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("render.Workbook.writeHeader: %w", err)
		}
		if err := w.f.SetCellValue(name, cell, label); err != nil {
			return fmt.Errorf("render.Workbook.writeHeader: %w", err)
		}
		if err := w.f.SetCellStyle(name, cell, cell, headerID); err != nil {
			return fmt.Errorf("render.Workbook.writeHeader: %w", err)
		}

		colName, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return fmt.Errorf("render.Workbook.writeHeader: %w", err)
		}
		if colWidths[j] > 0 {
			if err := w.f.SetColWidth(name, colName, colName, colWidths[j]); err != nil {
				return fmt.Errorf("render.Workbook.writeHeader: %w", err)
			}
		}
	}

	err = w.f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return fmt.Errorf("render.Workbook.writeHeader: %w", err)
	}
	return nil
}

// styleID registers the style for a key once per workbook and reuses it.
func (w *Workbook) styleID(k styleKey) (int, error) {
	if id, ok := w.styles[k]; ok {
		return id, nil
	}
	id, err := w.f.NewStyle(ptr(cellStyle(k)))
	if err != nil {
		return 0, fmt.Errorf("render.Workbook.styleID: %w", err)
	}
	w.styles[k] = id
	return id, nil
}

// cellValue coerces a projected value for its column's semantic type.
// The second return value is false when the cell must stay empty
// (nil, empty string, zero time, or a missing column).
func cellValue(t domain.ColumnType, v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	switch t {
	case domain.ColumnCurrency, domain.ColumnNumber:
		switch n := v.(type) {
		case decimal.Decimal:
			return n.InexactFloat64(), true
		case int64:
			return n, true
		case int:
			return n, true
		case float64:
			return n, true
		}
		return nil, false
	case domain.ColumnDatetime, domain.ColumnDate:
		ts, ok := v.(time.Time)
		if !ok || ts.IsZero() {
			return nil, false
		}
		return ts, true
	case domain.ColumnBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, false
		}
		return b, true
	default:
		s := fmt.Sprint(v)
		if s == "" {
			return nil, false
		}
		return s, true
	}
}

// compactRowHeight computes the wrapped-label row height from the number of
// text lines, clamped to the compact bounds.
func compactRowHeight(label any) float64 {
	lines := 1
	if s, ok := label.(string); ok {
		lines = strings.Count(s, "\n") + 1
	}
	h := float64(lines * compactLineHeight)
	if h < compactMinHeight {
		return compactMinHeight
	}
	if h > compactMaxHeight {
		return compactMaxHeight
	}
	return h
}

// primaryColumnIndex locates the primary label column within the selection,
// falling back to the first string column. Returns -1 when the selection has
// no string column at all.
func primaryColumnIndex(cols []domain.ColumnDefinition) int {
	for i, c := range cols {
		if c.ID == primaryLabelColumnID {
			return i
		}
	}
	for i, c := range cols {
		if c.Type == domain.ColumnString {
			return i
		}
	}
	return -1
}

// safeSheetName makes a label usable as a worksheet name: the characters
// excelize rejects are replaced and the result is cut to 31 runes.
func safeSheetName(label string) string {
	r := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")
	name := strings.TrimSpace(r.Replace(label))
	if name == "" {
		name = "Sheet"
	}
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}

func headers(cols []domain.ColumnDefinition) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Label
	}
	return out
}

func widths(cols []domain.ColumnDefinition) []float64 {
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = c.Width
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}

package render

import (
	"github.com/xuri/excelize/v2"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
)

// Number format masks. Dates use the German locale the field organisation
// works in; currency is euro with two fixed fraction digits.
const (
	fmtCurrency = `#,##0.00\ "€"`
	fmtNumber   = `#,##0.00`
	fmtDatetime = `dd.mm.yyyy hh:mm`
	fmtDate     = `dd.mm.yyyy`
)

// Fill colors per structural role.
const (
	colorHeader    = "D9E1F2"
	colorParent    = "BDD7EE"
	colorChild     = "F2F2F2"
	colorSeparator = "DDEBF7"
)

// styleKey identifies one distinct cell style: the column's semantic type,
// the row's structural role, and whether the cell sits in the primary label
// column (which gets indent/wrap treatment on child and compact rows).
type styleKey struct {
	colType domain.ColumnType
	role    domain.RowRole
	primary bool
}

// cellStyle is the pure mapping from (column type, row role) to a declarative
// style descriptor. It holds no workbook state; callers register the result
// through the per-workbook cache.
func cellStyle(k styleKey) excelize.Style {
	var st excelize.Style

	switch k.colType {
	case domain.ColumnCurrency:
		f := fmtCurrency
		st.CustomNumFmt = &f
		st.Alignment = &excelize.Alignment{Horizontal: "right"}
	case domain.ColumnNumber:
		f := fmtNumber
		st.CustomNumFmt = &f
		// Right alignment is suppressed on child rows for plain numbers;
		// only value-bearing (currency) columns keep it.
		if k.role != domain.RoleChild {
			st.Alignment = &excelize.Alignment{Horizontal: "right"}
		}
	case domain.ColumnDatetime:
		f := fmtDatetime
		st.CustomNumFmt = &f
	case domain.ColumnDate:
		f := fmtDate
		st.CustomNumFmt = &f
	case domain.ColumnBoolean:
		st.Alignment = &excelize.Alignment{Horizontal: "center"}
	}

	switch k.role {
	case domain.RoleParent:
		st.Font = &excelize.Font{Bold: true}
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorParent}}
	case domain.RoleChild:
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorChild}}
		if k.primary {
			st.Alignment = mergeAlignment(st.Alignment, func(a *excelize.Alignment) { a.Indent = 1 })
		}
	case domain.RoleCompact:
		if k.primary {
			st.Alignment = mergeAlignment(st.Alignment, func(a *excelize.Alignment) {
				a.WrapText = true
				a.Vertical = "top"
			})
		}
	}

	return st
}

// headerStyle is the frozen header row: bold on a highlight fill with a
// bottom border.
func headerStyle() excelize.Style {
	return excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorHeader}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "8EA9DB", Style: 2},
		},
	}
}

// separatorStyle marks the container/location break rows of the product
// details sheet.
func separatorStyle() excelize.Style {
	return excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorSeparator}},
	}
}

func mergeAlignment(a *excelize.Alignment, apply func(*excelize.Alignment)) *excelize.Alignment {
	if a == nil {
		a = &excelize.Alignment{}
	}
	apply(a)
	return a
}

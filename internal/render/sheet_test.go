package render

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
)

var testCols = []domain.ColumnDefinition{
	{ID: "created_at", Label: "Submitted At", Type: domain.ColumnDatetime, Width: 18},
	{ID: "item_name", Label: "Item", Type: domain.ColumnString, Width: 40},
	{ID: "quantity", Label: "Quantity", Type: domain.ColumnNumber, Width: 10},
	{ID: "total_value", Label: "Total Value", Type: domain.ColumnCurrency, Width: 12},
}

func testRow(role domain.RowRole, itemName string, qty int64, total string) domain.ExportRow {
	return domain.ExportRow{
		Role:      role,
		GroupSize: 1,
		Values: map[string]any{
			"created_at":  time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
			"item_name":   itemName,
			"quantity":    qty,
			"total_value": decimal.RequireFromString(total),
		},
	}
}

func TestWorkbook_AddSheet_FirstSheetReplacesDefault(t *testing.T) {
	wb := NewWorkbook()

	err := wb.AddSheet("Submissions", testCols, []domain.ExportRow{
		testRow(domain.RoleStandalone, "Single Poster", 2, "10.00"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, wb.SheetCount())
	assert.Equal(t, []string{"Submissions"}, wb.File().GetSheetList(), "no leftover default tab")
}

func TestWorkbook_AddSheet_HeaderAndValues(t *testing.T) {
	wb := NewWorkbook()

	err := wb.AddSheet("Submissions", testCols, []domain.ExportRow{
		testRow(domain.RoleStandalone, "Single Poster", 2, "10.00"),
	})
	require.NoError(t, err)

	f := wb.File()
	for j, col := range testCols {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		require.NoError(t, err)
		got, err := f.GetCellValue("Submissions", cell)
		require.NoError(t, err)
		assert.Equal(t, col.Label, got)
	}

	name, err := f.GetCellValue("Submissions", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Single Poster", name)

	width, err := f.GetColWidth("Submissions", "B")
	require.NoError(t, err)
	assert.InDelta(t, 40, width, 0.5)
}

func TestWorkbook_AddSheet_FreezesHeaderRow(t *testing.T) {
	wb := NewWorkbook()

	err := wb.AddSheet("Submissions", testCols, nil)
	require.NoError(t, err)

	panes, err := wb.File().GetPanes("Submissions")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
	assert.Equal(t, "A2", panes.TopLeftCell)
}

func TestWorkbook_AddSheet_CompactRowHeight(t *testing.T) {
	wb := NewWorkbook()

	label := "└ Shampoo Display (3×) - €6.00\n└ Soap Display (5×) - €7.50\nTotal: €13.50"
	compact := testRow(domain.RoleCompact, label, 8, "13.50")
	err := wb.AddSheet("Submissions", testCols, []domain.ExportRow{
		compact,
		testRow(domain.RoleStandalone, "Single Poster", 1, "5.00"),
	})
	require.NoError(t, err)

	f := wb.File()
	compactHeight, err := f.GetRowHeight("Submissions", 2)
	require.NoError(t, err)
	assert.Equal(t, float64(compactMinHeight), compactHeight, "three lines still clamp up to the minimum")

	// The standalone row keeps the sheet default.
	plainHeight, err := f.GetRowHeight("Submissions", 3)
	require.NoError(t, err)
	assert.NotEqual(t, float64(compactMinHeight), plainHeight)
}

func TestWorkbook_AddSheet_RoleStylesDiffer(t *testing.T) {
	wb := NewWorkbook()

	err := wb.AddSheet("Submissions", testCols, []domain.ExportRow{
		testRow(domain.RoleParent, "Palette A", 1, "13.50"),
		testRow(domain.RoleChild, "└ Shampoo Display", 3, "6.00"),
		testRow(domain.RoleStandalone, "Single Poster", 1, "5.00"),
	})
	require.NoError(t, err)

	f := wb.File()
	parentStyle, err := f.GetCellStyle("Submissions", "B2")
	require.NoError(t, err)
	childStyle, err := f.GetCellStyle("Submissions", "B3")
	require.NoError(t, err)
	plainStyle, err := f.GetCellStyle("Submissions", "B4")
	require.NoError(t, err)

	assert.NotEqual(t, parentStyle, childStyle)
	assert.NotEqual(t, childStyle, plainStyle)
	assert.NotEqual(t, parentStyle, plainStyle)
}

func TestWorkbook_AddSheet_SecondSheetAppends(t *testing.T) {
	wb := NewWorkbook()

	require.NoError(t, wb.AddSheet("Waves", testCols[:2], nil))
	require.NoError(t, wb.AddSheet("Locations", testCols[:2], nil))

	assert.Equal(t, 2, wb.SheetCount())
	assert.Equal(t, []string{"Waves", "Locations"}, wb.File().GetSheetList())
}

// ---- helpers ---------------------------------------------------------------

func TestCellValue(t *testing.T) {
	tests := []struct {
		name    string
		colType domain.ColumnType
		in      any
		want    any
		ok      bool
	}{
		{"nil stays empty", domain.ColumnString, nil, nil, false},
		{"empty string stays empty", domain.ColumnString, "", nil, false},
		{"string passes through", domain.ColumnString, "M1", "M1", true},
		{"decimal becomes float", domain.ColumnCurrency, decimal.RequireFromString("13.50"), 13.5, true},
		{"int64 number", domain.ColumnNumber, int64(8), int64(8), true},
		{"non-numeric in number column stays empty", domain.ColumnNumber, "n/a", nil, false},
		{"zero time stays empty", domain.ColumnDatetime, time.Time{}, nil, false},
		{"bool passes through", domain.ColumnBoolean, true, true, true},
		{"non-bool in boolean column stays empty", domain.ColumnBoolean, "yes", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cellValue(tt.colType, tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCompactRowHeight(t *testing.T) {
	assert.Equal(t, float64(compactMinHeight), compactRowHeight("one line"))
	assert.Equal(t, float64(compactMinHeight), compactRowHeight(nil))

	sixLines := "a\nb\nc\nd\ne\nf"
	assert.Equal(t, float64(90), compactRowHeight(sixLines))

	tall := ""
	for i := 0; i < 30; i++ {
		tall += "line\n"
	}
	assert.Equal(t, float64(compactMaxHeight), compactRowHeight(tall))
}

func TestSafeSheetName(t *testing.T) {
	assert.Equal(t, "Submissions", safeSheetName("Submissions"))
	assert.Equal(t, "A B", safeSheetName("A/B"))
	assert.Equal(t, "(Waves)", safeSheetName("[Waves]"))
	assert.Equal(t, "Sheet", safeSheetName("  "))

	long := safeSheetName("This label is far too long for a worksheet tab name")
	assert.Len(t, []rune(long), 31)
}

func TestPrimaryColumnIndex(t *testing.T) {
	assert.Equal(t, 1, primaryColumnIndex(testCols), "item_name wins")

	noItem := []domain.ColumnDefinition{
		{ID: "quantity", Type: domain.ColumnNumber},
		{ID: "location_name", Type: domain.ColumnString},
	}
	assert.Equal(t, 1, primaryColumnIndex(noItem), "first string column is the fallback")

	numeric := []domain.ColumnDefinition{
		{ID: "quantity", Type: domain.ColumnNumber},
	}
	assert.Equal(t, -1, primaryColumnIndex(numeric))
}

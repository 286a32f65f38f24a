package render

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
)

func detail(date time.Time, owner, location, container, product string, qty int64, unit string) domain.ProductDetail {
	u := decimal.RequireFromString(unit)
	return domain.ProductDetail{
		Date:          date,
		OwnerName:     owner,
		LocationName:  location,
		WaveName:      "Spring Wave",
		ContainerName: container,
		ProductName:   product,
		Quantity:      qty,
		UnitValue:     u,
		LineTotal:     u.Mul(decimal.NewFromInt(qty)),
	}
}

func TestWorkbook_AddProductDetails_EmptyIsNoOp(t *testing.T) {
	wb := NewWorkbook()

	require.NoError(t, wb.AddProductDetails(nil))

	assert.Equal(t, 0, wb.SheetCount())
}

func TestWorkbook_AddProductDetails_SectionsAndOrder(t *testing.T) {
	newest := time.Date(2025, 3, 10, 10, 0, 10, 0, time.UTC)
	older := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)

	// Deliberately out of order: the sheet must sort newest first and section
	// by (container, location).
	details := []domain.ProductDetail{
		detail(older, "Bernd Claas", "M2", "Crate 7", "Crate Mix", 2, "4.00"),
		detail(newest, "Anna Berger", "M1", "Palette A", "Shampoo Display", 3, "2.00"),
		detail(newest, "Anna Berger", "M1", "Palette A", "Soap Display", 5, "1.50"),
	}

	wb := NewWorkbook()
	require.NoError(t, wb.AddProductDetails(details))

	f := wb.File()
	assert.Equal(t, []string{ProductDetailsSheetName}, f.GetSheetList())

	header, err := f.GetCellValue(ProductDetailsSheetName, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Gebietsleiter", header)

	// Row 2: separator for the newest section.
	sep, err := f.GetCellValue(ProductDetailsSheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Palette A @ M1", sep)

	// Rows 3-4: the Palette A members in input order (stable sort).
	for i, want := range []string{"Shampoo Display", "Soap Display"} {
		got, err := f.GetCellValue(ProductDetailsSheetName, fmt.Sprintf("F%d", 3+i))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Row 5: section break for the older crate at the other location.
	sep, err = f.GetCellValue(ProductDetailsSheetName, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Crate 7 @ M2", sep)

	product, err := f.GetCellValue(ProductDetailsSheetName, "F6")
	require.NoError(t, err)
	assert.Equal(t, "Crate Mix", product)

	owner, err := f.GetCellValue(ProductDetailsSheetName, "B6")
	require.NoError(t, err)
	assert.Equal(t, "Bernd Claas", owner)
}

func TestWorkbook_AddProductDetails_SameSectionSingleSeparator(t *testing.T) {
	date := time.Date(2025, 3, 10, 10, 0, 10, 0, time.UTC)
	details := []domain.ProductDetail{
		detail(date, "Anna Berger", "M1", "Palette A", "Shampoo Display", 3, "2.00"),
		detail(date, "Anna Berger", "M1", "Palette A", "Soap Display", 5, "1.50"),
	}

	wb := NewWorkbook()
	require.NoError(t, wb.AddProductDetails(details))

	// One separator, two detail rows, nothing on row 5.
	last, err := wb.File().GetCellValue(ProductDetailsSheetName, "A5")
	require.NoError(t, err)
	assert.Empty(t, last)
}

package catalog_import

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"comma header", "A,B,C\n1,2,3", ','},
		{"tab header", "A\tB\tC\n1\t2\t3", '\t'},
		{"tabs win only when strictly more", "A\tB,C\n", ','},
		{"leading blank lines ignored", "\n\n  \nA\tB\tC,D\n", '\t'},
		{"empty text", "", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter(tt.text))
		})
	}
}

func TestDetectFormatDelimited(t *testing.T) {
	payload, err := DetectFormat("products.CSV", []byte("\ufeff"+header+"\n"))
	require.NoError(t, err)

	assert.Equal(t, FormatDelimited, payload.Format)
	assert.Equal(t, ',', payload.Delimiter)
	assert.True(t, strings.HasPrefix(payload.Text, ColAction), "BOM must be stripped")
}

func TestDetectFormatTabSeparated(t *testing.T) {
	text := strings.Join(Columns, "\t") + "\n"
	payload, err := DetectFormat("products.tsv", []byte(text))
	require.NoError(t, err)
	assert.Equal(t, '\t', payload.Delimiter)
}

func TestDetectFormatUnsupported(t *testing.T) {
	_, err := DetectFormat("products.pdf", []byte("%PDF"))

	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".pdf", unsupported.Extension)
	assert.True(t, IsBatchFatal(err))
}

func TestDetectFormatSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headerRow := make([]interface{}, len(Columns))
	for i, c := range Columns {
		headerRow[i] = c
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &headerRow))
	// Trailing cells left empty, and a comma inside a cell.
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"CREATE", "", "Chaise, bois", "CH-1"}))

	// A second sheet must be ignored.
	f.NewSheet("Other")
	f.SetCellValue("Other", "A1", "ignored")

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	payload, err := DetectFormat("catalog.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, FormatSpreadsheet, payload.Format)
	assert.Equal(t, ',', payload.Delimiter)

	table, err := ParseRows(payload.Text, payload.Delimiter, true)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 2, table.Rows[0].Number)
	assert.Equal(t, "Chaise, bois", table.Rows[0].Text(ColProductName))
	assert.True(t, table.Rows[0].Get(ColQuantityVariant).IsEmpty())
}

func TestDetectFormatSpreadsheetReadsStoredNumbers(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headerRow := make([]interface{}, len(Columns))
	for i, c := range Columns {
		headerRow[i] = c
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &headerRow))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"CREATE", "", "Buffet", "BF-1"}))
	require.NoError(t, f.SetCellValue(sheet, "I2", 1234.5))
	require.NoError(t, f.SetCellValue(sheet, "J2", 0.2))
	require.NoError(t, f.SetCellValue(sheet, "L2", 1500))

	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 9})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "I2", "I2", thousands))
	require.NoError(t, f.SetCellStyle(sheet, "L2", "L2", thousands))
	require.NoError(t, f.SetCellStyle(sheet, "J2", "J2", percent))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	payload, err := DetectFormat("catalog.xlsx", buf.Bytes())
	require.NoError(t, err)

	table, err := ParseRows(payload.Text, payload.Delimiter, true)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	assert.Equal(t, "1234.5", row.Text(ColSellPriceTaxExcl))
	assert.Equal(t, "20", row.Text(ColVAT))
	assert.Equal(t, "1500", row.Text(ColQuantity))
}

func TestDetectFormatCorruptSpreadsheet(t *testing.T) {
	_, err := DetectFormat("broken.xlsx", []byte("not a zip"))

	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Error(t, unsupported.Cause)
	assert.Contains(t, err.Error(), "could not be read")
	assert.True(t, IsBatchFatal(err))
}

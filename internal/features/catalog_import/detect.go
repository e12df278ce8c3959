package catalog_import

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatSpreadsheet Format = "spreadsheet"
	FormatDelimited   Format = "delimited"
)

var (
	spreadsheetExtensions = map[string]bool{".xlsx": true, ".xlsm": true, ".xls": true}
	delimitedExtensions   = map[string]bool{".csv": true, ".tsv": true, ".txt": true}
)

const utf8BOM = "\ufeff"

// Payload is the uploaded file normalized to delimited text.
type Payload struct {
	FileName  string
	Format    Format
	Text      string
	Delimiter rune
}

// DetectFormat chooses the decoding path from the file extension. Spreadsheets
// are flattened from their first sheet into comma-delimited text; delimited
// files keep their content and get a detected delimiter.
func DetectFormat(fileName string, data []byte) (*Payload, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	switch {
	case spreadsheetExtensions[ext]:
		text, err := spreadsheetToCSV(data)
		if err != nil {
			if IsBatchFatal(err) {
				return nil, err
			}
			return nil, &UnsupportedFormatError{FileName: fileName, Extension: ext, Cause: err}
		}
		return &Payload{FileName: fileName, Format: FormatSpreadsheet, Text: text, Delimiter: ','}, nil
	case delimitedExtensions[ext]:
		text := strings.TrimPrefix(string(data), utf8BOM)
		return &Payload{FileName: fileName, Format: FormatDelimited, Text: text, Delimiter: DetectDelimiter(text)}, nil
	default:
		return nil, &UnsupportedFormatError{FileName: fileName, Extension: ext}
	}
}

// DetectDelimiter returns tab when the first non-empty line holds strictly
// more tabs than commas, comma otherwise.
func DetectDelimiter(text string) rune {
	line := firstNonBlankLine(text)
	if strings.Count(line, "\t") > strings.Count(line, ",") {
		return '\t'
	}
	return ','
}

func spreadsheetToCSV(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", &EmptyFileError{}
	}

	rows, err := sheetRows(f, sheets[0])
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	// GetRows trims trailing empty cells, so rows are padded back to the
	// header width to keep field counts aligned.
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if len(row) > 0 && len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// sheetRows reads stored cell values so number formats such as thousands
// separators never reach the parser. Cells displayed as a percentage are
// scaled back to points: a VAT shown as "20%" is stored as 0.2 and read as 20.
func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	for i := range raw {
		if i >= len(shown) {
			break
		}
		for j := range raw[i] {
			if j >= len(shown[i]) || !strings.HasSuffix(strings.TrimSpace(shown[i][j]), "%") {
				continue
			}
			if d, err := decimal.NewFromString(strings.TrimSpace(raw[i][j])); err == nil {
				raw[i][j] = d.Mul(hundred).String()
			}
		}
	}
	return raw, nil
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return strings.TrimRight(line, "\r")
		}
	}
	return ""
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	return lines
}

package catalog_import

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ParsedTable is the tokenized content of an import file.
type ParsedTable struct {
	Headers []string
	Rows    []RawRow
}

// ParseRows tokenizes text into typed rows. Quoted fields may contain the
// delimiter, doubled quotes escape a quote. Blank lines are skipped. Every
// row that fails to tokenize or has the wrong field count is collected into a
// single StructuralParseError.
func ParseRows(text string, delimiter rune, hasHeader bool) (*ParsedTable, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	table := &ParsedTable{}
	if !hasHeader {
		table.Headers = Columns
	}

	var issues []RowIssue
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				issues = append(issues, RowIssue{Row: pe.StartLine, Message: pe.Err.Error()})
				continue
			}
			return nil, err
		}

		line, _ := reader.FieldPos(0)
		if isBlankRecord(rec) {
			continue
		}

		if table.Headers == nil {
			table.Headers = make([]string, len(rec))
			for i, name := range rec {
				table.Headers[i] = canonicalColumn(name)
			}
			continue
		}

		if len(rec) != len(table.Headers) {
			issues = append(issues, RowIssue{Row: line, Expected: len(table.Headers), Found: len(rec)})
			continue
		}

		row := RawRow{Number: line, Cells: make(map[string]Cell, len(rec))}
		for i, value := range rec {
			row.Cells[table.Headers[i]] = NewCell(value)
		}
		table.Rows = append(table.Rows, row)
	}

	if len(issues) > 0 {
		return nil, &StructuralParseError{Issues: issues}
	}
	if len(table.Rows) == 0 {
		return nil, &NoDataError{}
	}
	return table, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

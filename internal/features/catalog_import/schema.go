package catalog_import

import "strings"

// ValidateHeader checks the header of text against the expected column count
// and the template column names before any row is parsed. The header is
// split naively on the delimiter.
func ValidateHeader(text string, delimiter rune, expected int) error {
	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return &EmptyFileError{Lines: len(lines)}
	}

	names := strings.Split(lines[0], string(delimiter))
	if len(names) != expected {
		return &SchemaMismatchError{Expected: expected, Found: len(names), Delimiter: delimiter}
	}
	if unexpected := unexpectedColumns(names); len(unexpected) > 0 {
		return &SchemaMismatchError{Expected: expected, Found: len(names), Delimiter: delimiter, Unexpected: unexpected}
	}
	return nil
}

// unexpectedColumns returns header names that are not template columns, and
// repeats of one that already appeared.
func unexpectedColumns(names []string) []string {
	known := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		known[c] = true
	}

	seen := make(map[string]bool, len(names))
	var unexpected []string
	for _, name := range names {
		name = strings.Trim(strings.TrimSpace(name), `"`)
		col := canonicalColumn(name)
		if !known[col] || seen[col] {
			unexpected = append(unexpected, name)
		}
		seen[col] = true
	}
	return unexpected
}

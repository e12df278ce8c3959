package catalog_import

import (
	"errors"
	"fmt"
	"strings"
)

// UnsupportedFormatError is returned for a file whose extension is neither a
// spreadsheet nor delimited text. Cause is set when the extension is known but
// the content cannot be decoded.
type UnsupportedFormatError struct {
	FileName  string
	Extension string
	Cause     error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%q could not be read as a %s file: %v", e.FileName, e.Extension, e.Cause)
	}
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported file format %s for %q: use .xlsx, .xlsm, .xls, .csv, .tsv or .txt", ext, e.FileName)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return e.Cause
}

type EmptyFileError struct {
	Lines int
}

func (e *EmptyFileError) Error() string {
	return fmt.Sprintf("file is empty or has no data rows (%d non-blank line(s)): expected a header line followed by at least one product row", e.Lines)
}

// SchemaMismatchError is a header with the wrong column count, or with the
// right count but names outside the template (listed in Unexpected).
type SchemaMismatchError struct {
	Expected   int
	Found      int
	Delimiter  rune
	Unexpected []string
}

func (e *SchemaMismatchError) Error() string {
	if len(e.Unexpected) > 0 {
		return fmt.Sprintf(
			"invalid header: unexpected column(s) %s; check the header matches the template columns (%s)",
			strings.Join(e.Unexpected, ", "), strings.Join(Columns, ", "),
		)
	}
	return fmt.Sprintf(
		"invalid header: expected %d columns, found %d using delimiter %s; check the file uses a comma or tab separator and matches the template columns (%s)",
		e.Expected, e.Found, delimiterName(e.Delimiter), strings.Join(Columns, ", "),
	)
}

// RowIssue is one structurally broken row.
type RowIssue struct {
	Row      int    `json:"row"`
	Expected int    `json:"expected,omitempty"`
	Found    int    `json:"found,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (i RowIssue) String() string {
	if i.Message != "" {
		return fmt.Sprintf("row %d: %s", i.Row, i.Message)
	}
	return fmt.Sprintf("row %d: expected %d fields, found %d", i.Row, i.Expected, i.Found)
}

// StructuralParseError lists every row that could not be tokenized against
// the header.
type StructuralParseError struct {
	Issues []RowIssue
}

func (e *StructuralParseError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("file could not be parsed (%d row(s) affected): %s; check for unbalanced quotes or stray delimiters",
		len(e.Issues), strings.Join(parts, "; "))
}

type NoDataError struct{}

func (e *NoDataError) Error() string {
	return "no data rows found after the header"
}

// MissingFieldError marks a required column left empty.
type MissingFieldError struct {
	Field string
	Row   int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %s at row %d", e.Field, e.Row)
}

type InvalidNumberError struct {
	Field string
	Row   int
	Raw   string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid number %q for %s at row %d", e.Raw, e.Field, e.Row)
}

// IsBatchFatal reports whether err aborts the whole import before any product
// is built.
func IsBatchFatal(err error) bool {
	var (
		unsupported *UnsupportedFormatError
		empty       *EmptyFileError
		schema      *SchemaMismatchError
		structural  *StructuralParseError
		noData      *NoDataError
	)
	return errors.As(err, &unsupported) ||
		errors.As(err, &empty) ||
		errors.As(err, &schema) ||
		errors.As(err, &structural) ||
		errors.As(err, &noData)
}

func delimiterName(d rune) string {
	switch d {
	case '\t':
		return "tab"
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	default:
		return fmt.Sprintf("%q", d)
	}
}

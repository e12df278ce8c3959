package catalog_import

import (
	"regexp"
	"strconv"
	"strings"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellBool
)

var numericCell = regexp.MustCompile(`^-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?$`)

// Cell is one typed field value. Text always keeps the trimmed source text so
// values such as "007" survive numeric detection.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Bool   bool
}

func NewCell(raw string) Cell {
	text := strings.TrimSpace(raw)
	switch {
	case text == "":
		return Cell{Kind: CellEmpty}
	case strings.EqualFold(text, "true"):
		return Cell{Kind: CellBool, Text: text, Bool: true}
	case strings.EqualFold(text, "false"):
		return Cell{Kind: CellBool, Text: text, Bool: false}
	case numericCell.MatchString(text):
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return Cell{Kind: CellNumber, Text: text, Number: n}
		}
	}
	return Cell{Kind: CellString, Text: text}
}

func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

func (c Cell) String() string {
	return c.Text
}

// IsTrue reports a TRUE marker, case-insensitive.
func (c Cell) IsTrue() bool {
	return c.Kind == CellBool && c.Bool
}

// IsFalse reports a FALSE marker, case-insensitive.
func (c Cell) IsFalse() bool {
	return c.Kind == CellBool && !c.Bool
}

// RawRow is one parsed data row keyed by canonical column name.
type RawRow struct {
	Number int
	Cells  map[string]Cell
}

func (r RawRow) Get(column string) Cell {
	return r.Cells[column]
}

func (r RawRow) Text(column string) string {
	return r.Cells[column].Text
}

// canonicalColumn upper-cases a header name and drops the required-column
// marker used by the XLSX template ("VAT *").
func canonicalColumn(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), "*")
	return strings.ToUpper(strings.TrimSpace(name))
}

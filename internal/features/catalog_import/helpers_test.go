package catalog_import

import (
	"strings"
)

var header = strings.Join(Columns, ",")

// record returns a 19-field row with the given columns filled in.
func record(values map[string]string) []string {
	out := make([]string, len(Columns))
	for i, col := range Columns {
		out[i] = values[col]
	}
	return out
}

func csvLine(values map[string]string) string {
	return strings.Join(record(values), ",")
}

func csvFile(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func newRow(number int, values map[string]string) RawRow {
	row := RawRow{Number: number, Cells: make(map[string]Cell, len(Columns))}
	for _, col := range Columns {
		row.Cells[col] = NewCell(values[col])
	}
	return row
}

func simpleProduct(ref, name string) map[string]string {
	return map[string]string{
		ColAction:           "CREATE",
		ColProductName:      name,
		ColReference:        ref,
		ColSellPriceTaxExcl: "15.0",
		ColVAT:              "20.0",
		ColQuantity:         "10",
		ColSellable:         "TRUE",
		ColSimpleProduct:    "TRUE",
	}
}

func variantRow(ref, name, combination, impact, stock string) map[string]string {
	return map[string]string{
		ColAction:           "CREATE",
		ColProductName:      name,
		ColReference:        ref,
		ColSellPriceTaxExcl: "15.0",
		ColVAT:              "20.0",
		ColSimpleProduct:    "FALSE",
		ColVariantName:      combination,
		ColImpactPrice:      impact,
		ColQuantityVariant:  stock,
	}
}

package catalog_import

import "strings"

// ProductGroup holds every row of one product in file order.
type ProductGroup struct {
	Key  string
	Rows []RawRow
}

func (g ProductGroup) First() RawRow {
	return g.Rows[0]
}

// GroupKey is the trimmed REFERENCE, or the trimmed PRODUCTNAME when the
// reference is empty.
func GroupKey(row RawRow) string {
	if ref := strings.TrimSpace(row.Text(ColReference)); ref != "" {
		return ref
	}
	return strings.TrimSpace(row.Text(ColProductName))
}

// GroupRows coalesces rows sharing a key, including non-adjacent ones.
// Groups keep first-seen order. Rows with no key are returned as skipped
// row numbers.
func GroupRows(rows []RawRow) ([]ProductGroup, []int) {
	var (
		groups  []ProductGroup
		skipped []int
		index   = make(map[string]int)
	)

	for _, row := range rows {
		key := GroupKey(row)
		if key == "" {
			skipped = append(skipped, row.Number)
			continue
		}
		if i, ok := index[key]; ok {
			groups[i].Rows = append(groups[i].Rows, row)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, ProductGroup{Key: key, Rows: []RawRow{row}})
	}

	return groups, skipped
}

package utils

import (
	"io"
	"strings"
)

// Header labels recognised in the first row of a pool file
const (
	PoolHeaderLabel          = "number"
	PoolHeaderLabelLocalized = "号码"
)

// ParsePoolRows extracts identifiers from the first cell of each row
//
// The first row is treated as a header when its first cell is a header label or is not
// numeric. Empty cells and repeated header labels are skipped. The result is sorted with
// CompareIdentifiers and may still contain duplicates
func ParsePoolRows(rows [][]string) []string {
	ids := make([]string, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		value := strings.TrimSpace(row[0])
		if value == "" {
			continue
		}
		if isHeaderLabel(value) {
			continue
		}
		if i == 0 {
			if _, ok := ParseNumeric(value); !ok {
				continue
			}
		}
		ids = append(ids, value)
	}
	SortIdentifiers(ids)
	return ids
}

func isHeaderLabel(value string) bool {
	return strings.EqualFold(value, PoolHeaderLabel) || value == PoolHeaderLabelLocalized
}

// ReadPoolFile reads identifiers from a CSV or XLSX pool file
func ReadPoolFile(r io.Reader, format Format) ([]string, error) {
	rows, err := ReadRows(r, format)
	if err != nil {
		return nil, err
	}
	return ParsePoolRows(rows), nil
}

// WritePoolTemplate writes a single-column pool file with the given header label
func WritePoolTemplate(w io.Writer, format Format, label string, ids []string) error {
	if label == "" {
		label = PoolHeaderLabel
	}
	rows := make([][]string, len(ids))
	for i, id := range ids {
		rows[i] = []string{id}
	}
	return WriteTable(w, format, []string{label}, rows)
}

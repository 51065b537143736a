package adimport

import (
	"fmt"
	"sort"
	"strings"
)

type column int

const (
	colTitle column = iota
	colBrand
	colVideo
	colAgency
	colYear
	colDuration
	colTags
	numColumns
)

// columnSpec is a logical column and the header names that map to it, in priority order.
type columnSpec struct {
	name     string
	aliases  []string
	required bool
}

var columnSpecs = [numColumns]columnSpec{
	colTitle:    {name: "title", aliases: []string{"title"}, required: true},
	colBrand:    {name: "brand", aliases: []string{"brand"}, required: true},
	colVideo:    {name: "youtube", aliases: []string{"youtube", "youtube_url", "url", "video", "link"}, required: true},
	colAgency:   {name: "agency", aliases: []string{"agency"}},
	colYear:     {name: "year", aliases: []string{"year"}},
	colDuration: {name: "duration_sec", aliases: []string{"duration_sec", "duration"}},
	colTags:     {name: "tags", aliases: []string{"tags"}},
}

// Columns maps each logical column to its index in a record, or -1 when absent.
type Columns [numColumns]int

// ResolveColumns matches header cells (trimmed, case-insensitive) against the alias table.
// The first header cell with a given name wins. Missing required columns yield
// ErrMissingColumns naming them in sorted order.
func ResolveColumns(header []string) (Columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := index[key]; !ok && key != "" {
			index[key] = i
		}
	}

	var (
		cols    Columns
		missing []string
	)
	for c, spec := range columnSpecs {
		cols[c] = -1
		for _, alias := range spec.aliases {
			if i, ok := index[alias]; ok {
				cols[c] = i
				break
			}
		}
		if cols[c] < 0 && spec.required {
			missing = append(missing, spec.name)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return cols, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}

// cell returns the trimmed value of col in record, or "" when the column is
// absent or the record is short.
func (c Columns) cell(record []string, col column) string {
	i := c[col]
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

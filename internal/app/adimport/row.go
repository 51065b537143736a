package adimport

import (
	"strconv"
	"strings"

	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// Row is one validated data row, ready to be written.
type Row struct {
	Line        int
	Title       string
	Brand       string
	Agency      string
	VideoRef    string
	VideoID     string
	Year        *int
	DurationSec *int
	TagsRaw     string
	Tags        []string
}

// ParseRow validates a record and normalizes its video reference.
// line is the 1-based line number of the record (the header is line 1).
// It is pure: a *RowError means the row should be skipped.
func ParseRow(cols Columns, record []string, line int) (Row, error) {
	row := Row{
		Line:     line,
		Title:    cols.cell(record, colTitle),
		Brand:    cols.cell(record, colBrand),
		Agency:   cols.cell(record, colAgency),
		VideoRef: cols.cell(record, colVideo),
		TagsRaw:  cols.cell(record, colTags),
	}

	var missing []string
	if row.Title == "" {
		missing = append(missing, "title")
	}
	if row.Brand == "" {
		missing = append(missing, "brand")
	}
	if row.VideoRef == "" {
		missing = append(missing, "youtube")
	}
	if len(missing) > 0 {
		return Row{}, &RowError{Line: line, Reason: "missing " + strings.Join(missing, "/")}
	}

	id, err := domain.NormalizeVideoRef(row.VideoRef)
	if err != nil {
		return Row{}, &RowError{Line: line, Reason: "invalid YouTube URL/ID: " + row.VideoRef}
	}
	row.VideoID = id

	row.Year = parseDigits(cols.cell(record, colYear))
	row.DurationSec = parseDigits(cols.cell(record, colDuration))
	row.Tags = domain.SplitTags(row.TagsRaw)

	return row, nil
}

// parseDigits returns the integer value of s when s is a non-empty run of
// ASCII digits that fits in an int, and nil otherwise.
func parseDigits(s string) *int {
	if s == "" {
		return nil
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > maxInt32 {
		return nil
	}
	return &n
}

// maxInt32 bounds values stored in integer columns.
const maxInt32 = 1<<31 - 1

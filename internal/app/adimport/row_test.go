package adimport

import (
	"errors"
	"reflect"
	"testing"
)

func intPtr(v int) *int { return &v }

func mustColumns(t *testing.T, header ...string) Columns {
	t.Helper()
	cols, err := ResolveColumns(header)
	if err != nil {
		t.Fatalf("ResolveColumns: %v", err)
	}
	return cols
}

func TestParseRow(t *testing.T) {
	t.Parallel()

	cols := mustColumns(t, "title", "brand", "youtube", "agency", "year", "duration_sec", "tags")

	row, err := ParseRow(cols, []string{
		" Big Game ", "Acme", "https://youtu.be/dQw4w9WgXcQ?t=5", "Wieden", "2021", "60", "Funny, cars, funny",
	}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Row{
		Line:        2,
		Title:       "Big Game",
		Brand:       "Acme",
		Agency:      "Wieden",
		VideoRef:    "https://youtu.be/dQw4w9WgXcQ?t=5",
		VideoID:     "dQw4w9WgXcQ",
		Year:        intPtr(2021),
		DurationSec: intPtr(60),
		TagsRaw:     "Funny, cars, funny",
		Tags:        []string{"Funny", "cars"},
	}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("got %+v\nwant %+v", row, want)
	}
}

func TestParseRow_OptionalAbsent(t *testing.T) {
	t.Parallel()

	cols := mustColumns(t, "title", "brand", "video", "year", "duration")

	row, err := ParseRow(cols, []string{"T", "B", "dQw4w9WgXcQ", "c. 1999", "-5"}, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Year != nil || row.DurationSec != nil {
		t.Errorf("expected nil year and duration, got %v %v", row.Year, row.DurationSec)
	}
	if row.Agency != "" || row.Tags != nil {
		t.Errorf("expected empty agency and tags, got %q %v", row.Agency, row.Tags)
	}
}

func TestParseRow_Skips(t *testing.T) {
	t.Parallel()

	cols := mustColumns(t, "title", "brand", "youtube")

	tests := []struct {
		name   string
		record []string
		reason string
	}{
		{"missing title", []string{"", "B", "dQw4w9WgXcQ"}, "missing title"},
		{"missing brand", []string{"T", "  ", "dQw4w9WgXcQ"}, "missing brand"},
		{"missing all", []string{}, "missing title/brand/youtube"},
		{"missing title and video", []string{"", "B", ""}, "missing title/youtube"},
		{"invalid reference", []string{"T", "B", "https://vimeo.com/123"}, "invalid YouTube URL/ID: https://vimeo.com/123"},
		{"short id", []string{"T", "B", "abc"}, "invalid YouTube URL/ID: abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseRow(cols, tt.record, 4)
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("expected *RowError, got %v", err)
			}
			if rowErr.Line != 4 {
				t.Errorf("line: got %d, want 4", rowErr.Line)
			}
			if rowErr.Reason != tt.reason {
				t.Errorf("reason: got %q, want %q", rowErr.Reason, tt.reason)
			}
			if IsStructural(err) {
				t.Error("row error must not be structural")
			}
		})
	}
}

func TestParseDigits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want *int
	}{
		{"", nil},
		{"0", intPtr(0)},
		{"2021", intPtr(2021)},
		{"007", intPtr(7)},
		{"+1", nil},
		{"-1", nil},
		{"1.5", nil},
		{"1e3", nil},
		{"٣", nil},
		{"99999999999999999999", nil},
	}

	for _, tt := range tests {
		got := parseDigits(tt.in)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("parseDigits(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

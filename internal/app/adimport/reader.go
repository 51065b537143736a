package adimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// sniffLimit bounds how much of the header line is inspected for the delimiter.
const sniffLimit = 2048

// Table is a fully read input file.
type Table struct {
	Header    []string
	Records   [][]string
	Delimiter rune
}

// ReadTable reads every record from r. A leading UTF-8 BOM is stripped.
// When delim is 0 the delimiter is detected from the header line.
// An empty input yields a Table with no header.
func ReadTable(r io.Reader, delim rune) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrMalformedInput, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if delim == 0 {
		delim = sniffDelimiter(data)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	t := &Table{Delimiter: delim}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedInput, err)
	}
	t.Header = header

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		t.Records = append(t.Records, rec)
	}

	return t, nil
}

// sniffDelimiter picks ';' when the header line has more semicolons than
// commas outside quotes, and ',' otherwise.
func sniffDelimiter(data []byte) rune {
	if len(data) > sniffLimit {
		data = data[:sniffLimit]
	}

	var commas, semicolons int
	inQuotes := false
scan:
	for _, b := range data {
		switch b {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semicolons++
			}
		case '\n', '\r':
			if !inQuotes {
				break scan
			}
		}
	}
	if semicolons > commas {
		return ';'
	}
	return ','
}

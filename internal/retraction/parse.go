package retraction

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/matsen/ash/internal/doi"
)

// Row is a parsed source row together with its normalized key.
type Row struct {
	DOI    string
	Record Record
}

// ParseRecords reads a CSV with a header row and returns every row whose
// keyColumn holds a usable DOI, in source order. Undecodable bytes are
// replaced with U+FFFD. Rows with a missing key cell are treated as having
// an empty DOI and dropped.
func ParseRecords(r io.Reader, keyColumn string) ([]Row, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var rows []Row
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		record := make(Record, len(header))
		for i, name := range header {
			if i < len(fields) {
				record[name] = fields[i]
			} else {
				record[name] = ""
			}
		}

		key := doi.Clean(record[keyColumn])
		if doi.IsSentinel(key) {
			continue
		}
		rows = append(rows, Row{DOI: key, Record: record})
	}
	return rows, nil
}

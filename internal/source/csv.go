package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
)

const utf8BOM = "\ufeff"

// readCSV reads a CSV stream whose first record is the header.
func readCSV(name string, r io.Reader) (*tables.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv for table %q is empty", name)
	}
	if err != nil {
		return nil, fmt.Errorf("can't read csv header for table %q: %w", name, err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
	}

	t := tables.NewTable(name, header)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("can't read csv record for table %q: %w", name, err)
		}
		t.Append(rec)
	}
	return t, nil
}

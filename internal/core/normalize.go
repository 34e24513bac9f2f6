package core

// normalize.go turns raw request text into the corpus handed to capabilities.
//
// Input that starts with "id," (after trimming) is treated as a CSV table
// pasted or uploaded as text. The first column found from contentColumns is
// flattened into a single space-separated string. Anything else, including
// tables without a known content column and tables that fail to parse, is
// passed through untouched.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// tabularPrefix marks input as an embedded CSV table.
const tabularPrefix = "id,"

// missingCell is the text used for empty or absent cells.
const missingCell = "nan"

const utf8BOM = "\uFEFF"

// contentColumns lists candidate content columns in priority order.
var contentColumns = []string{"answer", "question", "text", "content"}

// ErrMalformedTable is the parse error for tabular input whose rows do not
// fit the header.
var ErrMalformedTable = errors.New("invalid csv")

// IsTabular reports whether raw looks like an embedded CSV table.
func IsTabular(raw string) bool {
	return strings.HasPrefix(trimInput(raw), tabularPrefix)
}

// Normalize builds the corpus for raw. It never fails: parse problems are
// reported on Corpus.ParseErr and the raw input is used as-is.
func Normalize(raw string) Corpus {
	plain := Corpus{Text: raw}

	if !IsTabular(raw) {
		return plain
	}

	col, values, err := extractColumn(trimInput(raw))
	if err != nil {
		plain.ParseErr = err
		return plain
	}
	if col == "" {
		return plain
	}

	return Corpus{
		Text:    strings.Join(values, " "),
		Tabular: true,
		Column:  col,
		Rows:    len(values),
	}
}

func trimInput(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(raw, utf8BOM))
}

// SelectContentColumn returns the index and name of the highest-priority
// content column in header, or -1 when none is present. Names are matched
// exactly, so " text" is not "text".
func SelectContentColumn(header []string) (int, string) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	for _, name := range contentColumns {
		if idx, ok := positions[name]; ok {
			return idx, name
		}
	}
	return -1, ""
}

// extractColumn parses table and returns the selected column's values in
// row order. An empty column name with a nil error means no content column.
func extractColumn(table string) (string, []string, error) {
	r := csv.NewReader(strings.NewReader(table))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return "", nil, fmt.Errorf("%w: read header: %v", ErrMalformedTable, err)
	}

	idx, name := SelectContentColumn(header)
	if idx < 0 {
		return "", nil, nil
	}

	var values []string
	for row := 1; ; row++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("%w: row %d: %v", ErrMalformedTable, row, err)
		}
		if len(record) > len(header) {
			return "", nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
				ErrMalformedTable, row, len(record), len(header))
		}

		values = append(values, cellText(record, idx))
	}

	return name, values, nil
}

// cellText returns the text of record[idx], using missingCell for empty or
// absent cells.
func cellText(record []string, idx int) string {
	if idx >= len(record) || record[idx] == "" {
		return missingCell
	}
	return record[idx]
}

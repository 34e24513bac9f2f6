package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
)

// ReportFilename is the suggested download name for exported results.
const ReportFilename = "report.csv"

// ReportContentType is the MIME type of exported results.
const ReportContentType = "text/csv"

// reportHeader is the header row of an exported ResultSet.
var reportHeader = []string{"Operation", "Output"}

// Aggregate collects outcomes into a ResultSet, preserving order.
// The result is never nil so it encodes as an empty JSON array.
func Aggregate(outcomes []Outcome) ResultSet {
	if outcomes == nil {
		return ResultSet{}
	}
	return ResultSet(outcomes)
}

// WriteTabular writes rs as CSV with an "Operation,Output" header and one
// row per outcome. Fields are quoted as needed so any output text,
// including commas, quotes and newlines, reads back unchanged.
func WriteTabular(w io.Writer, rs ResultSet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for i, o := range rs {
		if err := cw.Write([]string{o.Title, o.Output}); err != nil {
			return fmt.Errorf("write report row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTabular parses a report produced by WriteTabular. Success cannot be
// recovered from the two-column format and is reported as true.
//
// The exported bytes are exact, but encoding/csv reads a CRLF inside a
// quoted field back as LF, so such outputs do not survive a re-read
// byte for byte.
func ReadTabular(r io.Reader) (ResultSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(reportHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty report", ErrMalformedTable)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	if !slices.Equal(header, reportHeader) {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrMalformedTable, header)
	}

	rs := ResultSet{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return rs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
		}
		rs = append(rs, Outcome{Title: record[0], Output: record[1], Success: true})
	}
}

// Package common holds the CSV helpers shared by the convert pipeline.
package common

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"fjacquet/settle2qif/internal/logging"
	"fjacquet/settle2qif/internal/models"

	"github.com/gocarina/gocsv"
)

// AuditRow is one line of the audit report: the normalized values a
// settlement line was converted to.
type AuditRow struct {
	Line      int    `csv:"line"`
	Date      string `csv:"date"`
	DepositID string `csv:"deposit_id"`
	Total     string `csv:"total"`
	Fees      string `csv:"fees"`
	Tax       string `csv:"tax"`
	Revenue   string `csv:"revenue"`
}

// NewAuditRows flattens blocks into audit rows, preserving order.
func NewAuditRows(blocks []models.TransactionBlock) []AuditRow {
	rows := make([]AuditRow, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, AuditRow{
			Line:      b.Line,
			Date:      b.Date,
			DepositID: b.Memo,
			Total:     b.Total,
			Fees:      b.Fees().Amount,
			Tax:       b.Tax().Amount,
			Revenue:   b.Revenue().Amount,
		})
	}
	return rows
}

// MarshalAudit writes blocks as an audit CSV with a header row to w, using
// delimiter between columns.
func MarshalAudit(w io.Writer, blocks []models.TransactionBlock, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	rows := NewAuditRows(blocks)
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// AuditCSV returns the audit CSV for blocks. Nothing is written to disk, so
// the caller decides when the report is published.
func AuditCSV(blocks []models.TransactionBlock, delimiter rune, logger logging.Logger) ([]byte, error) {
	var buf bytes.Buffer
	if err := MarshalAudit(&buf, blocks, delimiter); err != nil {
		logger.WithError(err).Error("Failed to marshal audit rows")
		return nil, err
	}
	logger.Debug("Prepared audit report",
		logging.F(logging.FieldCount, len(blocks)),
		logging.F(logging.FieldDelimiter, string(delimiter)))
	return buf.Bytes(), nil
}

// VerifyAudit reads data back and checks it holds one row per block with the
// values NewAuditRows derives from it.
func VerifyAudit(data []byte, delimiter rune, blocks []models.TransactionBlock) error {
	rows, err := ReadAudit(bytes.NewReader(data), delimiter)
	if err != nil {
		return err
	}
	want := NewAuditRows(blocks)
	if len(rows) != len(want) {
		return fmt.Errorf("audit CSV holds %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			return fmt.Errorf("audit row %d does not read back: got %+v", i+1, rows[i])
		}
	}
	return nil
}

// ReadAudit parses an audit CSV produced by MarshalAudit.
func ReadAudit(r io.Reader, delimiter rune) ([]AuditRow, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter

	var rows []AuditRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing audit CSV: %w", err)
	}
	return rows, nil
}

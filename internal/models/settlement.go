package models

import (
	"strings"

	"fjacquet/settle2qif/internal/parsererror"
)

// Column positions of a settlement export line.
const (
	ColumnDate = iota
	ColumnDepositID
	ColumnNetAmount
	ColumnFeeAmount
	ColumnTaxAmount
	ColumnRevenueAmount

	// SettlementColumns is the minimum number of fields of a valid line.
	SettlementColumns
)

// SettlementRow is one payment-processor settlement record. Fields hold the
// trimmed cell text; amounts are not yet normalized.
type SettlementRow struct {
	Date          string
	DepositID     string
	NetAmount     string
	FeeAmount     string
	TaxAmount     string
	RevenueAmount string
}

// SplitFields splits line on delimiter and trims whitespace from every field.
// Quotes get no special treatment.
func SplitFields(line string, delimiter rune) []string {
	fields := strings.Split(line, string(delimiter))
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// NewSettlementRow maps fields onto a SettlementRow by position. Fields past
// the sixth are ignored. lineNo and content only feed the returned
// MalformedRowError when fewer than SettlementColumns fields are present.
func NewSettlementRow(fields []string, lineNo int, content string) (SettlementRow, error) {
	if len(fields) < SettlementColumns {
		return SettlementRow{}, &parsererror.MalformedRowError{
			Line:       lineNo,
			Content:    content,
			FieldCount: len(fields),
			Expected:   SettlementColumns,
		}
	}

	return SettlementRow{
		Date:          fields[ColumnDate],
		DepositID:     fields[ColumnDepositID],
		NetAmount:     fields[ColumnNetAmount],
		FeeAmount:     fields[ColumnFeeAmount],
		TaxAmount:     fields[ColumnTaxAmount],
		RevenueAmount: fields[ColumnRevenueAmount],
	}, nil
}

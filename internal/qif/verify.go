package qif

import (
	"bytes"
	"fmt"

	"fjacquet/settle2qif/internal/models"
)

// Verify parses the serialized document data and checks that it holds exactly
// blocks, in order. Line numbers are not compared since the document does not
// carry them.
func Verify(data []byte, blocks []models.TransactionBlock) error {
	parsed, err := ReadBlocks(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("QIF output does not parse: %w", err)
	}
	if len(parsed) != len(blocks) {
		return fmt.Errorf("QIF output holds %d transactions, want %d", len(parsed), len(blocks))
	}
	for i, want := range blocks {
		got := parsed[i]
		got.Line = want.Line
		if got != want {
			return fmt.Errorf("QIF transaction %d (line %d) does not read back: got %+v", i+1, want.Line, got)
		}
	}
	return nil
}

package qif

import (
	"bufio"
	"io"
	"strings"

	"fjacquet/settle2qif/internal/models"
)

// BlockLines returns the QIF lines of block, without line terminators.
func BlockLines(block models.TransactionBlock) []string {
	lines := make([]string, 0, 4+2*len(block.Splits))
	lines = append(lines,
		string(PrefixDate)+block.Date,
		string(PrefixTotal)+block.Total,
		string(PrefixMemo)+block.Memo,
	)
	for _, split := range block.Splits {
		lines = append(lines,
			string(PrefixCategory)+split.Category,
			string(PrefixAmount)+split.Amount,
		)
	}
	return append(lines, EndOfRecord)
}

// Write writes the bank header followed by every block to w, each line
// terminated by "\n".
func Write(w io.Writer, blocks []models.TransactionBlock) error {
	bw := bufio.NewWriter(w)
	if err := writeLine(bw, BankHeader); err != nil {
		return err
	}
	for _, block := range blocks {
		for _, line := range BlockLines(block) {
			if err := writeLine(bw, line); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Serialize returns the full QIF document for blocks.
func Serialize(blocks []models.TransactionBlock) string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = Write(&sb, blocks)
	return sb.String()
}

func writeLine(w *bufio.Writer, line string) error {
	if _, err := w.WriteString(line); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

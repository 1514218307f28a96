package qif

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fjacquet/settle2qif/internal/models"
)

// maxLineLength bounds a single QIF line accepted by ReadBlocks.
const maxLineLength = 16 << 20

// ReadBlocks parses a "!Type:Bank" document written by Write back into
// transaction blocks. Line numbers of the returned blocks are their 1-based
// positions in the document.
func ReadBlocks(r io.Reader) ([]models.TransactionBlock, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var (
		blocks     []models.TransactionBlock
		current    models.TransactionBlock
		splits     int
		inBlock    bool
		sawHeader  bool
		lineNumber int
	)

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "!Type:") {
			if line != BankHeader {
				return nil, fmt.Errorf("line %d: unsupported header %q", lineNumber, line)
			}
			sawHeader = true
			continue
		}
		if !sawHeader {
			return nil, fmt.Errorf("line %d: missing %s header", lineNumber, BankHeader)
		}

		if line == EndOfRecord {
			if !inBlock {
				return nil, fmt.Errorf("line %d: end of record without transaction", lineNumber)
			}
			if splits != models.SplitsPerBlock {
				return nil, fmt.Errorf("line %d: transaction has %d splits, want %d", lineNumber, splits, models.SplitsPerBlock)
			}
			current.Line = len(blocks) + 1
			blocks = append(blocks, current)
			current = models.TransactionBlock{}
			splits = 0
			inBlock = false
			continue
		}

		inBlock = true
		value := line[1:]
		switch line[0] {
		case PrefixDate:
			current.Date = value
		case PrefixTotal:
			current.Total = value
		case PrefixMemo:
			current.Memo = value
		case PrefixCategory:
			if splits >= models.SplitsPerBlock {
				return nil, fmt.Errorf("line %d: too many splits", lineNumber)
			}
			current.Splits[splits].Category = value
			splits++
		case PrefixAmount:
			if splits == 0 {
				return nil, fmt.Errorf("line %d: split amount before category", lineNumber)
			}
			current.Splits[splits-1].Amount = value
		default:
			return nil, fmt.Errorf("line %d: unknown field %q", lineNumber, line[:1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading QIF: %w", err)
	}
	if inBlock {
		return nil, fmt.Errorf("unexpected EOF while reading transaction")
	}
	return blocks, nil
}

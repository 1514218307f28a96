package qif

import (
	"errors"
	"strings"

	"fjacquet/settle2qif/internal/logging"
	"fjacquet/settle2qif/internal/models"
	"fjacquet/settle2qif/internal/parsererror"
)

// DefaultDelimiter separates the columns of a settlement export.
const DefaultDelimiter = ','

// Result is the outcome of converting a sequence of lines. Blocks keep input
// order; Count always equals len(Blocks).
type Result struct {
	Blocks  []models.TransactionBlock
	Count   int
	Skipped []*parsererror.MalformedRowError
}

// Converter maps settlement lines onto QIF transaction blocks.
type Converter struct {
	delimiter rune
	accounts  models.SplitAccounts
	logger    logging.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithDelimiter sets the column delimiter.
func WithDelimiter(delimiter rune) Option {
	return func(c *Converter) {
		c.delimiter = delimiter
	}
}

// WithAccounts sets the three split category names.
func WithAccounts(accounts models.SplitAccounts) Option {
	return func(c *Converter) {
		c.accounts = accounts
	}
}

// WithLogger sets the logger receiving per-row debug output.
func WithLogger(logger logging.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConverter returns a Converter using the comma delimiter and the default
// split accounts unless overridden.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		delimiter: DefaultDelimiter,
		accounts:  models.DefaultSplitAccounts(),
		logger:    logging.NewLogrusAdapter("info", "text"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Delimiter returns the configured column delimiter.
func (c *Converter) Delimiter() rune {
	return c.delimiter
}

// Accounts returns the configured split accounts.
func (c *Converter) Accounts() models.SplitAccounts {
	return c.accounts
}

// Convert turns each line into a TransactionBlock. Lines with fewer than six
// fields are reported in Result.Skipped and contribute nothing else. Lines are
// expected to be non-empty; line numbers in the result are 1-based indexes
// into lines.
func (c *Converter) Convert(lines []string) Result {
	return c.ConvertFrom(lines, 1)
}

// ConvertFrom is Convert numbering lines from firstLine, for callers that
// dropped leading lines such as a header row.
func (c *Converter) ConvertFrom(lines []string, firstLine int) Result {
	result := Result{
		Blocks: make([]models.TransactionBlock, 0, len(lines)),
	}

	for i, line := range lines {
		block, err := c.ConvertLine(line, firstLine+i)
		if err != nil {
			var malformed *parsererror.MalformedRowError
			if errors.As(err, &malformed) {
				result.Skipped = append(result.Skipped, malformed)
			}
			continue
		}
		result.Blocks = append(result.Blocks, block)
		result.Count++
	}

	c.logger.Debug("Converted settlement lines",
		logging.F(logging.FieldCount, result.Count),
		logging.F(logging.FieldSkipped, len(result.Skipped)),
		logging.F(logging.FieldDelimiter, string(c.delimiter)))

	return result
}

// ConvertLine converts a single line. lineNo is carried into the block and
// into the MalformedRowError returned for short lines.
func (c *Converter) ConvertLine(line string, lineNo int) (models.TransactionBlock, error) {
	content := strings.TrimRight(line, "\r")
	fields := models.SplitFields(content, c.delimiter)

	row, err := models.NewSettlementRow(fields, lineNo, content)
	if err != nil {
		return models.TransactionBlock{}, err
	}
	return models.NewTransactionBlock(row, c.accounts, lineNo), nil
}

// SplitLines breaks raw file text into lines, dropping every line that is
// empty once whitespace is trimmed. Line content itself is kept untrimmed.
func SplitLines(text string) []string {
	raw := strings.Split(strings.TrimSpace(text), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

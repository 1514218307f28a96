package models

// Default split categories, matching a GnuCash chart of accounts.
const (
	DefaultFeeAccount     = "Expenses:Square Fees"
	DefaultTaxAccount     = "Liabilities:Sales Tax Payable"
	DefaultRevenueAccount = "Income:Sales:Card Revenue"
)

// SplitAccounts names the three categories every transaction is split into.
type SplitAccounts struct {
	Fees    string `mapstructure:"fees" yaml:"fees"`
	Tax     string `mapstructure:"tax" yaml:"tax"`
	Revenue string `mapstructure:"revenue" yaml:"revenue"`
}

// DefaultSplitAccounts returns the built-in category names.
func DefaultSplitAccounts() SplitAccounts {
	return SplitAccounts{
		Fees:    DefaultFeeAccount,
		Tax:     DefaultTaxAccount,
		Revenue: DefaultRevenueAccount,
	}
}

// Split is one category line of a split transaction.
type Split struct {
	Category string
	Amount   string
}

// SplitsPerBlock is the fixed number of splits of a TransactionBlock.
const SplitsPerBlock = 3

// TransactionBlock is one bank transaction: a deposit total split into fees,
// tax and revenue, in that order. Amounts are normalized strings.
type TransactionBlock struct {
	// Line is the 1-based position of the source line among non-empty lines.
	Line   int
	Date   string
	Total  string
	Memo   string
	Splits [SplitsPerBlock]Split
}

// NewTransactionBlock builds the block for row, normalizing the four amounts.
func NewTransactionBlock(row SettlementRow, accounts SplitAccounts, lineNo int) TransactionBlock {
	return TransactionBlock{
		Line:  lineNo,
		Date:  row.Date,
		Total: NormalizeAmount(row.NetAmount),
		Memo:  row.DepositID,
		Splits: [SplitsPerBlock]Split{
			{Category: accounts.Fees, Amount: NormalizeAmount(row.FeeAmount)},
			{Category: accounts.Tax, Amount: NormalizeAmount(row.TaxAmount)},
			{Category: accounts.Revenue, Amount: NormalizeAmount(row.RevenueAmount)},
		},
	}
}

// Fees returns the fee split.
func (b TransactionBlock) Fees() Split { return b.Splits[0] }

// Tax returns the tax split.
func (b TransactionBlock) Tax() Split { return b.Splits[1] }

// Revenue returns the revenue split.
func (b TransactionBlock) Revenue() Split { return b.Splits[2] }

// Package qif converts settlement export lines into QIF (Quicken Interchange
// Format) bank transactions and serializes them.
//
// Every converted line becomes one multi-split transaction:
//
//	D<date>
//	T<total>
//	M<memo>
//	S<fee category>
//	E<fee amount>
//	S<tax category>
//	E<tax amount>
//	S<revenue category>
//	E<revenue amount>
//	^
package qif

// BankHeader opens every file this package writes.
const BankHeader = "!Type:Bank"

// Line prefixes of a bank transaction.
const (
	PrefixDate     = 'D'
	PrefixTotal    = 'T'
	PrefixMemo     = 'M'
	PrefixCategory = 'S'
	PrefixAmount   = 'E'
	EndOfRecord    = "^"
)

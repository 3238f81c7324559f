package model

import (
	"time"

	"github.com/tally-books/tally/internal/amount"
)

// Transaction is a posted ledger event. The sum of its splits' values,
// expressed in the transaction's settlement currency, is exactly zero.
// A transaction is created atomically with all its splits or not at all;
// committed transactions are append-only (corrections are new reversing
// transactions).
type Transaction struct {
	GUID         string    `gorm:"size:32;primaryKey"`
	CurrencyGUID string    `gorm:"size:32;index;not null"` // settlement currency commodity
	Num          string    `gorm:"size:32"`
	PostDate     time.Time `gorm:"index;not null"`
	EnterDate    time.Time `gorm:"not null"`
	Description  string    `gorm:"size:256"`
	Splits       []Split   `gorm:"foreignKey:TxGUID;references:GUID"`
}

// Split is one debit or credit leg of a transaction. Value is in the
// transaction's currency; quantity is in the target account's own
// commodity (equal to value when that commodity is the settlement
// currency). Debits are positive, credits negative.
type Split struct {
	GUID          string `gorm:"size:32;primaryKey"`
	TxGUID        string `gorm:"size:32;index;not null"`
	AccountGUID   string `gorm:"size:32;index;not null"`
	Memo          string `gorm:"size:256"`
	Action        string `gorm:"size:32"`
	Sequence      int    `gorm:"not null"` // insertion order, preserved for audit display
	ValueNum      int64  `gorm:"not null"`
	ValueDenom    int64  `gorm:"not null"`
	QuantityNum   int64  `gorm:"not null"`
	QuantityDenom int64  `gorm:"not null"`
}

// Value returns the split's monetary value in the transaction currency.
func (s Split) Value() amount.Fraction {
	return amount.New(s.ValueNum, s.ValueDenom)
}

// Quantity returns the split's quantity in the account's commodity.
func (s Split) Quantity() amount.Fraction {
	return amount.New(s.QuantityNum, s.QuantityDenom)
}

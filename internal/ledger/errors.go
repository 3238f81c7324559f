package ledger

import (
	"errors"
	"fmt"

	"github.com/tally-books/tally/internal/amount"
)

// Sentinel errors for the posting workflows. Reference-data misses surface
// as store.ErrNotFound and creation races as store.ErrConflict; the errors
// here cover the failures only the ledger layer can detect. None of them
// are retried automatically — financial postings are not idempotent, so
// retry is a caller decision after fixing input.
var (
	// ErrNoStockAccount signals that no STOCK account tracks the SKU.
	ErrNoStockAccount = errors.New("ledger: no stock account for commodity")
	// ErrNoCOGSAccount signals that no cost-of-goods-sold account is
	// configured for the costing currency.
	ErrNoCOGSAccount = errors.New("ledger: no cost of goods sold account for currency")
	// ErrCurrencyMismatch signals that an account or commodity is not
	// denominated in the currency the caller asserts.
	ErrCurrencyMismatch = errors.New("ledger: currency mismatch")
)

// UnbalancedError reports a transaction whose split values do not sum to
// zero. It indicates a defect in the caller or the assembling workflow;
// the enclosing database transaction is rolled back.
type UnbalancedError struct {
	TxGUID   string
	Residual amount.Fraction
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("ledger: transaction %s does not balance: residual %s", e.TxGUID, e.Residual)
}

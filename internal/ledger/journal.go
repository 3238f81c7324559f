package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-books/tally/internal/amount"
	"github.com/tally-books/tally/internal/model"
	"github.com/tally-books/tally/internal/store"
)

// JournalSplit is one leg of a manual journal entry. Debits are positive,
// credits negative.
type JournalSplit struct {
	AccountGUID string
	Value       decimal.Decimal
	Memo        string
}

// JournalEntryParams describes a manual journal entry. The caller is
// responsible for supplying a set of values that balances to zero; the
// builder's finalize check is the enforcement point.
type JournalEntryParams struct {
	CurrencyGUID string
	Date         time.Time
	Description  string
	Splits       []JournalSplit
}

// PostJournalEntry posts a manual journal entry. Journal entries are
// single-currency, so quantity equals value on every leg. An unbalanced
// set aborts with UnbalancedError and leaves no rows committed.
func (s *Service) PostJournalEntry(ctx context.Context, p JournalEntryParams) (*model.Transaction, error) {
	var result *model.Transaction
	err := s.st.Atomically(ctx, func(tx *store.Store) error {
		currency, err := tx.Commodity(ctx, p.CurrencyGUID)
		if err != nil {
			return err
		}
		if !currency.IsCurrency() {
			return fmt.Errorf("commodity %s (%s) cannot settle a journal entry: %w",
				currency.GUID, currency.Mnemonic, ErrCurrencyMismatch)
		}

		b, err := Begin(ctx, tx, currency, p.Date, p.Description)
		if err != nil {
			return err
		}
		for _, split := range p.Splits {
			account, err := tx.Account(ctx, split.AccountGUID)
			if err != nil {
				return err
			}
			value := amount.FromDecimal(split.Value, currency.Fraction)
			if err := b.AddSplit(ctx, account, split.Memo, "Manual", value, value); err != nil {
				return err
			}
		}
		result, err = b.Finalize()
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("journal entry posted", "transaction", result.GUID, "splits", len(p.Splits))
	return result, nil
}

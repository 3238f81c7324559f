package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/tally-books/tally/internal/amount"
	"github.com/tally-books/tally/internal/guid"
	"github.com/tally-books/tally/internal/model"
	"github.com/tally-books/tally/internal/store"
)

// TxBuilder assembles one balanced transaction inside an open store
// transaction. Splits are written as they are added; Finalize is the last
// line of defense that verifies the zero-sum invariant before the
// enclosing database transaction may commit. Callers must run the whole
// builder lifecycle inside store.Atomically so an unbalanced result rolls
// every leg back.
type TxBuilder struct {
	st     *store.Store
	txn    *model.Transaction
	splits []model.Split
	total  int64 // running sum of value numerators
	denom  int64
}

// Begin creates the transaction header. The commodity must be a currency.
func Begin(ctx context.Context, st *store.Store, currency *model.Commodity, postDate time.Time, description string) (*TxBuilder, error) {
	if !currency.IsCurrency() {
		return nil, fmt.Errorf("commodity %s (%s) cannot settle a transaction: %w",
			currency.GUID, currency.Mnemonic, ErrCurrencyMismatch)
	}

	txn := &model.Transaction{
		GUID:         guid.New(),
		CurrencyGUID: currency.GUID,
		PostDate:     postDate,
		EnterDate:    time.Now().UTC(),
		Description:  description,
	}
	if err := st.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return &TxBuilder{st: st, txn: txn, denom: currency.Fraction}, nil
}

// AddSplit appends one leg. Value is in the transaction currency, quantity
// in the account's own commodity; both are pre-rounded integer numerators.
// Insertion order is preserved for audit display.
func (b *TxBuilder) AddSplit(ctx context.Context, account *model.Account, memo, action string, value, quantity amount.Fraction) error {
	sp := model.Split{
		GUID:          guid.New(),
		TxGUID:        b.txn.GUID,
		AccountGUID:   account.GUID,
		Memo:          memo,
		Action:        action,
		Sequence:      len(b.splits),
		ValueNum:      value.Num,
		ValueDenom:    value.Denom,
		QuantityNum:   quantity.Num,
		QuantityDenom: quantity.Denom,
	}
	if err := b.st.CreateSplit(ctx, &sp); err != nil {
		return err
	}
	b.splits = append(b.splits, sp)
	b.total += value.Num
	return nil
}

// Finalize verifies that the split values sum to zero and returns the
// assembled transaction. A nonzero residual aborts with UnbalancedError;
// returning it from the Atomically closure rolls back the header and every
// leg written so far.
func (b *TxBuilder) Finalize() (*model.Transaction, error) {
	if b.total != 0 {
		return nil, &UnbalancedError{
			TxGUID:   b.txn.GUID,
			Residual: amount.New(b.total, b.denom),
		}
	}
	b.txn.Splits = b.splits
	return b.txn, nil
}

package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-books/tally/internal/amount"
	"github.com/tally-books/tally/internal/model"
	"github.com/tally-books/tally/internal/store"
)

// AdjustmentParams describes an inventory adjustment (shrinkage or found
// stock). QuantityChange is negative for a shortage. The transaction
// settles in the expense account's currency.
type AdjustmentParams struct {
	StockAccountGUID   string
	ExpenseAccountGUID string
	QuantityChange     decimal.Decimal
	CostPerUnit        decimal.Decimal
	Date               time.Time
	Notes              string
}

// AdjustInventory posts an inventory adjustment: two splits, the stock
// account scaled by the quantity change and the adjustment expense account
// carrying the equal and opposite value. On the expense leg quantity
// equals value, since its commodity is the settlement currency, not units.
func (s *Service) AdjustInventory(ctx context.Context, p AdjustmentParams) (*model.Transaction, error) {
	var result *model.Transaction
	err := s.st.Atomically(ctx, func(tx *store.Store) error {
		stock, err := tx.Account(ctx, p.StockAccountGUID)
		if err != nil {
			return err
		}
		if stock.Type != model.AccountTypeStock {
			return fmt.Errorf("account %s is %s, not STOCK: %w", stock.GUID, stock.Type, ErrNoStockAccount)
		}
		expense, err := tx.Account(ctx, p.ExpenseAccountGUID)
		if err != nil {
			return err
		}
		currency, err := tx.Commodity(ctx, expense.CommodityGUID)
		if err != nil {
			return err
		}
		if !currency.IsCurrency() {
			return fmt.Errorf("expense account %s is denominated in %s, not a currency: %w",
				expense.GUID, currency.Mnemonic, ErrCurrencyMismatch)
		}
		sku, err := tx.Commodity(ctx, stock.CommodityGUID)
		if err != nil {
			return err
		}

		description := p.Notes
		if description == "" {
			description = "Inventory Adjustment"
		}

		valueChange := amount.FromDecimal(amount.Mul(p.QuantityChange, p.CostPerUnit), currency.Fraction)
		qtyChange := amount.FromDecimal(p.QuantityChange, sku.Fraction)

		b, err := Begin(ctx, tx, currency, p.Date, description)
		if err != nil {
			return err
		}
		stockMemo := fmt.Sprintf("Adjust %s units", p.QuantityChange)
		if err := b.AddSplit(ctx, stock, stockMemo, "Adjust", valueChange, qtyChange); err != nil {
			return err
		}
		expenseMemo := fmt.Sprintf("Cost of %s units", p.QuantityChange)
		if err := b.AddSplit(ctx, expense, expenseMemo, "Adjust", valueChange.Neg(), valueChange.Neg()); err != nil {
			return err
		}
		result, err = b.Finalize()
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("inventory adjusted", "transaction", result.GUID, "stock_account", p.StockAccountGUID)
	return result, nil
}

// StockLevel returns the on-hand quantity of a SKU: the sum of split
// quantities on its STOCK account.
func (s *Service) StockLevel(ctx context.Context, commodityGUID string) (decimal.Decimal, error) {
	stock, err := s.st.StockAccountForCommodity(ctx, commodityGUID, false)
	if errors.Is(err, store.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("commodity %s: %w", commodityGUID, ErrNoStockAccount)
	}
	if err != nil {
		return decimal.Zero, err
	}
	sku, err := s.st.Commodity(ctx, stock.CommodityGUID)
	if err != nil {
		return decimal.Zero, err
	}
	_, quantityNum, err := s.st.SplitTotals(ctx, stock.GUID)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(quantityNum).Div(decimal.NewFromInt(sku.Fraction)), nil
}

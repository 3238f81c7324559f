package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tally-books/tally/internal/model"
	"github.com/tally-books/tally/internal/store"
)

// Costing computes moving-average unit costs for SKUs from the historical
// splits on their STOCK accounts. It must run inside the same store
// transaction as the COGS write that consumes its result, so concurrent
// sales of one SKU serialize on the locked stock account.
type Costing struct {
	st  *store.Store
	log *slog.Logger
}

// NewCosting creates a costing engine over an open store transaction.
func NewCosting(st *store.Store, log *slog.Logger) *Costing {
	if log == nil {
		log = slog.Default()
	}
	return &Costing{st: st, log: log}
}

// StockAccount resolves the STOCK account tracking a SKU and locks it for
// the remainder of the enclosing transaction.
func (c *Costing) StockAccount(ctx context.Context, commodityGUID string) (*model.Account, error) {
	acct, err := c.st.StockAccountForCommodity(ctx, commodityGUID, true)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("commodity %s: %w", commodityGUID, ErrNoStockAccount)
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// CostingCurrency returns the currency COGS must post in for a stock
// account: the commodity of its parent. Inventory accounts are parented
// under a currency-specific root, which may differ from the sale's
// settlement currency.
func (c *Costing) CostingCurrency(ctx context.Context, stock *model.Account) (*model.Commodity, error) {
	if stock.ParentGUID == "" {
		return nil, fmt.Errorf("stock account %s has no parent to derive a costing currency from: %w",
			stock.GUID, ErrNoCOGSAccount)
	}
	parent, err := c.st.Account(ctx, stock.ParentGUID)
	if err != nil {
		return nil, err
	}
	currency, err := c.st.Commodity(ctx, parent.CommodityGUID)
	if err != nil {
		return nil, err
	}
	if !currency.IsCurrency() {
		return nil, fmt.Errorf("parent of stock account %s is denominated in %s, not a currency: %w",
			stock.GUID, currency.Mnemonic, ErrCurrencyMismatch)
	}
	return currency, nil
}

// AverageCost returns the moving-average unit cost of the SKU tracked by a
// stock account: total historical value divided by total historical
// quantity. Values on a stock account are denominated in its costing
// currency, so the caller passes it in. The result is exact; rounding
// happens only when a split numerator is produced from it. A zero or
// negative cumulative quantity yields cost zero — that state usually means
// more was sold than ever received, so it is logged rather than silently
// passed through.
func (c *Costing) AverageCost(ctx context.Context, stock *model.Account, costingCurrency *model.Commodity) (decimal.Decimal, error) {
	valueNum, quantityNum, err := c.st.SplitTotals(ctx, stock.GUID)
	if err != nil {
		return decimal.Zero, err
	}
	if quantityNum <= 0 {
		if quantityNum < 0 || valueNum != 0 {
			c.log.Warn("stock account has non-positive cumulative quantity, average cost defaults to zero",
				"account", stock.GUID,
				"quantity_num", quantityNum,
				"value_num", valueNum,
			)
		}
		return decimal.Zero, nil
	}

	sku, err := c.st.Commodity(ctx, stock.CommodityGUID)
	if err != nil {
		return decimal.Zero, err
	}

	// cost per unit = (valueNum/valueDenom) / (quantityNum/quantityDenom)
	totalValue := decimal.NewFromInt(valueNum).Div(decimal.NewFromInt(costingCurrency.Fraction))
	totalQuantity := decimal.NewFromInt(quantityNum).Div(decimal.NewFromInt(sku.Fraction))
	return totalValue.Div(totalQuantity), nil
}

// Package chart provides the default chart of accounts a fresh ledger
// needs before it can post: the placeholder roots for dynamic receivable
// and payable accounts, a bank account, income, COGS and inventory
// accounts, all denominated in one base currency.
package chart

import (
	"context"
	"fmt"

	"github.com/tally-books/tally/internal/guid"
	"github.com/tally-books/tally/internal/model"
	"github.com/tally-books/tally/internal/store"
)

// Chart identifies the pre-provisioned commodities and accounts of a new
// ledger. The guids feed the ledger configuration.
type Chart struct {
	Currency       *model.Commodity
	Checking       *model.Account
	ReceivableRoot *model.Account
	PayableRoot    *model.Account
	Sales          *model.Account
	COGS           *model.Account
	InventoryRoot  *model.Account
	Shrinkage      *model.Account
	Equity         *model.Account
}

// Default builds a chart for the given base currency. Nothing is persisted
// until Seed is called.
func Default(currencyMnemonic, currencyName string) *Chart {
	currency := &model.Commodity{
		GUID:      guid.New(),
		Namespace: model.NamespaceCurrency,
		Mnemonic:  currencyMnemonic,
		Fullname:  currencyName,
		Fraction:  100,
	}
	acct := func(name string, typ model.AccountType, code string, placeholder bool) *model.Account {
		return &model.Account{
			GUID:          guid.New(),
			Name:          name,
			Type:          typ,
			CommodityGUID: currency.GUID,
			Code:          code,
			Placeholder:   placeholder,
		}
	}
	return &Chart{
		Currency:       currency,
		Checking:       acct("Business Checking", model.AccountTypeAsset, "1010", false),
		ReceivableRoot: acct("Accounts Receivable", model.AccountTypeAsset, "1200", true),
		InventoryRoot:  acct(fmt.Sprintf("Inventory (%s)", currencyMnemonic), model.AccountTypeAsset, "1400", true),
		PayableRoot:    acct("Accounts Payable", model.AccountTypeLiability, "2000", true),
		Equity:         acct("Opening Balances", model.AccountTypeEquity, "3000", false),
		Sales:          acct("Sales", model.AccountTypeIncome, "4000", false),
		COGS:           acct(fmt.Sprintf("Cost of Goods Sold (%s)", currencyMnemonic), model.AccountTypeExpense, "5000", false),
		Shrinkage:      acct("Inventory Shrinkage", model.AccountTypeExpense, "5100", false),
	}
}

// Seed persists the chart in one atomic transaction.
func (c *Chart) Seed(ctx context.Context, st *store.Store) error {
	return st.Atomically(ctx, func(tx *store.Store) error {
		if err := tx.CreateCommodity(ctx, c.Currency); err != nil {
			return fmt.Errorf("seeding currency: %w", err)
		}
		for _, a := range c.Accounts() {
			if err := tx.CreateAccount(ctx, a); err != nil {
				return fmt.Errorf("seeding account %q: %w", a.Name, err)
			}
		}
		return nil
	})
}

// Accounts returns the chart's accounts in creation order.
func (c *Chart) Accounts() []*model.Account {
	return []*model.Account{
		c.Checking,
		c.ReceivableRoot,
		c.InventoryRoot,
		c.PayableRoot,
		c.Equity,
		c.Sales,
		c.COGS,
		c.Shrinkage,
	}
}

// AddStockItem creates a SKU commodity and its STOCK account under the
// inventory root, so the costing engine can derive the costing currency
// from the parent.
func (c *Chart) AddStockItem(ctx context.Context, st *store.Store, mnemonic, name string) (*model.Commodity, *model.Account, error) {
	sku := &model.Commodity{
		GUID:      guid.New(),
		Namespace: model.NamespaceStockItem,
		Mnemonic:  mnemonic,
		Fullname:  name,
		Fraction:  100,
	}
	stock := &model.Account{
		GUID:          guid.New(),
		Name:          fmt.Sprintf("Stock - %s", name),
		Type:          model.AccountTypeStock,
		CommodityGUID: sku.GUID,
		ParentGUID:    c.InventoryRoot.GUID,
	}
	err := st.Atomically(ctx, func(tx *store.Store) error {
		if err := tx.CreateCommodity(ctx, sku); err != nil {
			return fmt.Errorf("creating stock item %q: %w", mnemonic, err)
		}
		if err := tx.CreateAccount(ctx, stock); err != nil {
			return fmt.Errorf("creating stock account for %q: %w", mnemonic, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return sku, stock, nil
}

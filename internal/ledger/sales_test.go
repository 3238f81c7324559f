package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-books/tally/internal/guid"
	"github.com/tally-books/tally/internal/ledger"
	"github.com/tally-books/tally/internal/model"
	"github.com/tally-books/tally/internal/store"
)

func TestPostSalesInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 100 widgets on hand at 3.00 each.
	f.receiveStock(t, "100", "3.00")

	posting, err := f.svc.PostSalesInvoice(ctx, ledger.SalesInvoiceParams{
		CustomerGUID: f.cust.GUID,
		CurrencyGUID: f.chart.Currency.GUID,
		DateOpened:   date(2026, 2, 1),
		Notes:        "February order",
		Lines: []ledger.SalesLine{{
			Description:       "Widget",
			IncomeAccountGUID: f.chart.Sales.GUID,
			CommodityGUID:     f.widget.GUID,
			Quantity:          dec("10"),
			Price:             dec("5.00"),
		}},
	})
	require.NoError(t, err)

	// Settlement transaction: income credit, then the receivable debit.
	splits, err := f.st.SplitsForTransaction(ctx, posting.Transaction.GUID)
	require.NoError(t, err)
	require.Len(t, splits, 2)
	assert.Equal(t, f.chart.Sales.GUID, splits[0].AccountGUID)
	assert.Equal(t, int64(-50_00), splits[0].ValueNum)
	assert.Equal(t, int64(50_00), splits[1].ValueNum)

	ar, err := f.st.AccountByName(ctx, "A/R - Acme Corp (USD)", f.chart.Currency.GUID)
	require.NoError(t, err)
	assert.Equal(t, ar.GUID, splits[1].AccountGUID)

	// One cost transaction: inventory credit at 10 x 3.00, COGS debit.
	require.Len(t, posting.CostTransactions, 1)
	costSplits, err := f.st.SplitsForTransaction(ctx, posting.CostTransactions[0].GUID)
	require.NoError(t, err)
	require.Len(t, costSplits, 2)
	assert.Equal(t, f.stock.GUID, costSplits[0].AccountGUID)
	assert.Equal(t, int64(-30_00), costSplits[0].ValueNum)
	assert.Equal(t, int64(-10_00), costSplits[0].QuantityNum) // 10 units, fraction 100
	assert.Equal(t, f.chart.COGS.GUID, costSplits[1].AccountGUID)
	assert.Equal(t, int64(30_00), costSplits[1].ValueNum)

	// The document and its audit lines.
	assert.Equal(t, model.OwnerTypeCustomer, posting.Invoice.OwnerType)
	assert.Equal(t, f.cust.GUID, posting.Invoice.OwnerGUID)
	assert.Equal(t, posting.Transaction.GUID, posting.Invoice.PostTxnGUID)
	entries, err := f.st.LineEntriesForInvoice(ctx, posting.Invoice.GUID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// 90 units remain.
	level, err := f.svc.StockLevel(ctx, f.widget.GUID)
	require.NoError(t, err)
	assert.Equal(t, "90", level.String())
}

func TestPostSalesInvoiceSplitsCostByCurrency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A second costing currency with its own inventory root, COGS account,
	// stock item, and vendor.
	eur := &model.Commodity{
		GUID:      guid.New(),
		Namespace: model.NamespaceCurrency,
		Mnemonic:  "EUR",
		Fullname:  "Euro",
		Fraction:  100,
	}
	require.NoError(t, f.st.CreateCommodity(ctx, eur))
	eurRoot := &model.Account{
		GUID:          guid.New(),
		Name:          "Inventory (EUR)",
		Type:          model.AccountTypeAsset,
		CommodityGUID: eur.GUID,
		Placeholder:   true,
	}
	require.NoError(t, f.st.CreateAccount(ctx, eurRoot))
	eurCOGS := &model.Account{
		GUID:          guid.New(),
		Name:          "Cost of Goods Sold (EUR)",
		Type:          model.AccountTypeExpense,
		CommodityGUID: eur.GUID,
	}
	require.NoError(t, f.st.CreateAccount(ctx, eurCOGS))
	gadget := &model.Commodity{
		GUID:      guid.New(),
		Namespace: model.NamespaceStockItem,
		Mnemonic:  "GADGET",
		Fullname:  "Gadget",
		Fraction:  100,
	}
	require.NoError(t, f.st.CreateCommodity(ctx, gadget))
	gadgetStock := &model.Account{
		GUID:          guid.New(),
		Name:          "Stock - Gadget",
		Type:          model.AccountTypeStock,
		CommodityGUID: gadget.GUID,
		ParentGUID:    eurRoot.GUID,
	}
	require.NoError(t, f.st.CreateAccount(ctx, gadgetStock))
	eurVendor := &model.Vendor{
		GUID:         guid.New(),
		Name:         "Gadget GmbH",
		Number:       "V-0002",
		Active:       true,
		CurrencyGUID: eur.GUID,
	}
	require.NoError(t, f.st.CreateVendor(ctx, eurVendor))
	f.cfg.COGSAccounts["EUR"] = eurCOGS.GUID

	// Receive stock in each costing currency.
	f.receiveStock(t, "100", "3.00")
	_, err := f.svc.PostPurchaseBill(ctx, ledger.PurchaseBillParams{
		VendorGUID: eurVendor.GUID,
		DateOpened: date(2026, 1, 3),
		Lines: []ledger.BillLine{{
			Description: "Gadgets",
			AccountGUID: gadgetStock.GUID,
			Quantity:    dec("20"),
			Price:       dec("8.00"),
		}},
	})
	require.NoError(t, err)

	posting, err := f.svc.PostSalesInvoice(ctx, ledger.SalesInvoiceParams{
		CustomerGUID: f.cust.GUID,
		CurrencyGUID: f.chart.Currency.GUID,
		DateOpened:   date(2026, 2, 1),
		Lines: []ledger.SalesLine{
			{
				Description:       "Widget",
				IncomeAccountGUID: f.chart.Sales.GUID,
				CommodityGUID:     f.widget.GUID,
				Quantity:          dec("10"),
				Price:             dec("5.00"),
			},
			{
				Description:       "Gadget",
				IncomeAccountGUID: f.chart.Sales.GUID,
				CommodityGUID:     gadget.GUID,
				Quantity:          dec("2"),
				Price:             dec("20.00"),
			},
		},
	})
	require.NoError(t, err)

	// Settlement stays one USD transaction: two income credits plus the
	// receivable debit for 90.00.
	splits, err := f.st.SplitsForTransaction(ctx, posting.Transaction.GUID)
	require.NoError(t, err)
	require.Len(t, splits, 3)
	assert.Equal(t, int64(90_00), splits[2].ValueNum)

	// One cost transaction per costing currency, USD first.
	require.Len(t, posting.CostTransactions, 2)
	assert.Equal(t, f.chart.Currency.GUID, posting.CostTransactions[0].CurrencyGUID)
	assert.Equal(t, eur.GUID, posting.CostTransactions[1].CurrencyGUID)

	eurSplits, err := f.st.SplitsForTransaction(ctx, posting.CostTransactions[1].GUID)
	require.NoError(t, err)
	require.Len(t, eurSplits, 2)
	assert.Equal(t, gadgetStock.GUID, eurSplits[0].AccountGUID)
	assert.Equal(t, int64(-16_00), eurSplits[0].ValueNum) // 2 x 8.00 EUR
	assert.Equal(t, eurCOGS.GUID, eurSplits[1].AccountGUID)
	assert.Equal(t, int64(16_00), eurSplits[1].ValueNum)
}

func TestPostSalesInvoiceMissingCOGSMappingRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receiveStock(t, "100", "3.00")

	// Drop the mapping so the cost batch has nowhere to post.
	svc := ledger.NewService(f.st, ledger.Config{
		ReceivableRoot: f.cfg.ReceivableRoot,
		PayableRoot:    f.cfg.PayableRoot,
		COGSAccounts:   map[string]string{},
	}, nil)

	_, err := svc.PostSalesInvoice(ctx, ledger.SalesInvoiceParams{
		CustomerGUID: f.cust.GUID,
		CurrencyGUID: f.chart.Currency.GUID,
		DateOpened:   date(2026, 2, 1),
		Lines: []ledger.SalesLine{{
			Description:       "Widget",
			IncomeAccountGUID: f.chart.Sales.GUID,
			CommodityGUID:     f.widget.GUID,
			Quantity:          dec("10"),
			Price:             dec("5.00"),
		}},
	})
	require.ErrorIs(t, err, ledger.ErrNoCOGSAccount)

	// The failed posting left nothing behind: stock level untouched, no
	// income recorded.
	level, err := f.svc.StockLevel(ctx, f.widget.GUID)
	require.NoError(t, err)
	assert.Equal(t, "100", level.String())
	income, err := f.svc.AccountBalance(ctx, f.chart.Sales.GUID, nil)
	require.NoError(t, err)
	assert.True(t, income.IsZero())
}

func TestPostSalesInvoiceZeroTotalElidesReceivable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A documentation-only invoice: nothing owed, nothing moved.
	posting, err := f.svc.PostSalesInvoice(ctx, ledger.SalesInvoiceParams{
		CustomerGUID: f.cust.GUID,
		CurrencyGUID: f.chart.Currency.GUID,
		DateOpened:   date(2026, 2, 1),
		Notes:        "Replacement under warranty",
		Lines: []ledger.SalesLine{{
			Description:       "Widget",
			IncomeAccountGUID: f.chart.Sales.GUID,
			CommodityGUID:     f.widget.GUID,
			Quantity:          dec("0"),
			Price:             dec("0"),
		}},
	})
	require.NoError(t, err)

	// No income, no receivable: the settlement transaction carries no
	// splits and no A/R account is created.
	splits, err := f.st.SplitsForTransaction(ctx, posting.Transaction.GUID)
	require.NoError(t, err)
	assert.Empty(t, splits)
	assert.Empty(t, posting.CostTransactions)
	_, err = f.st.AccountByName(ctx, "A/R - Acme Corp (USD)", f.chart.Currency.GUID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// The audit line survives.
	entries, err := f.st.LineEntriesForInvoice(ctx, posting.Invoice.GUID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPostSalesInvoiceUnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PostSalesInvoice(context.Background(), ledger.SalesInvoiceParams{
		CustomerGUID: guid.New(),
		CurrencyGUID: f.chart.Currency.GUID,
		DateOpened:   date(2026, 2, 1),
		Lines:        []ledger.SalesLine{},
	})
	require.Error(t, err)
}

package ledger_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tally-books/tally/internal/chart"
	"github.com/tally-books/tally/internal/guid"
	"github.com/tally-books/tally/internal/ledger"
	"github.com/tally-books/tally/internal/model"
	"github.com/tally-books/tally/internal/store"
)

// fixture is one fully seeded ledger: a USD chart, one stock item, one
// customer and one vendor, ready to post against.
type fixture struct {
	st     *store.Store
	svc    *ledger.Service
	cfg    ledger.Config
	chart  *chart.Chart
	widget *model.Commodity
	stock  *model.Account
	cust   *model.Customer
	vend   *model.Vendor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open("sqlite", filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate())

	c := chart.Default("USD", "US Dollar")
	require.NoError(t, c.Seed(ctx, st))

	widget, stock, err := c.AddStockItem(ctx, st, "WIDGET", "Widget")
	require.NoError(t, err)

	cust := &model.Customer{
		GUID:         guid.New(),
		Name:         "Acme Corp",
		Number:       "C-0001",
		Active:       true,
		CurrencyGUID: c.Currency.GUID,
	}
	require.NoError(t, st.CreateCustomer(ctx, cust))

	vend := &model.Vendor{
		GUID:         guid.New(),
		Name:         "Widget Supply Co",
		Number:       "V-0001",
		Active:       true,
		CurrencyGUID: c.Currency.GUID,
	}
	require.NoError(t, st.CreateVendor(ctx, vend))

	cfg := ledger.Config{
		ReceivableRoot: c.ReceivableRoot.GUID,
		PayableRoot:    c.PayableRoot.GUID,
		COGSAccounts:   map[string]string{"USD": c.COGS.GUID},
	}

	return &fixture{
		st:     st,
		svc:    ledger.NewService(st, cfg, nil),
		cfg:    cfg,
		chart:  c,
		widget: widget,
		stock:  stock,
		cust:   cust,
		vend:   vend,
	}
}

// receiveStock posts a purchase bill that puts units of the fixture's
// widget on hand at the given unit cost.
func (f *fixture) receiveStock(t *testing.T, qty, unitCost string) {
	t.Helper()
	_, err := f.svc.PostPurchaseBill(context.Background(), ledger.PurchaseBillParams{
		VendorGUID: f.vend.GUID,
		DateOpened: date(2026, 1, 2),
		Notes:      "Stock receipt",
		Lines: []ledger.BillLine{{
			Description: "Widgets",
			AccountGUID: f.stock.GUID,
			Quantity:    dec(qty),
			Price:       dec(unitCost),
		}},
	})
	require.NoError(t, err)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

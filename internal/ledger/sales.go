package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-books/tally/internal/amount"
	"github.com/tally-books/tally/internal/guid"
	"github.com/tally-books/tally/internal/model"
	"github.com/tally-books/tally/internal/store"
)

// SalesLine is one line item of a sales invoice.
type SalesLine struct {
	Description       string
	IncomeAccountGUID string
	CommodityGUID     string // the SKU being sold
	Quantity          decimal.Decimal
	Price             decimal.Decimal // unit price in the settlement currency
}

// SalesInvoiceParams describes a sales invoice posting.
type SalesInvoiceParams struct {
	CustomerGUID string
	CurrencyGUID string // settlement currency
	DateOpened   time.Time
	Notes        string
	Lines        []SalesLine
}

// InvoicePosting is the full result of posting one sales invoice: the
// document, its settlement transaction, and the cost-of-goods transactions
// it implied, one per costing currency encountered.
type InvoicePosting struct {
	Invoice          *model.Invoice
	Transaction      *model.Transaction
	CostTransactions []*model.Transaction
}

// cogsLeg is one inventory credit pending for a costing currency's batch.
type cogsLeg struct {
	stock *model.Account
	value amount.Fraction // cost value in the costing currency
	qty   amount.Fraction // units in the SKU commodity
	memo  string
}

// PostSalesInvoice posts a sales invoice. For each line it credits income
// in the settlement currency and accumulates a cost batch in the SKU's
// costing currency at the current moving-average cost; the aggregate
// receivable debit balances the settlement transaction. Each costing
// currency then gets its own transaction crediting inventory and debiting
// COGS, because a transaction can only balance within one currency. The
// whole posting commits atomically or not at all.
func (s *Service) PostSalesInvoice(ctx context.Context, p SalesInvoiceParams) (*InvoicePosting, error) {
	var result *InvoicePosting
	err := s.st.Atomically(ctx, func(tx *store.Store) error {
		posting, err := s.postSalesInvoice(ctx, tx, p)
		if err != nil {
			return err
		}
		result = posting
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("sales invoice posted",
		"invoice", result.Invoice.GUID,
		"transaction", result.Transaction.GUID,
		"cost_transactions", len(result.CostTransactions),
	)
	return result, nil
}

func (s *Service) postSalesInvoice(ctx context.Context, tx *store.Store, p SalesInvoiceParams) (*InvoicePosting, error) {
	currency, err := tx.Commodity(ctx, p.CurrencyGUID)
	if err != nil {
		return nil, err
	}
	if !currency.IsCurrency() {
		return nil, fmt.Errorf("commodity %s (%s) cannot settle an invoice: %w",
			currency.GUID, currency.Mnemonic, ErrCurrencyMismatch)
	}
	customer, err := tx.Customer(ctx, p.CustomerGUID)
	if err != nil {
		return nil, err
	}

	costing := NewCosting(tx, s.log)
	resolver := NewResolver(tx, s.cfg.ReceivableRoot, s.cfg.PayableRoot)

	invoiceGUID := guid.New()
	description := p.Notes
	if description == "" {
		description = fmt.Sprintf("Sales Invoice %s", invoiceGUID)
	}

	b, err := Begin(ctx, tx, currency, p.DateOpened, description)
	if err != nil {
		return nil, err
	}

	// Cost batches keyed by costing currency, in first-seen order.
	batches := make(map[string][]cogsLeg)
	currencies := make(map[string]*model.Commodity)
	var batchOrder []string

	var total int64
	for _, line := range p.Lines {
		value := amount.FromDecimal(amount.Mul(line.Quantity, line.Price), currency.Fraction)
		if !value.IsZero() {
			income, err := tx.Account(ctx, line.IncomeAccountGUID)
			if err != nil {
				return nil, err
			}
			if err := b.AddSplit(ctx, income, line.Description, "Invoice", value.Neg(), value.Neg()); err != nil {
				return nil, err
			}
			total += value.Num
		}

		stock, err := costing.StockAccount(ctx, line.CommodityGUID)
		if err != nil {
			return nil, err
		}
		costCurrency, err := costing.CostingCurrency(ctx, stock)
		if err != nil {
			return nil, err
		}
		unitCost, err := costing.AverageCost(ctx, stock, costCurrency)
		if err != nil {
			return nil, err
		}

		sku, err := tx.Commodity(ctx, line.CommodityGUID)
		if err != nil {
			return nil, err
		}
		costValue := amount.FromDecimal(amount.Mul(line.Quantity, unitCost), costCurrency.Fraction)
		qty := amount.FromDecimal(line.Quantity, sku.Fraction)

		if !costValue.IsZero() || !qty.IsZero() {
			if _, seen := currencies[costCurrency.GUID]; !seen {
				currencies[costCurrency.GUID] = costCurrency
				batchOrder = append(batchOrder, costCurrency.GUID)
			}
			batches[costCurrency.GUID] = append(batches[costCurrency.GUID], cogsLeg{
				stock: stock,
				value: costValue,
				qty:   qty,
				memo:  line.Description,
			})
		}

		entry := &model.LineEntry{
			GUID:          guid.New(),
			InvoiceGUID:   invoiceGUID,
			Date:          p.DateOpened,
			Description:   line.Description,
			AccountGUID:   line.IncomeAccountGUID,
			QuantityNum:   qty.Num,
			QuantityDenom: qty.Denom,
			PriceNum:      amount.FromDecimal(line.Price, currency.Fraction).Num,
			PriceDenom:    currency.Fraction,
		}
		if err := tx.CreateLineEntry(ctx, entry); err != nil {
			return nil, err
		}
	}

	// The receivable debit is the negated sum of all income credits, so
	// the settlement transaction balances by construction. An all-zero
	// invoice has nothing to receive, so the split is elided like any
	// other zero-value split.
	if total != 0 {
		receivable, err := resolver.Receivable(ctx, customer, currency)
		if err != nil {
			return nil, err
		}
		arValue := amount.New(total, currency.Fraction)
		if err := b.AddSplit(ctx, receivable, "Sales", "Invoice", arValue, arValue); err != nil {
			return nil, err
		}
	}
	txn, err := b.Finalize()
	if err != nil {
		return nil, err
	}

	invoice := &model.Invoice{
		GUID:         invoiceGUID,
		DocNumber:    fmt.Sprintf("INV-%d", time.Now().UnixMilli()),
		DateOpened:   p.DateOpened,
		DatePosted:   p.DateOpened,
		Notes:        p.Notes,
		Active:       true,
		CurrencyGUID: currency.GUID,
		OwnerType:    model.OwnerTypeCustomer,
		OwnerGUID:    customer.GUID,
		PostTxnGUID:  txn.GUID,
	}
	if err := tx.CreateInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	var costTxns []*model.Transaction
	for _, currencyGUID := range batchOrder {
		costCurrency := currencies[currencyGUID]
		costTxn, err := s.postCOGS(ctx, tx, costCurrency, p.DateOpened, invoice.DocNumber, batches[currencyGUID])
		if err != nil {
			return nil, err
		}
		costTxns = append(costTxns, costTxn)
	}

	return &InvoicePosting{Invoice: invoice, Transaction: txn, CostTransactions: costTxns}, nil
}

// postCOGS writes one costing currency's batch: an inventory credit per
// sold line and a single aggregate COGS debit, balanced in that currency.
func (s *Service) postCOGS(ctx context.Context, tx *store.Store, currency *model.Commodity, postDate time.Time, docNumber string, legs []cogsLeg) (*model.Transaction, error) {
	cogsGUID, ok := s.cfg.COGSAccounts[currency.Mnemonic]
	if !ok {
		return nil, fmt.Errorf("currency %s: %w", currency.Mnemonic, ErrNoCOGSAccount)
	}
	cogsAccount, err := tx.Account(ctx, cogsGUID)
	if err != nil {
		return nil, err
	}

	b, err := Begin(ctx, tx, currency, postDate, fmt.Sprintf("COGS for %s", docNumber))
	if err != nil {
		return nil, err
	}
	var total int64
	for _, leg := range legs {
		memo := "Sale of item"
		if leg.memo != "" {
			memo = fmt.Sprintf("Sale of %s", leg.memo)
		}
		if err := b.AddSplit(ctx, leg.stock, memo, "Invoice", leg.value.Neg(), leg.qty.Neg()); err != nil {
			return nil, err
		}
		total += leg.value.Num
	}
	cogsValue := amount.New(total, currency.Fraction)
	if err := b.AddSplit(ctx, cogsAccount, fmt.Sprintf("COGS for %s", docNumber), "Invoice", cogsValue, cogsValue); err != nil {
		return nil, err
	}
	return b.Finalize()
}

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

// BillLine is one line item of a purchase bill. The account receives the
// debit: an asset account for stocked goods, an expense account otherwise.
type BillLine struct {
	Description string
	AccountGUID string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
}

// PurchaseBillParams describes a purchase bill posting. The bill settles
// in the vendor's currency.
type PurchaseBillParams struct {
	VendorGUID string
	DateOpened time.Time
	Notes      string
	Lines      []BillLine
}

// BillPosting is the result of posting one purchase bill.
type BillPosting struct {
	Bill        *model.Invoice
	Transaction *model.Transaction
}

// PostPurchaseBill posts a purchase bill: one payable credit balancing one
// debit per line item, each line paired with an audit record. Commits
// atomically or not at all.
func (s *Service) PostPurchaseBill(ctx context.Context, p PurchaseBillParams) (*BillPosting, error) {
	var result *BillPosting
	err := s.st.Atomically(ctx, func(tx *store.Store) error {
		posting, err := s.postPurchaseBill(ctx, tx, p)
		if err != nil {
			return err
		}
		result = posting
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("purchase bill posted", "bill", result.Bill.GUID, "transaction", result.Transaction.GUID)
	return result, nil
}

func (s *Service) postPurchaseBill(ctx context.Context, tx *store.Store, p PurchaseBillParams) (*BillPosting, error) {
	vendor, err := tx.Vendor(ctx, p.VendorGUID)
	if err != nil {
		return nil, err
	}
	currency, err := tx.Commodity(ctx, vendor.CurrencyGUID)
	if err != nil {
		return nil, err
	}
	if !currency.IsCurrency() {
		return nil, fmt.Errorf("vendor %s currency %s: %w", vendor.GUID, currency.Mnemonic, ErrCurrencyMismatch)
	}

	billGUID := guid.New()
	description := p.Notes
	if description == "" {
		description = fmt.Sprintf("Purchase Bill %s", billGUID)
	}

	// Round each line independently; the payable credit is the negated
	// sum of the rounded values so the transaction balances exactly.
	values := make([]amount.Fraction, len(p.Lines))
	var total int64
	for i, line := range p.Lines {
		values[i] = amount.FromDecimal(amount.Mul(line.Quantity, line.Price), currency.Fraction)
		total += values[i].Num
	}

	b, err := Begin(ctx, tx, currency, p.DateOpened, description)
	if err != nil {
		return nil, err
	}

	resolver := NewResolver(tx, s.cfg.ReceivableRoot, s.cfg.PayableRoot)
	costing := NewCosting(tx, s.log)
	payable, err := resolver.Payable(ctx, vendor, currency)
	if err != nil {
		return nil, err
	}
	apValue := amount.New(-total, currency.Fraction)
	if err := b.AddSplit(ctx, payable, "Purchase", "Bill", apValue, apValue); err != nil {
		return nil, err
	}

	for i, line := range p.Lines {
		if !values[i].IsZero() {
			debit, err := tx.Account(ctx, line.AccountGUID)
			if err != nil {
				return nil, err
			}
			// On a STOCK debit the quantity is units of the SKU, which is
			// what the moving-average cost is computed from. Everywhere
			// else the account's commodity is the settlement currency, so
			// quantity equals value.
			quantity := values[i]
			if debit.Type == model.AccountTypeStock {
				// Values on a stock account are read back in its costing
				// currency, so the bill must settle in that currency.
				costCurrency, err := costing.CostingCurrency(ctx, debit)
				if err != nil {
					return nil, err
				}
				if costCurrency.GUID != currency.GUID {
					return nil, fmt.Errorf("stock account %s is costed in %s, bill settles in %s: %w",
						debit.GUID, costCurrency.Mnemonic, currency.Mnemonic, ErrCurrencyMismatch)
				}
				sku, err := tx.Commodity(ctx, debit.CommodityGUID)
				if err != nil {
					return nil, err
				}
				quantity = amount.FromDecimal(line.Quantity, sku.Fraction)
			}
			if err := b.AddSplit(ctx, debit, line.Description, "Bill", values[i], quantity); err != nil {
				return nil, err
			}
		}

		entry := &model.LineEntry{
			GUID:          guid.New(),
			InvoiceGUID:   billGUID,
			Date:          p.DateOpened,
			Description:   line.Description,
			AccountGUID:   line.AccountGUID,
			QuantityNum:   amount.FromDecimal(line.Quantity, currency.Fraction).Num,
			QuantityDenom: currency.Fraction,
			PriceNum:      amount.FromDecimal(line.Price, currency.Fraction).Num,
			PriceDenom:    currency.Fraction,
		}
		if err := tx.CreateLineEntry(ctx, entry); err != nil {
			return nil, err
		}
	}

	txn, err := b.Finalize()
	if err != nil {
		return nil, err
	}

	bill := &model.Invoice{
		GUID:         billGUID,
		DocNumber:    fmt.Sprintf("BILL-%d", time.Now().UnixMilli()),
		DateOpened:   p.DateOpened,
		DatePosted:   p.DateOpened,
		Notes:        p.Notes,
		Active:       true,
		CurrencyGUID: currency.GUID,
		OwnerType:    model.OwnerTypeVendor,
		OwnerGUID:    vendor.GUID,
		PostTxnGUID:  txn.GUID,
	}
	if err := tx.CreateInvoice(ctx, bill); err != nil {
		return nil, err
	}

	return &BillPosting{Bill: bill, Transaction: txn}, nil
}

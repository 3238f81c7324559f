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

// PaymentParams describes a customer or vendor payment: exactly two
// splits, equal and opposite, between a bank account and the
// counterparty's resolved receivable/payable account.
type PaymentParams struct {
	CounterpartyGUID string // customer or vendor
	CurrencyGUID     string
	BankAccountGUID  string
	Amount           decimal.Decimal
	Date             time.Time
	Description      string
}

// PostCustomerPayment records money received from a customer: debit the
// bank account, credit the customer's receivable account for the currency.
func (s *Service) PostCustomerPayment(ctx context.Context, p PaymentParams) (*model.Transaction, error) {
	var result *model.Transaction
	err := s.st.Atomically(ctx, func(tx *store.Store) error {
		customer, err := tx.Customer(ctx, p.CounterpartyGUID)
		if err != nil {
			return err
		}
		resolver := NewResolver(tx, s.cfg.ReceivableRoot, s.cfg.PayableRoot)
		currency, bank, err := s.paymentAccounts(ctx, tx, p)
		if err != nil {
			return err
		}
		receivable, err := resolver.Receivable(ctx, customer, currency)
		if err != nil {
			return err
		}

		description := p.Description
		if description == "" {
			description = "Customer Payment"
		}
		value := amount.FromDecimal(p.Amount, currency.Fraction)

		b, err := Begin(ctx, tx, currency, p.Date, description)
		if err != nil {
			return err
		}
		if err := b.AddSplit(ctx, bank, "Customer Payment", "Payment", value, value); err != nil {
			return err
		}
		if err := b.AddSplit(ctx, receivable, "Customer Payment", "Payment", value.Neg(), value.Neg()); err != nil {
			return err
		}
		result, err = b.Finalize()
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("customer payment posted", "transaction", result.GUID, "customer", p.CounterpartyGUID)
	return result, nil
}

// PostVendorPayment records money paid to a vendor: debit the vendor's
// payable account for the currency, credit the bank account.
func (s *Service) PostVendorPayment(ctx context.Context, p PaymentParams) (*model.Transaction, error) {
	var result *model.Transaction
	err := s.st.Atomically(ctx, func(tx *store.Store) error {
		vendor, err := tx.Vendor(ctx, p.CounterpartyGUID)
		if err != nil {
			return err
		}
		resolver := NewResolver(tx, s.cfg.ReceivableRoot, s.cfg.PayableRoot)
		currency, bank, err := s.paymentAccounts(ctx, tx, p)
		if err != nil {
			return err
		}
		payable, err := resolver.Payable(ctx, vendor, currency)
		if err != nil {
			return err
		}

		description := p.Description
		if description == "" {
			description = "Vendor Payment"
		}
		value := amount.FromDecimal(p.Amount, currency.Fraction)

		b, err := Begin(ctx, tx, currency, p.Date, description)
		if err != nil {
			return err
		}
		if err := b.AddSplit(ctx, payable, "Vendor Payment", "Payment", value, value); err != nil {
			return err
		}
		if err := b.AddSplit(ctx, bank, "Vendor Payment", "Payment", value.Neg(), value.Neg()); err != nil {
			return err
		}
		result, err = b.Finalize()
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("vendor payment posted", "transaction", result.GUID, "vendor", p.CounterpartyGUID)
	return result, nil
}

// paymentAccounts validates the payment's currency and bank account. The
// bank account must be denominated in the settlement currency.
func (s *Service) paymentAccounts(ctx context.Context, tx *store.Store, p PaymentParams) (*model.Commodity, *model.Account, error) {
	currency, err := tx.Commodity(ctx, p.CurrencyGUID)
	if err != nil {
		return nil, nil, err
	}
	if !currency.IsCurrency() {
		return nil, nil, fmt.Errorf("commodity %s (%s) cannot settle a payment: %w",
			currency.GUID, currency.Mnemonic, ErrCurrencyMismatch)
	}
	bank, err := tx.Account(ctx, p.BankAccountGUID)
	if err != nil {
		return nil, nil, err
	}
	if bank.CommodityGUID != currency.GUID {
		return nil, nil, fmt.Errorf("bank account %s is not denominated in %s: %w",
			bank.GUID, currency.Mnemonic, ErrCurrencyMismatch)
	}
	return currency, bank, nil
}

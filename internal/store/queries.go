package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tally-books/tally/internal/model"
)

func notFound(err error, kind, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("store: %s %q: %w", kind, key, ErrNotFound)
	}
	return fmt.Errorf("store: looking up %s %q: %w", kind, key, err)
}

// Commodity returns a commodity by guid.
func (s *Store) Commodity(ctx context.Context, guid string) (*model.Commodity, error) {
	var c model.Commodity
	if err := s.db.WithContext(ctx).First(&c, "guid = ?", guid).Error; err != nil {
		return nil, notFound(err, "commodity", guid)
	}
	return &c, nil
}

// Account returns an account by guid.
func (s *Store) Account(ctx context.Context, guid string) (*model.Account, error) {
	var a model.Account
	if err := s.db.WithContext(ctx).First(&a, "guid = ?", guid).Error; err != nil {
		return nil, notFound(err, "account", guid)
	}
	return &a, nil
}

// AccountByName returns the account with the given name and commodity.
// This is the resolver's lookup key; the pair is unique by constraint.
func (s *Store) AccountByName(ctx context.Context, name, commodityGUID string) (*model.Account, error) {
	var a model.Account
	err := s.db.WithContext(ctx).
		Where("name = ? AND commodity_guid = ?", name, commodityGUID).
		First(&a).Error
	if err != nil {
		return nil, notFound(err, "account", name)
	}
	return &a, nil
}

// Customer returns a customer by guid.
func (s *Store) Customer(ctx context.Context, guid string) (*model.Customer, error) {
	var c model.Customer
	if err := s.db.WithContext(ctx).First(&c, "guid = ?", guid).Error; err != nil {
		return nil, notFound(err, "customer", guid)
	}
	return &c, nil
}

// Vendor returns a vendor by guid.
func (s *Store) Vendor(ctx context.Context, guid string) (*model.Vendor, error) {
	var v model.Vendor
	if err := s.db.WithContext(ctx).First(&v, "guid = ?", guid).Error; err != nil {
		return nil, notFound(err, "vendor", guid)
	}
	return &v, nil
}

// StockAccountForCommodity returns the STOCK account tracking a SKU. With
// lock set, the row is locked for the rest of the enclosing transaction so
// concurrent costing reads of the same SKU serialize. SQLite has no
// FOR UPDATE and serializes writers on its own, so the clause is applied
// only where the dialect supports it.
func (s *Store) StockAccountForCommodity(ctx context.Context, commodityGUID string, lock bool) (*model.Account, error) {
	q := s.db.WithContext(ctx)
	if lock && s.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var a model.Account
	err := q.Where("commodity_guid = ? AND type = ?", commodityGUID, model.AccountTypeStock).
		First(&a).Error
	if err != nil {
		return nil, notFound(err, "stock account for commodity", commodityGUID)
	}
	return &a, nil
}

// SplitTotals sums the value and quantity numerators of every split posted
// to an account. Denominators are fixed per commodity, so sums over
// numerators are exact.
func (s *Store) SplitTotals(ctx context.Context, accountGUID string) (valueNum, quantityNum int64, err error) {
	var row struct {
		ValueNum    int64
		QuantityNum int64
	}
	err = s.db.WithContext(ctx).Model(&model.Split{}).
		Select("COALESCE(SUM(value_num), 0) AS value_num, COALESCE(SUM(quantity_num), 0) AS quantity_num").
		Where("account_guid = ?", accountGUID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("store: summing splits for account %q: %w", accountGUID, err)
	}
	return row.ValueNum, row.QuantityNum, nil
}

// AccountBalance returns the exact value balance of an account, optionally
// as of a posting date. Numerators are summed per denominator so the
// result stays exact even across commodities with different fractions.
func (s *Store) AccountBalance(ctx context.Context, accountGUID string, asOf *time.Time) (decimal.Decimal, error) {
	var rows []struct {
		ValueDenom int64
		Num        int64
	}
	q := s.db.WithContext(ctx).Model(&model.Split{}).
		Joins("JOIN transactions ON transactions.guid = splits.tx_guid").
		Where("splits.account_guid = ?", accountGUID)
	if asOf != nil {
		q = q.Where("transactions.post_date <= ?", *asOf)
	}
	err := q.Select("splits.value_denom AS value_denom, SUM(splits.value_num) AS num").
		Group("splits.value_denom").
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("store: balance for account %q: %w", accountGUID, err)
	}

	balance := decimal.Zero
	for _, r := range rows {
		if r.ValueDenom == 0 {
			continue
		}
		balance = balance.Add(decimal.NewFromInt(r.Num).Div(decimal.NewFromInt(r.ValueDenom)))
	}
	return balance, nil
}

// Transaction returns a transaction with its splits in audit order.
func (s *Store) Transaction(ctx context.Context, guid string) (*model.Transaction, error) {
	var t model.Transaction
	err := s.db.WithContext(ctx).
		Preload("Splits", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence")
		}).
		First(&t, "guid = ?", guid).Error
	if err != nil {
		return nil, notFound(err, "transaction", guid)
	}
	return &t, nil
}

// SplitsForTransaction returns a transaction's splits in audit order.
func (s *Store) SplitsForTransaction(ctx context.Context, txGUID string) ([]model.Split, error) {
	var splits []model.Split
	err := s.db.WithContext(ctx).
		Where("tx_guid = ?", txGUID).
		Order("sequence").
		Find(&splits).Error
	if err != nil {
		return nil, fmt.Errorf("store: splits for transaction %q: %w", txGUID, err)
	}
	return splits, nil
}

// CountTransactionRows reports how many header and split rows exist for a
// transaction guid. Used by atomicity checks.
func (s *Store) CountTransactionRows(ctx context.Context, txGUID string) (headers, splits int64, err error) {
	if err = s.db.WithContext(ctx).Model(&model.Transaction{}).Where("guid = ?", txGUID).Count(&headers).Error; err != nil {
		return 0, 0, fmt.Errorf("store: counting transactions: %w", err)
	}
	if err = s.db.WithContext(ctx).Model(&model.Split{}).Where("tx_guid = ?", txGUID).Count(&splits).Error; err != nil {
		return 0, 0, fmt.Errorf("store: counting splits: %w", err)
	}
	return headers, splits, nil
}

// LineEntriesForInvoice returns the line records of a document.
func (s *Store) LineEntriesForInvoice(ctx context.Context, invoiceGUID string) ([]model.LineEntry, error) {
	var entries []model.LineEntry
	err := s.db.WithContext(ctx).
		Where("invoice_guid = ?", invoiceGUID).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("store: line entries for invoice %q: %w", invoiceGUID, err)
	}
	return entries, nil
}

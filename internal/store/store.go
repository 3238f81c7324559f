// Package store is the persistence boundary: reference-data lookups with
// well-defined not-found signals, row creation with duplicate-key
// detection, and scoped atomic transactions. All ledger writes go through
// Atomically; partial writes are never observable outside its commit
// boundary.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tally-books/tally/internal/model"
)

var (
	// ErrNotFound signals that a referenced row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict signals a duplicate unique key on insert.
	ErrConflict = errors.New("store: duplicate key")
)

// Store wraps a gorm handle, which may be the root pool or an open
// transaction obtained through Atomically.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database. Supported drivers are
// "sqlite" and "mysql".
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true, // duplicate keys surface as gorm.ErrDuplicatedKey on every driver
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s database: %w", driver, err)
	}
	return New(db), nil
}

// New wraps an existing gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the ledger schema, including the uniqueness
// constraints the account resolver relies on.
func (s *Store) Migrate() error {
	err := s.db.AutoMigrate(
		&model.Commodity{},
		&model.Account{},
		&model.Transaction{},
		&model.Split{},
		&model.Customer{},
		&model.Vendor{},
		&model.Invoice{},
		&model.LineEntry{},
	)
	if err != nil {
		return fmt.Errorf("store: migrating schema: %w", err)
	}
	return nil
}

// Atomically runs fn inside one database transaction. The transaction
// commits only if fn returns nil; any error rolls back every write fn
// performed.
func (s *Store) Atomically(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) create(ctx context.Context, kind string, v any) error {
	err := s.db.WithContext(ctx).Create(v).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("store: creating %s: %w", kind, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("store: creating %s: %w", kind, err)
	}
	return nil
}

// CreateCommodity inserts a commodity row.
func (s *Store) CreateCommodity(ctx context.Context, c *model.Commodity) error {
	return s.create(ctx, "commodity", c)
}

// CreateAccount inserts an account row. Returns ErrConflict when the
// (name, commodity) pair already exists.
func (s *Store) CreateAccount(ctx context.Context, a *model.Account) error {
	return s.create(ctx, "account", a)
}

// CreateTransaction inserts a transaction header row.
func (s *Store) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	return s.create(ctx, "transaction", t)
}

// CreateSplit inserts one transaction leg.
func (s *Store) CreateSplit(ctx context.Context, sp *model.Split) error {
	return s.create(ctx, "split", sp)
}

// CreateCustomer inserts a customer row.
func (s *Store) CreateCustomer(ctx context.Context, c *model.Customer) error {
	return s.create(ctx, "customer", c)
}

// CreateVendor inserts a vendor row.
func (s *Store) CreateVendor(ctx context.Context, v *model.Vendor) error {
	return s.create(ctx, "vendor", v)
}

// CreateInvoice inserts an invoice or bill document row.
func (s *Store) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	return s.create(ctx, "invoice", inv)
}

// CreateLineEntry inserts one document line record.
func (s *Store) CreateLineEntry(ctx context.Context, e *model.LineEntry) error {
	return s.create(ctx, "line entry", e)
}

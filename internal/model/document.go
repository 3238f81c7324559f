package model

import "time"

// OwnerType distinguishes sales invoices from purchase bills.
type OwnerType int

const (
	OwnerTypeCustomer OwnerType = 1
	OwnerTypeVendor   OwnerType = 2
)

// Invoice is the business document layered over a posted transaction: a
// sales invoice when owned by a customer, a purchase bill when owned by a
// vendor. It references exactly one originating transaction; a sales
// invoice may additionally cause linked cost-of-goods transactions, which
// are not referenced here.
type Invoice struct {
	GUID         string    `gorm:"size:32;primaryKey"`
	DocNumber    string    `gorm:"size:64;not null"` // e.g. "INV-1735689600000"
	DateOpened   time.Time `gorm:"not null"`
	DatePosted   time.Time
	Notes        string    `gorm:"size:256"`
	Active       bool
	CurrencyGUID string    `gorm:"size:32;not null"`
	OwnerType    OwnerType `gorm:"index:idx_invoices_owner;not null"`
	OwnerGUID    string    `gorm:"size:32;index:idx_invoices_owner;not null"`
	PostTxnGUID  string    `gorm:"size:32;index;not null"`
}

// LineEntry records the commercial terms of one document line (unit price
// and quantity) for display and audit, independent of the ledger splits the
// line generated.
type LineEntry struct {
	GUID          string    `gorm:"size:32;primaryKey"`
	InvoiceGUID   string    `gorm:"size:32;index;not null"`
	Date          time.Time `gorm:"not null"`
	Description   string    `gorm:"size:256"`
	AccountGUID   string    `gorm:"size:32"` // income account (sales) or debit account (purchase)
	QuantityNum   int64     `gorm:"not null"`
	QuantityDenom int64     `gorm:"not null"`
	PriceNum      int64     `gorm:"not null"`
	PriceDenom    int64     `gorm:"not null"`
}

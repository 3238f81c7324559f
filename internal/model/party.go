package model

// Customer is a counterparty the business sells to. Its per-currency
// receivable accounts are resolved lazily by derived name, not stored here.
type Customer struct {
	GUID         string `gorm:"size:32;primaryKey"`
	Name         string `gorm:"size:128;not null"`
	Number       string `gorm:"size:64;uniqueIndex"`
	Notes        string `gorm:"size:256"`
	Active       bool
	CurrencyGUID string `gorm:"size:32;not null"` // default settlement currency
}

// Vendor is a counterparty the business buys from.
type Vendor struct {
	GUID         string `gorm:"size:32;primaryKey"`
	Name         string `gorm:"size:128;not null"`
	Number       string `gorm:"size:64;uniqueIndex"`
	Notes        string `gorm:"size:256"`
	Active       bool
	CurrencyGUID string `gorm:"size:32;not null"`
}

package model

// Namespace classifies what kind of tradeable unit a commodity is.
type Namespace string

const (
	NamespaceCurrency  Namespace = "CURRENCY"
	NamespaceStockItem Namespace = "STOCK-ITEM"
)

// Commodity is any tradeable unit tracked by the ledger: a currency or a
// stock-keeping unit. Immutable once referenced by a transaction.
type Commodity struct {
	GUID      string    `gorm:"size:32;primaryKey"`
	Namespace Namespace `gorm:"size:32;index;not null"`
	Mnemonic  string    `gorm:"size:16;not null"` // e.g. "USD", "WIDGET"
	Fullname  string    `gorm:"size:128"`
	Fraction  int64     `gorm:"not null;default:100"` // denominator for stored numerators
}

// IsCurrency reports whether the commodity lives in the CURRENCY namespace.
func (c Commodity) IsCurrency() bool {
	return c.Namespace == NamespaceCurrency
}

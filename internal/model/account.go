package model

// AccountType classifies accounts in the chart of accounts. STOCK is the
// special inventory-tracking type: a STOCK account is denominated in the
// SKU commodity it tracks rather than in a currency.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeStock     AccountType = "STOCK"
)

// Account is a node in the chart-of-accounts tree, denominated in exactly
// one commodity. The (name, commodity) pair is unique: the account resolver
// depends on that constraint to make lazy creation race-safe.
type Account struct {
	GUID          string      `gorm:"size:32;primaryKey"`
	Name          string      `gorm:"size:128;uniqueIndex:idx_accounts_name_commodity;not null"`
	Type          AccountType `gorm:"size:16;index;not null"`
	CommodityGUID string      `gorm:"size:32;uniqueIndex:idx_accounts_name_commodity;index;not null"`
	ParentGUID    string      `gorm:"size:32;index"` // empty = top-level
	Code          string      `gorm:"size:32"`
	Placeholder   bool        // placeholder accounts are non-postable
}

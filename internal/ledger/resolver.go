package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/tally-books/tally/internal/guid"
	"github.com/tally-books/tally/internal/model"
	"github.com/tally-books/tally/internal/store"
)

// Resolver finds or lazily creates the per-(counterparty, currency)
// receivable and payable accounts. The lookup key is the derived account
// name plus the currency commodity; the name derivation is deterministic,
// so resolution is idempotent. Creation is guarded by the unique
// (name, commodity) constraint: losing a creation race is not an error,
// the winner's account is re-read and used.
type Resolver struct {
	st             *store.Store
	receivableRoot string // parent for lazily created A/R accounts
	payableRoot    string // parent for lazily created A/P accounts
}

// NewResolver wires a resolver to the pre-provisioned root accounts. The
// roots are injected configuration, not discovered.
func NewResolver(st *store.Store, receivableRoot, payableRoot string) *Resolver {
	return &Resolver{st: st, receivableRoot: receivableRoot, payableRoot: payableRoot}
}

// ReceivableName derives the stable account name for a customer and
// currency, e.g. "A/R - Acme Corp (USD)".
func ReceivableName(customerName, currencyMnemonic string) string {
	return fmt.Sprintf("A/R - %s (%s)", customerName, currencyMnemonic)
}

// PayableName derives the stable account name for a vendor and currency.
func PayableName(vendorName, currencyMnemonic string) string {
	return fmt.Sprintf("A/P - %s (%s)", vendorName, currencyMnemonic)
}

// Receivable returns the customer's receivable account for the currency,
// creating an ASSET account under the receivable root if absent.
func (r *Resolver) Receivable(ctx context.Context, customer *model.Customer, currency *model.Commodity) (*model.Account, error) {
	return r.resolve(ctx, ReceivableName(customer.Name, currency.Mnemonic), model.AccountTypeAsset, r.receivableRoot, currency)
}

// Payable returns the vendor's payable account for the currency, creating
// a LIABILITY account under the payable root if absent.
func (r *Resolver) Payable(ctx context.Context, vendor *model.Vendor, currency *model.Commodity) (*model.Account, error) {
	return r.resolve(ctx, PayableName(vendor.Name, currency.Mnemonic), model.AccountTypeLiability, r.payableRoot, currency)
}

func (r *Resolver) resolve(ctx context.Context, name string, typ model.AccountType, parent string, currency *model.Commodity) (*model.Account, error) {
	if !currency.IsCurrency() {
		return nil, fmt.Errorf("commodity %s (%s) cannot denominate a %s account: %w",
			currency.GUID, currency.Mnemonic, typ, ErrCurrencyMismatch)
	}

	acct, err := r.st.AccountByName(ctx, name, currency.GUID)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	acct = &model.Account{
		GUID:          guid.New(),
		Name:          name,
		Type:          typ,
		CommodityGUID: currency.GUID,
		ParentGUID:    parent,
		Placeholder:   false,
	}
	err = r.st.CreateAccount(ctx, acct)
	if err == nil {
		return acct, nil
	}
	if errors.Is(err, store.ErrConflict) {
		// Lost the creation race: someone else created it, use theirs.
		return r.st.AccountByName(ctx, name, currency.GUID)
	}
	return nil, err
}

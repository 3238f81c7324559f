package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance returns the value balance of an account, optionally as of
// a posting date (inclusive). Read-only; asset and expense balances come
// out positive, liability, income and equity balances negative, per the
// split sign convention.
func (s *Service) AccountBalance(ctx context.Context, accountGUID string, asOf *time.Time) (decimal.Decimal, error) {
	if _, err := s.st.Account(ctx, accountGUID); err != nil {
		return decimal.Zero, err
	}
	return s.st.AccountBalance(ctx, accountGUID, asOf)
}

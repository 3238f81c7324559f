// Package ledger implements the transaction engine: construction,
// balancing, and atomic persistence of compound accounting transactions,
// with dynamic per-currency receivable/payable resolution and
// moving-average inventory costing.
package ledger

import (
	"log/slog"

	"github.com/tally-books/tally/internal/store"
)

// Config carries the pre-provisioned account wiring every posting workflow
// depends on. The roots and mappings are injected at startup, never
// discovered by name patterns.
type Config struct {
	// ReceivableRoot is the parent account for lazily created A/R accounts.
	ReceivableRoot string
	// PayableRoot is the parent account for lazily created A/P accounts.
	PayableRoot string
	// COGSAccounts maps a currency mnemonic to the expense account that
	// recognizes cost of goods sold in that currency.
	COGSAccounts map[string]string
}

// Service runs the posting workflows. Each call executes inside one
// atomic store transaction; on any error no ledger state is left behind.
type Service struct {
	st  *store.Store
	cfg Config
	log *slog.Logger
}

// NewService creates a ledger service. A nil logger falls back to
// slog.Default().
func NewService(st *store.Store, cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{st: st, cfg: cfg, log: log}
}

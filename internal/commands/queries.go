package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tally-books/tally/internal/config"
	"github.com/tally-books/tally/internal/ledger"
	"github.com/tally-books/tally/internal/store"
)

func newBalanceCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "balance <account-guid>",
		Short: "Print the value balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(dir)
			if err != nil {
				return err
			}
			defer cleanup()

			balance, err := svc.AccountBalance(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", balance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory containing tally.yaml")
	return cmd
}

func newStockCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "stock <commodity-guid>",
		Short: "Print the on-hand quantity of a stock item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(dir)
			if err != nil {
				return err
			}
			defer cleanup()

			level, err := svc.StockLevel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", level)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory containing tally.yaml")
	return cmd
}

// openService loads tally.yaml from dir and wires a ledger service to the
// configured database.
func openService(dir string) (*ledger.Service, func(), error) {
	cfg, err := config.Load(filepath.Join(dir, "tally.yaml"))
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	svc := ledger.NewService(st, ledger.Config{
		ReceivableRoot: cfg.Ledger.ReceivableRoot,
		PayableRoot:    cfg.Ledger.PayableRoot,
		COGSAccounts:   cfg.Ledger.COGSAccounts,
	}, nil)
	return svc, func() { _ = st.Close() }, nil
}

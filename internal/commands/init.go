package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tally-books/tally/internal/chart"
	"github.com/tally-books/tally/internal/config"
	"github.com/tally-books/tally/internal/store"
)

func newInitCommand() *cobra.Command {
	var currency string
	var currencyName string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger: config, schema, and chart of accounts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd.Context(), absDir, currency, currencyName)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "USD", "base currency mnemonic")
	cmd.Flags().StringVar(&currencyName, "currency-name", "US Dollar", "base currency display name")

	return cmd
}

func runInit(ctx context.Context, dir, currency, currencyName string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	dbPath := filepath.Join(dir, "tally.db")
	st, err := store.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(); err != nil {
		return err
	}

	c := chart.Default(currency, currencyName)
	if err := c.Seed(ctx, st); err != nil {
		return fmt.Errorf("seeding chart of accounts: %w", err)
	}

	cfg := config.Default(dbPath)
	cfg.Ledger.ReceivableRoot = c.ReceivableRoot.GUID
	cfg.Ledger.PayableRoot = c.PayableRoot.GUID
	cfg.Ledger.COGSAccounts[currency] = c.COGS.GUID
	cfg.Ledger.AdjustmentAccount = c.Shrinkage.GUID
	if err := config.Save(filepath.Join(dir, "tally.yaml"), cfg); err != nil {
		return err
	}

	fmt.Printf("Initialized ledger in %s (%s)\n", dir, currency)
	return nil
}

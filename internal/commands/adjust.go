package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-books/tally/internal/config"
	"github.com/tally-books/tally/internal/ledger"
	"github.com/tally-books/tally/internal/store"
)

func newAdjustCommand() *cobra.Command {
	var dir string
	var quantity string
	var cost string
	var notes string

	cmd := &cobra.Command{
		Use:   "adjust <stock-account-guid>",
		Short: "Post an inventory adjustment against the configured adjustment account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimal.NewFromString(quantity)
			if err != nil {
				return fmt.Errorf("parsing --quantity: %w", err)
			}
			unitCost, err := decimal.NewFromString(cost)
			if err != nil {
				return fmt.Errorf("parsing --cost: %w", err)
			}

			cfg, err := config.Load(filepath.Join(dir, "tally.yaml"))
			if err != nil {
				return err
			}
			if cfg.Ledger.AdjustmentAccount == "" {
				return fmt.Errorf("no adjustment_account configured in tally.yaml")
			}
			st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer st.Close()

			svc := ledger.NewService(st, ledger.Config{
				ReceivableRoot: cfg.Ledger.ReceivableRoot,
				PayableRoot:    cfg.Ledger.PayableRoot,
				COGSAccounts:   cfg.Ledger.COGSAccounts,
			}, nil)

			txn, err := svc.AdjustInventory(cmd.Context(), ledger.AdjustmentParams{
				StockAccountGUID:   args[0],
				ExpenseAccountGUID: cfg.Ledger.AdjustmentAccount,
				QuantityChange:     qty,
				CostPerUnit:        unitCost,
				Date:               time.Now().UTC(),
				Notes:              notes,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Posted adjustment %s\n", txn.GUID)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory containing tally.yaml")
	cmd.Flags().StringVar(&quantity, "quantity", "", "signed quantity change, negative for a shortage")
	cmd.Flags().StringVar(&cost, "cost", "", "unit cost in the adjustment account's currency")
	cmd.Flags().StringVar(&notes, "notes", "", "transaction description")
	_ = cmd.MarkFlagRequired("quantity")
	_ = cmd.MarkFlagRequired("cost")

	return cmd
}

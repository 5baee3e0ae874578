package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warecost-io/warecost/pkg/engine"
	"github.com/warecost-io/warecost/pkg/history"
	"github.com/warecost-io/warecost/pkg/normalize"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		configPath string
		budgets    []string
		price      float64
		fromDB     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [file.json]",
		Short: "Analyze query history and print the full cost report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			raws, err := loadBatch(args, fromDB, cfg.HistoryDB)
			if err != nil {
				return err
			}

			if price <= 0 {
				price = cfg.CreditPrice
			}
			eng := engine.New(price)
			if _, err := eng.Load(raws); err != nil {
				return err
			}
			if err := applyBudgets(eng, cfg, budgets); err != nil {
				return err
			}

			return writeSummaryReport(os.Stdout, eng.Summary())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to warecost config file")
	cmd.Flags().StringArrayVarP(&budgets, "budget", "b", nil, "team budget as team:amount (repeatable)")
	cmd.Flags().Float64Var(&price, "price", 0, "USD per credit (default: config value)")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "read the batch from the SQLite history store")

	return cmd
}

// loadBatch reads the raw batch from a JSON file argument or from the
// history database when --from-db is set.
func loadBatch(args []string, fromDB bool, dbPath string) ([]normalize.RawRecord, error) {
	if fromDB {
		store, err := history.Open(dbPath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		return store.Queries(context.Background())
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("a batch file is required unless --from-db is set")
	}
	return history.LoadJSON(args[0])
}

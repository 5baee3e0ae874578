package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warecost-io/warecost/pkg/engine"
)

func newBudgetCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Evaluate team spend against configured budgets",
	}

	var (
		budgets []string
		price   float64
		fromDB  bool
	)
	checkCmd := &cobra.Command{
		Use:   "check [file.json]",
		Short: "Report teams at or past 80% of budget",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if len(cfg.Budgets) == 0 && len(budgets) == 0 {
				return fmt.Errorf("no budgets configured; set budgets in config or pass --budget team:amount")
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

			alerts := eng.BudgetAlerts()
			if len(alerts) == 0 {
				fmt.Println("All teams within budget.")
				return nil
			}
			writeAlerts(os.Stdout, alerts)
			return nil
		},
	}
	checkCmd.Flags().StringArrayVarP(&budgets, "budget", "b", nil, "team budget as team:amount (repeatable)")
	checkCmd.Flags().Float64Var(&price, "price", 0, "USD per credit (default: config value)")
	checkCmd.Flags().BoolVar(&fromDB, "from-db", false, "read the batch from the SQLite history store")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to warecost config file")
	cmd.AddCommand(checkCmd)
	return cmd
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/warecost-io/warecost/pkg/engine"
)

func newBreakdownCmd() *cobra.Command {
	var (
		configPath string
		dim        string
		price      float64
		fromDB     bool
	)

	cmd := &cobra.Command{
		Use:   "breakdown [file.json]",
		Short: "Show cost grouped by one attribution dimension",
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

			rows, err := eng.Breakdown(dim)
			if err != nil {
				return err
			}
			return writeBreakdownTable(os.Stdout, dim, rows)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to warecost config file")
	cmd.Flags().StringVar(&dim, "dim", "team", "dimension: team, warehouse_name, dbt_model, dag_id, user_name")
	cmd.Flags().Float64Var(&price, "price", 0, "USD per credit (default: config value)")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "read the batch from the SQLite history store")

	return cmd
}

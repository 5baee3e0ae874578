package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warecost-io/warecost/pkg/engine"
)

func newAnomaliesCmd() *cobra.Command {
	var (
		configPath string
		zThreshold float64
		price      float64
		fromDB     bool
	)

	cmd := &cobra.Command{
		Use:   "anomalies [file.json]",
		Short: "Flag cost outliers among the loaded queries",
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
			if zThreshold <= 0 {
				zThreshold = cfg.ZThreshold
			}
			eng := engine.New(price)
			if _, err := eng.Load(raws); err != nil {
				return err
			}

			anomalies := eng.Anomalies(zThreshold)
			if len(anomalies) == 0 {
				fmt.Println("No anomalies found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "QUERY ID\tCOST\tZ-SCORE\tTEAM\tWAREHOUSE")
			for _, a := range anomalies {
				fmt.Fprintf(w, "%s\t$%.4f\t%.2f\t%s\t%s\n",
					a.QueryID, a.CostUSD, a.ZScore, a.Team, a.Warehouse)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to warecost config file")
	cmd.Flags().Float64Var(&zThreshold, "z", 0, "z-score threshold (default: config value)")
	cmd.Flags().Float64Var(&price, "price", 0, "USD per credit (default: config value)")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "read the batch from the SQLite history store")

	return cmd
}

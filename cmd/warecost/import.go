package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warecost-io/warecost/pkg/history"
	"github.com/warecost-io/warecost/pkg/normalize"
)

func newImportCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Load a JSON query batch into the SQLite history store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			raws, err := history.LoadJSON(args[0])
			if err != nil {
				return err
			}
			records, err := normalize.Batch(raws)
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := context.Background()
			for _, rec := range records {
				if err := store.Insert(ctx, rec); err != nil {
					return err
				}
			}

			fmt.Printf("Imported %d queries into %s\n", len(records), cfg.HistoryDB)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to warecost config file")
	return cmd
}

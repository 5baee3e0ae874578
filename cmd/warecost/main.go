package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "warecost",
		Short:   "WareCost — data warehouse query cost attribution",
		Version: version,
	}

	root.AddCommand(
		newAnalyzeCmd(),
		newBreakdownCmd(),
		newAnomaliesCmd(),
		newBudgetCmd(),
		newImportCmd(),
		newServeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/warecost-io/warecost/pkg/config"
	"github.com/warecost-io/warecost/pkg/engine"
	"github.com/warecost-io/warecost/pkg/models"
)

// loadConfig returns defaults when no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// parseBudgetFlag splits a "team:amount" flag value.
func parseBudgetFlag(s string) (string, float64, error) {
	team, amountStr, ok := strings.Cut(s, ":")
	team = strings.TrimSpace(team)
	if !ok || team == "" {
		return "", 0, fmt.Errorf("invalid budget %q (use team:amount, e.g. analytics:500)", s)
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(amountStr), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid budget amount in %q: %w", s, err)
	}
	return team, amount, nil
}

// applyBudgets sets config budgets in sorted team order, then flag
// budgets on top so the command line wins.
func applyBudgets(eng *engine.Engine, cfg *config.Config, flags []string) error {
	teams := make([]string, 0, len(cfg.Budgets))
	for team := range cfg.Budgets {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		eng.SetBudget(team, cfg.Budgets[team])
	}
	for _, f := range flags {
		team, amount, err := parseBudgetFlag(f)
		if err != nil {
			return err
		}
		eng.SetBudget(team, amount)
	}
	return nil
}

func writeBreakdownTable(w io.Writer, label string, rows []models.BreakdownRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tQUERIES\tCREDITS\tCOST\tBYTES\n", strings.ToUpper(label))
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t$%.2f\t%d\n",
			r.Key, r.Queries, formatCredits(r.Credits), r.CostUSD, r.Bytes)
	}
	return tw.Flush()
}

func writeAnomalies(w io.Writer, anomalies []models.Anomaly, limit int) {
	for i, a := range anomalies {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(w, "ANOMALY %s: $%.4f (z=%.2f) [%s]\n", a.QueryID, a.CostUSD, a.ZScore, a.Team)
	}
}

func writeAlerts(w io.Writer, alerts []models.BudgetAlert) {
	for _, a := range alerts {
		fmt.Fprintf(w, "%s %s: $%.2f/$%.2f (%.1f%%)\n", a.Status, a.Team, a.Spent, a.Budget, a.Pct)
	}
}

func writeSummaryReport(w io.Writer, sum models.Summary) error {
	fmt.Fprintf(w, "WareCost report: %d queries analyzed\n", sum.TotalQueries)
	fmt.Fprintf(w, "Total: $%.2f (%s credits)\n\n", sum.TotalCostUSD, formatCredits(sum.TotalCredits))
	if err := writeBreakdownTable(w, "team", sum.ByTeam); err != nil {
		return err
	}
	if len(sum.Anomalies) > 0 {
		fmt.Fprintln(w)
		writeAnomalies(w, sum.Anomalies, 5)
	}
	if len(sum.BudgetAlerts) > 0 {
		fmt.Fprintln(w)
		writeAlerts(w, sum.BudgetAlerts)
	}
	return nil
}

// formatCredits drops trailing zeros (17.9, not 17.9000).
func formatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package main

import (
	"strings"
	"testing"

	"github.com/warecost-io/warecost/pkg/models"
)

func TestParseBudgetFlag(t *testing.T) {
	team, amount, err := parseBudgetFlag("analytics:500")
	if err != nil {
		t.Fatal(err)
	}
	if team != "analytics" || amount != 500 {
		t.Errorf("got %q %v", team, amount)
	}

	team, amount, err = parseBudgetFlag(" ml : 250.5 ")
	if err != nil {
		t.Fatal(err)
	}
	if team != "ml" || amount != 250.5 {
		t.Errorf("got %q %v", team, amount)
	}
}

func TestParseBudgetFlagInvalid(t *testing.T) {
	for _, s := range []string{"analytics", ":500", "analytics:lots", ""} {
		if _, _, err := parseBudgetFlag(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestWriteSummaryReport(t *testing.T) {
	sum := models.Summary{
		TotalQueries: 4,
		TotalCredits: 17.9,
		TotalCostUSD: 53.7,
		ByTeam: []models.BreakdownRow{
			{Key: "analytics", Queries: 2, Credits: 17.5, CostUSD: 52.5, Bytes: 51000},
		},
		BudgetAlerts: []models.BudgetAlert{
			{Team: "analytics", Budget: 50, Spent: 52.5, Pct: 105.0, Status: models.AlertOver},
		},
	}

	var b strings.Builder
	if err := writeSummaryReport(&b, sum); err != nil {
		t.Fatal(err)
	}
	out := b.String()

	if !strings.Contains(out, "4 queries analyzed") {
		t.Errorf("missing totals line:\n%s", out)
	}
	if !strings.Contains(out, "$53.70 (17.9 credits)") {
		t.Errorf("missing cost line:\n%s", out)
	}
	if !strings.Contains(out, "analytics") {
		t.Errorf("missing team row:\n%s", out)
	}
	if !strings.Contains(out, "OVER analytics: $52.50/$50.00 (105.0%)") {
		t.Errorf("missing alert line:\n%s", out)
	}
}

// Package engine holds a batch of normalized query records and per-team
// budgets, and computes grouped cost breakdowns, z-score anomalies,
// budget alerts, and the combined summary. One Engine serves one
// logical request at a time; concurrent callers construct their own.
package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/warecost-io/warecost/pkg/models"
	"github.com/warecost-io/warecost/pkg/normalize"
)

const (
	// DefaultCreditPrice is the per-credit USD conversion rate used
	// when the caller does not supply one.
	DefaultCreditPrice = 3.0

	// DefaultZThreshold is the anomaly cutoff in standard deviations.
	DefaultZThreshold = 2.0

	// minAnomalySample is the smallest batch a standard deviation is
	// computed over.
	minAnomalySample = 3
)

// ErrInvalidDimension marks a breakdown request for a dimension outside
// Dimensions.
var ErrInvalidDimension = errors.New("invalid breakdown dimension")

// Dimensions lists the legal breakdown dimensions.
var Dimensions = []string{"team", "warehouse_name", "dbt_model", "dag_id", "user_name"}

// Engine is the cost attribution engine. The credit price is fixed at
// construction; Load replaces the batch wholesale and budgets persist
// across loads.
type Engine struct {
	creditPrice float64
	queries     []models.QueryRecord
	budgets     map[string]float64
	budgetOrder []string
}

// New creates an Engine with the given per-credit USD price. A zero or
// negative price falls back to DefaultCreditPrice.
func New(creditPrice float64) *Engine {
	if creditPrice <= 0 {
		creditPrice = DefaultCreditPrice
	}
	return &Engine{
		creditPrice: creditPrice,
		budgets:     make(map[string]float64),
	}
}

// Load normalizes the raw batch and replaces the stored one, returning
// the count loaded. The replace is atomic: the whole batch is validated
// into a fresh slice first, so a failed load leaves the previous batch
// intact.
func (e *Engine) Load(raws []normalize.RawRecord) (int, error) {
	records, err := normalize.Batch(raws)
	if err != nil {
		return 0, fmt.Errorf("load batch: %w", err)
	}
	e.queries = records
	return len(records), nil
}

// LoadRecords replaces the batch with already-normalized records.
func (e *Engine) LoadRecords(records []models.QueryRecord) int {
	e.queries = append([]models.QueryRecord(nil), records...)
	return len(e.queries)
}

// SetBudget sets or overwrites the budget limit for a team. Alerts are
// later reported in first-set order.
func (e *Engine) SetBudget(team string, amount float64) {
	if _, ok := e.budgets[team]; !ok {
		e.budgetOrder = append(e.budgetOrder, team)
	}
	e.budgets[team] = amount
}

// dimensionKey returns the accessor for a breakdown dimension.
func dimensionKey(dim string) (func(models.QueryRecord) string, error) {
	switch dim {
	case "team":
		return models.QueryRecord.Team, nil
	case "warehouse_name":
		return func(q models.QueryRecord) string { return q.WarehouseName }, nil
	case "dbt_model":
		return models.QueryRecord.PipelineModel, nil
	case "dag_id":
		return models.QueryRecord.DagID, nil
	case "user_name":
		return func(q models.QueryRecord) string { return q.UserName }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDimension, dim)
	}
}

// Breakdown groups the batch by one attribution dimension. Records with
// an empty attribute land under "unattributed". Rows are ordered by
// descending total credits, ties by first appearance in the batch.
func (e *Engine) Breakdown(dim string) ([]models.BreakdownRow, error) {
	keyOf, err := dimensionKey(dim)
	if err != nil {
		return nil, err
	}

	type group struct {
		queries int
		credits float64
		bytes   int64
	}
	groups := make(map[string]*group)
	var order []string
	for _, q := range e.queries {
		key := keyOf(q)
		if key == "" {
			key = models.Unattributed
		}
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.queries++
		g.credits += q.CreditsUsed
		g.bytes += q.BytesScanned
	}

	rows := make([]models.BreakdownRow, 0, len(order))
	for _, key := range order {
		g := groups[key]
		rows = append(rows, models.BreakdownRow{
			Key:     key,
			Queries: g.queries,
			Credits: round4(g.credits),
			CostUSD: round2(g.credits * e.creditPrice),
			Bytes:   g.bytes,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return groups[rows[i].Key].credits > groups[rows[j].Key].credits
	})
	return rows, nil
}

// Anomalies flags queries whose cost exceeds the batch mean by more
// than zThreshold sample standard deviations, overspend side only.
// Fewer than 3 records or a zero standard deviation yields an empty
// result. Results sort by descending z-score.
func (e *Engine) Anomalies(zThreshold float64) []models.Anomaly {
	if len(e.queries) < minAnomalySample {
		return []models.Anomaly{}
	}

	costs := make([]float64, len(e.queries))
	var sum float64
	for i, q := range e.queries {
		costs[i] = q.CostUSD(e.creditPrice)
		sum += costs[i]
	}
	mean := sum / float64(len(costs))

	var sq float64
	for _, c := range costs {
		sq += (c - mean) * (c - mean)
	}
	sd := math.Sqrt(sq / float64(len(costs)-1))
	if sd == 0 {
		return []models.Anomaly{}
	}

	anomalies := []models.Anomaly{}
	for i, q := range e.queries {
		z := (costs[i] - mean) / sd
		if z <= zThreshold {
			continue
		}
		anomalies = append(anomalies, models.Anomaly{
			QueryID:   q.QueryID,
			CostUSD:   costs[i],
			ZScore:    round2(z),
			Team:      q.Team(),
			Warehouse: q.WarehouseName,
		})
	}
	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].ZScore > anomalies[j].ZScore
	})
	return anomalies
}

// BudgetAlerts evaluates every configured team budget against current
// team spend. A team with no queries counts as zero spend; a limit of
// zero or below reads as 0% rather than dividing by zero. Only teams
// at or past 80% are reported.
func (e *Engine) BudgetAlerts() []models.BudgetAlert {
	spend := make(map[string]float64)
	byTeam, _ := e.Breakdown("team")
	for _, row := range byTeam {
		spend[row.Key] = row.CostUSD
	}

	alerts := []models.BudgetAlert{}
	for _, team := range e.budgetOrder {
		limit := e.budgets[team]
		spent := spend[team]
		pct := 0.0
		if limit > 0 {
			pct = round1(spent / limit * 100)
		}
		if pct < 80 {
			continue
		}
		status := models.AlertWarning
		if pct >= 100 {
			status = models.AlertOver
		}
		alerts = append(alerts, models.BudgetAlert{
			Team:   team,
			Budget: limit,
			Spent:  spent,
			Pct:    pct,
			Status: status,
		})
	}
	return alerts
}

// Summary composes the full analysis view: totals, team and warehouse
// breakdowns, anomalies at the default threshold, and budget alerts.
// It is a pure function of engine state and safe to call repeatedly.
func (e *Engine) Summary() models.Summary {
	var credits float64
	for _, q := range e.queries {
		credits += q.CreditsUsed
	}
	byTeam, _ := e.Breakdown("team")
	byWarehouse, _ := e.Breakdown("warehouse_name")
	return models.Summary{
		TotalQueries: len(e.queries),
		TotalCredits: round4(credits),
		TotalCostUSD: round2(credits * e.creditPrice),
		ByTeam:       byTeam,
		ByWarehouse:  byWarehouse,
		Anomalies:    e.Anomalies(DefaultZThreshold),
		BudgetAlerts: e.BudgetAlerts(),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

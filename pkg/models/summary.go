package models

// Summary is the composed analysis view over a loaded batch: totals,
// the team and warehouse breakdowns, anomalies at the default
// threshold, and all current budget alerts.
type Summary struct {
	TotalQueries int            `json:"total_queries"`
	TotalCredits float64        `json:"total_credits"`
	TotalCostUSD float64        `json:"total_cost_usd"`
	ByTeam       []BreakdownRow `json:"by_team"`
	ByWarehouse  []BreakdownRow `json:"by_warehouse"`
	Anomalies    []Anomaly      `json:"anomalies"`
	BudgetAlerts []BudgetAlert  `json:"budget_alerts"`
}

// AnalyzeRequest is the payload every analysis endpoint accepts: a raw
// query batch plus optional budgets and tuning knobs. Zero-valued
// knobs fall back to engine defaults.
type AnalyzeRequest struct {
	Queries     []map[string]any   `json:"queries"`
	Budgets     map[string]float64 `json:"budgets,omitempty"`
	ZThreshold  float64            `json:"z_threshold,omitempty"`
	CreditPrice float64            `json:"credit_price,omitempty"`
}

package models

// BreakdownRow is one group's aggregates within a breakdown.
type BreakdownRow struct {
	Key     string  `json:"key"`
	Queries int     `json:"queries"`
	Credits float64 `json:"credits"`
	CostUSD float64 `json:"cost_usd"`
	Bytes   int64   `json:"bytes"`
}

// Breakdown is the batch grouped by one attribution dimension,
// ordered by descending total credits.
type Breakdown struct {
	Dimension string         `json:"dimension"`
	Rows      []BreakdownRow `json:"breakdown"`
}

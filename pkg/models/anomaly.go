package models

// Anomaly is a query whose cost sits more than a configured number of
// standard deviations above the batch mean.
type Anomaly struct {
	QueryID   string  `json:"query_id"`
	CostUSD   float64 `json:"cost_usd"`
	ZScore    float64 `json:"z_score"`
	Team      string  `json:"team"`
	Warehouse string  `json:"warehouse"`
}

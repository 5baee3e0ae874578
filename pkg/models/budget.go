package models

// Alert statuses. A team reaching 100% of its budget is OVER; a team
// at or past 80% but under 100% is WARNING.
const (
	AlertOver    = "OVER"
	AlertWarning = "WARNING"
)

// BudgetAlert reports a team whose attributed spend has reached the
// warning threshold of its configured budget.
type BudgetAlert struct {
	Team   string  `json:"team"`
	Budget float64 `json:"budget"`
	Spent  float64 `json:"spent"`
	Pct    float64 `json:"pct"`
	Status string  `json:"status"`
}

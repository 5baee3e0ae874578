package models

import (
	"math"
	"strings"
)

// Unattributed is the fallback group key for records whose ownership
// cannot be determined from tags or the user name.
const Unattributed = "unattributed"

// QueryRecord is a single normalized warehouse query observation.
// It is immutable once constructed; the attribution accessors below
// are pure functions of its fields.
type QueryRecord struct {
	QueryID         string  `json:"query_id"`
	QueryText       string  `json:"query_text"`
	UserName        string  `json:"user_name"`
	WarehouseName   string  `json:"warehouse_name"`
	CreditsUsed     float64 `json:"credits_used"`
	BytesScanned    int64   `json:"bytes_scanned"`
	ExecutionTimeMS int64   `json:"execution_time_ms"`
	StartTime       string  `json:"start_time"`
	QueryTag        string  `json:"query_tag,omitempty"`
}

// tagValues parses the query tag into a key/value map. The tag is a
// `;`-separated list of `key=value` or `key:value` tokens; each token
// is split once on the first `=` or `:` and both sides are trimmed.
// Malformed tokens are skipped rather than rejected.
func (q QueryRecord) tagValues() map[string]string {
	vals := make(map[string]string)
	for _, tok := range strings.Split(q.QueryTag, ";") {
		i := strings.IndexAny(tok, "=:")
		if i < 0 {
			continue
		}
		key := strings.TrimSpace(tok[:i])
		val := strings.TrimSpace(tok[i+1:])
		if key == "" || val == "" {
			continue
		}
		if _, ok := vals[key]; !ok {
			vals[key] = val
		}
	}
	return vals
}

// Team returns the owning team: the `team` tag if present, otherwise
// the user-name prefix before the first underscore, otherwise
// Unattributed.
func (q QueryRecord) Team() string {
	if team := q.tagValues()["team"]; team != "" {
		return team
	}
	if i := strings.Index(q.UserName, "_"); i >= 0 {
		return q.UserName[:i]
	}
	return Unattributed
}

// PipelineModel returns the dbt model attribution from the `dbt` tag,
// falling back to the `model` tag. The `dbt` key wins when both are
// present. Empty when neither is set.
func (q QueryRecord) PipelineModel() string {
	vals := q.tagValues()
	if m := vals["dbt"]; m != "" {
		return m
	}
	return vals["model"]
}

// DagID returns the orchestration pipeline attribution from the `dag`
// tag, or empty when absent.
func (q QueryRecord) DagID() string {
	return q.tagValues()["dag"]
}

// CostUSD converts the record's credits to currency at the given
// per-credit price, rounded to 4 decimal places.
func (q QueryRecord) CostUSD(creditPrice float64) float64 {
	return math.Round(q.CreditsUsed*creditPrice*10000) / 10000
}

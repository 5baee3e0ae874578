// Package normalize converts raw, JSON-object-shaped query observations
// into typed records, hard-validating the required fields. Tag parsing
// stays tolerant: ownership attribution falls back rather than failing.
package normalize

import (
	"errors"
	"fmt"

	"github.com/warecost-io/warecost/pkg/models"
)

// ErrValidation marks a raw record that is missing a required field or
// carries an incompatible type. Errors returned by Record and Batch
// wrap it.
var ErrValidation = errors.New("invalid query record")

// RawRecord is one unvalidated query observation as decoded from JSON.
type RawRecord = map[string]any

// required observation fields; query_tag is optional.
var requiredFields = []string{
	"query_id", "query_text", "user_name", "warehouse_name",
	"credits_used", "bytes_scanned", "execution_time_ms", "start_time",
}

// Record validates a raw record and builds a QueryRecord. A missing or
// ill-typed required field yields an error wrapping ErrValidation;
// unknown fields are rejected the same way.
func Record(raw RawRecord) (models.QueryRecord, error) {
	var rec models.QueryRecord

	for _, f := range requiredFields {
		if _, ok := raw[f]; !ok {
			return rec, fmt.Errorf("%w: missing field %q", ErrValidation, f)
		}
	}
	for f := range raw {
		if !knownField(f) {
			return rec, fmt.Errorf("%w: unknown field %q", ErrValidation, f)
		}
	}

	var err error
	if rec.QueryID, err = stringField(raw, "query_id"); err != nil {
		return rec, err
	}
	if rec.QueryText, err = stringField(raw, "query_text"); err != nil {
		return rec, err
	}
	if rec.UserName, err = stringField(raw, "user_name"); err != nil {
		return rec, err
	}
	if rec.WarehouseName, err = stringField(raw, "warehouse_name"); err != nil {
		return rec, err
	}
	if rec.CreditsUsed, err = numberField(raw, "credits_used"); err != nil {
		return rec, err
	}
	if rec.BytesScanned, err = intField(raw, "bytes_scanned"); err != nil {
		return rec, err
	}
	if rec.ExecutionTimeMS, err = intField(raw, "execution_time_ms"); err != nil {
		return rec, err
	}
	if rec.StartTime, err = stringField(raw, "start_time"); err != nil {
		return rec, err
	}

	if tag, ok := raw["query_tag"]; ok {
		s, isStr := tag.(string)
		if !isStr {
			return rec, fmt.Errorf("%w: field %q must be a string", ErrValidation, "query_tag")
		}
		rec.QueryTag = s
	}

	return rec, nil
}

// Batch validates every raw record before returning; the first invalid
// record aborts the whole batch with its index in the error.
func Batch(raws []RawRecord) ([]models.QueryRecord, error) {
	records := make([]models.QueryRecord, 0, len(raws))
	for i, raw := range raws {
		rec, err := Record(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func knownField(name string) bool {
	if name == "query_tag" {
		return true
	}
	for _, f := range requiredFields {
		if f == name {
			return true
		}
	}
	return false
}

func stringField(raw RawRecord, name string) (string, error) {
	s, ok := raw[name].(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q must be a string", ErrValidation, name)
	}
	return s, nil
}

// numberField accepts any JSON numeric representation. encoding/json
// decodes numbers in a map[string]any as float64; int shows up from
// records built in Go code.
func numberField(raw RawRecord, name string) (float64, error) {
	switch v := raw[name].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: field %q must be a number", ErrValidation, name)
	}
}

func intField(raw RawRecord, name string) (int64, error) {
	switch v := raw[name].(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("%w: field %q must be an integer", ErrValidation, name)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: field %q must be an integer", ErrValidation, name)
	}
}

package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/warecost-io/warecost/pkg/engine"
	"github.com/warecost-io/warecost/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history_test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRecord(id string, credits float64) models.QueryRecord {
	return models.QueryRecord{
		QueryID:         id,
		QueryText:       "SELECT 1",
		UserName:        "ml_alice",
		WarehouseName:   "COMPUTE_WH",
		CreditsUsed:     credits,
		BytesScanned:    1024,
		ExecutionTimeMS: 120,
		StartTime:       "2026-08-01T10:00:00Z",
		QueryTag:        "team=analytics",
	}
}

func TestInsertAndQueries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Insert(ctx, testRecord("q1", 2.5)); err != nil {
		t.Fatal(err)
	}
	later := testRecord("q2", 0.3)
	later.StartTime = "2026-08-01T11:00:00Z"
	if err := store.Insert(ctx, later); err != nil {
		t.Fatal(err)
	}

	raws, err := store.Queries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 records, got %d", len(raws))
	}
	if raws[0]["query_id"] != "q1" {
		t.Errorf("expected q1, got %v", raws[0]["query_id"])
	}
	if raws[0]["query_tag"] != "team=analytics" {
		t.Errorf("expected tag, got %v", raws[0]["query_tag"])
	}
}

func TestInsertReplacesDuplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Insert(ctx, testRecord("q1", 2.5)); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, testRecord("q1", 9.0)); err != nil {
		t.Fatal(err)
	}

	raws, err := store.Queries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 1 {
		t.Fatalf("expected 1 record, got %d", len(raws))
	}
	if raws[0]["credits_used"] != 9.0 {
		t.Errorf("expected 9.0 credits, got %v", raws[0]["credits_used"])
	}
}

// Rows read back from the store must pass the same normalizer the
// JSON path uses.
func TestQueriesFeedEngine(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, rec := range []models.QueryRecord{testRecord("q1", 2.5), testRecord("q2", 0.3)} {
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	raws, err := store.Queries(ctx)
	if err != nil {
		t.Fatal(err)
	}

	eng := engine.New(3.0)
	n, err := eng.Load(raws)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 loaded, got %d", n)
	}
	if sum := eng.Summary(); sum.TotalCostUSD != 8.4 {
		t.Errorf("expected cost 8.4, got %v", sum.TotalCostUSD)
	}
}

func TestLoadJSON(t *testing.T) {
	batch := []map[string]any{
		{
			"query_id":          "q1",
			"query_text":        "SELECT 1",
			"user_name":         "bob",
			"warehouse_name":    "WH",
			"credits_used":      1.5,
			"bytes_scanned":     10,
			"execution_time_ms": 100,
			"start_time":        "2026-08-01T10:00:00Z",
		},
	}
	data, err := json.Marshal(batch)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "batch.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	raws, err := LoadJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 1 {
		t.Fatalf("expected 1 record, got %d", len(raws))
	}
	if raws[0]["credits_used"] != 1.5 {
		t.Errorf("expected 1.5 credits, got %v", raws[0]["credits_used"])
	}
}

func TestLoadJSONMissing(t *testing.T) {
	if _, err := LoadJSON("/nonexistent/batch.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadJSON(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

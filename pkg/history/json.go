package history

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/warecost-io/warecost/pkg/normalize"
)

// LoadJSON reads a JSON array of raw query records from a file.
func LoadJSON(path string) ([]normalize.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var raws []normalize.RawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	return raws, nil
}

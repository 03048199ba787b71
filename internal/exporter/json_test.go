package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.json")
	report := sampleReport(t)

	require.NoError(t, SaveJSON(path, Summary{Report: report, Profile: sampleProfile()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "report")
	assert.Contains(t, decoded, "profile")
	assert.NotContains(t, decoded, "load")
	assert.Contains(t, decoded, "version")

	r := decoded["report"].(map[string]any)
	assert.Equal(t, report.RunID, r["run_id"])
	weekday := r["weekday_volume"].(map[string]any)
	assert.Equal(t, "Wednesday", weekday["highest"])
	days := weekday["days"].([]any)
	require.Len(t, days, 5)
	assert.Equal(t, map[string]any{"weekday": "Monday", "volume": float64(3000)}, days[0])
	assert.Equal(t, map[string]any{"weekday": "Friday", "volume": nil}, days[4])
	assert.Contains(t, string(data), `"weekday": "Monday"`)

	entries, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	assert.Empty(t, entries)
}

func TestSaveJSON_Unmarshalable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")

	err := SaveJSON(path, map[string]any{"f": func() {}})

	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	log := NewIsolatedLogger(path)

	log.Debug("Audit", "below threshold", nil)
	log.Info("Audit", "User added", map[string]interface{}{"id": "42"})
	log.Error("Audit", "Bad event", map[string]interface{}{"error": "boom"})
	require.NoError(t, log.Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "User added", lines[0]["message"])
	assert.Equal(t, "Audit", lines[0]["module"])
	assert.Equal(t, map[string]interface{}{"id": "42"}, lines[0]["details"])
	assert.NotContains(t, lines[0], "error_ref")

	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error_ref"])
}

func TestNopLogger_AcceptsNilDetails(t *testing.T) {
	log := NewNopLogger()

	assert.NotPanics(t, func() {
		log.Info("Test", "nothing", nil)
		log.Warn("Test", "nothing", nil)
	})
	assert.NoError(t, log.Sync())
}

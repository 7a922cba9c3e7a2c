package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runCrossCheck(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"-log-level", "error", "-offline"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_AgreeingReport(t *testing.T) {
	path := writeCSV(t, "npa,set,location\n206,all,Washington\n800,tollfree\n416,canadian,Ontario\n")

	code, out, _ := runCrossCheck(t, "-csv", path)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "No discrepancies.")
	assert.Contains(t, out, "csv")
	assert.NotContains(t, out, "libphonenumber", "libphonenumber only runs when asked for")
}

func TestRun_Discrepancies(t *testing.T) {
	path := writeCSV(t, "# local additions\n206,tollfree\n")

	code, out, _ := runCrossCheck(t, "-csv", path)
	assert.Equal(t, exitDiscrepancy, code)
	assert.Contains(t, out, "missing_from_table")

	code, out, _ = runCrossCheck(t, "-format", "json", "-csv", path)
	require.Equal(t, exitDiscrepancy, code)
	var result struct {
		Discrepancies []struct {
			Code int    `json:"code"`
			Set  string `json:"set"`
			Kind string `json:"kind"`
		} `json:"discrepancies"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, 206, result.Discrepancies[0].Code)
	assert.Equal(t, "tollfree", result.Discrepancies[0].Set)
}

func TestRun_Errors(t *testing.T) {
	code, _, stderr := runCrossCheck(t)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "no cross-check sources configured")

	code, _, stderr = runCrossCheck(t, "-format", "xml")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "unknown format")

	code, _, _ = runCrossCheck(t, "-csv", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Equal(t, exitError, code, "a missing report file fails configuration validation")
}

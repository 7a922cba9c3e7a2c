package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Extract(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{
			name: "arguments",
			args: []string{"Call 206-858-9310 or (800) 576-4377 today"},
			want: "2068589310\n8005764377\n",
		},
		{
			name: "explicit mode",
			args: []string{"extract", "206.858.9310"},
			want: "2068589310\n",
		},
		{
			name:  "stdin",
			stdin: "first 2068589310\nsecond 800 576 4377\n",
			want:  "2068589310\n8005764377\n",
		},
		{
			name: "nothing found",
			args: []string{"no numbers here"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := runCLI(t, tt.stdin, tt.args...)
			assert.Equal(t, 0, code)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRun_ExtractJSON(t *testing.T) {
	code, out, _ := runCLI(t, "", "-format", "json", "-source", "sms", "206-858-9310")
	require.Equal(t, 0, code)

	var resp struct {
		Source        string   `json:"source"`
		DialedNumbers []string `json:"dialed_numbers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "sms", resp.Source)
	assert.Equal(t, []string{"2068589310"}, resp.DialedNumbers)
}

func TestRun_Validate(t *testing.T) {
	code, out, _ := runCLI(t, "", "validate", "2068589310", "1800KROGERS")
	assert.Equal(t, 0, code)
	assert.Equal(t, "2068589310\ttrue\n1800KROGERS\ttrue\n", out)

	code, out, _ = runCLI(t, "2068589310\n\nppboinine\n", "validate")
	assert.Equal(t, exitInvalid, code)
	assert.Equal(t, "2068589310\ttrue\nppboinine\tfalse\n", out)
}

func TestRun_Parse(t *testing.T) {
	code, out, _ := runCLI(t, "", "parse", "8005764377")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"DialedNumber":"8005764377"`)
	assert.Contains(t, out, `"Type":"Tollfree"`)

	code, out, _ = runCLI(t, "", "parse", "ppboinine")
	assert.Equal(t, exitInvalid, code)
	assert.Equal(t, "ppboinine\tinvalid\n", out)
}

func TestRun_AreaCode(t *testing.T) {
	code, out, _ := runCLI(t, "", "areacode", "206")
	require.Equal(t, 0, code)
	assert.Equal(t, "206\tvalid=true\ttype=Local\tstate=WA\n", out)

	code, _, stderr := runCLI(t, "", "areacode", "20")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stderr, "INVALID_AREA_CODE")
}

func TestRun_StatesYAML(t *testing.T) {
	code, out, _ := runCLI(t, "", "-format", "yaml", "states")
	require.Equal(t, 0, code)

	var states []struct {
		Name         string `yaml:"name"`
		Abbreviation string `yaml:"abbreviation"`
		AreaCodes    []int  `yaml:"area_codes"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &states))
	assert.Len(t, states, 51)
	assert.Equal(t, "Alabama", states[0].Name)
	assert.Contains(t, states[0].AreaCodes, 205)
}

func TestRun_BadFlags(t *testing.T) {
	code, _, stderr := runCLI(t, "", "-format", "xml", "states")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown format")

	code, _, _ = runCLI(t, "", "-nope")
	assert.Equal(t, 2, code)
}

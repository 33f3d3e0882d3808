package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `{
    "keys": {"n": 4, "k": 3},
    "1": {"base": "10", "value": "4"},
    "2": {"base": "2", "value": "111"},
    "3": {"base": "10", "value": "12"},
    "6": {"base": "4", "value": "213"}
}`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	input := writeInput(t, "input.json", sampleRecord)

	t.Run("prints decimal secret", func(t *testing.T) {
		code, stdout, _ := runCLI(t, input)
		assert.Equal(t, exitOK, code)
		assert.Equal(t, "3\n", stdout)
	})

	t.Run("output base", func(t *testing.T) {
		code, stdout, _ := runCLI(t, "-base", "2", input)
		assert.Equal(t, exitOK, code)
		assert.Equal(t, "11\n", stdout)
	})

	t.Run("small prime", func(t *testing.T) {
		small := writeInput(t, "small.json", `{"keys": {"n": 3, "k": 2}, "2": {"base": "10", "value": "13"}, "3": {"base": "10", "value": "1"}}`)

		code, stdout, _ := runCLI(t, "-prime", "17", small)
		assert.Equal(t, exitOK, code)
		assert.Equal(t, "3\n", stdout)
	})

	t.Run("several inputs", func(t *testing.T) {
		other := writeInput(t, "other.yaml", "keys: {n: 1, k: 1}\n\"1\": {base: \"10\", value: \"42\"}\n")

		code, stdout, _ := runCLI(t, input, other)
		assert.Equal(t, exitOK, code)
		assert.Equal(t, input+": 3\n"+other+": 42\n", stdout)
	})

	t.Run("logs go to stderr", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, "-log-level", "debug", "-log-format", "json", "-verify", input)
		assert.Equal(t, exitOK, code)
		assert.Equal(t, "3\n", stdout)
		assert.Contains(t, stderr, "reconstructed secret")
		assert.Contains(t, stderr, "verified shares")
	})

	t.Run("config file", func(t *testing.T) {
		conf := writeInput(t, "config.yaml", "output_base: 16\nlogger:\n  level: error\n")
		big := writeInput(t, "big.json", `{"keys": {"n": 1, "k": 1}, "1": {"base": "10", "value": "255"}}`)

		code, stdout, stderr := runCLI(t, "-config", conf, big)
		assert.Equal(t, exitOK, code)
		assert.Equal(t, "ff\n", stdout)
		assert.Empty(t, stderr)
	})
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		code    int
		stderr  string
	}{
		{
			name:    "invalid digit",
			content: `{"keys": {"n": 2, "k": 2}, "1": {"base": "2", "value": "12"}, "2": {"base": "10", "value": "1"}}`,
			code:    exitFail,
			stderr:  "invalid digit",
		},
		{
			name:    "malformed input",
			content: `{"1": {"base": "2", "value": "1"}}`,
			code:    exitFail,
			stderr:  "malformed input",
		},
		{
			name:    "insufficient shares",
			content: `{"keys": {"n": 3, "k": 3}, "1": {"base": "10", "value": "1"}}`,
			code:    exitFail,
			stderr:  "insufficient shares",
		},
		{
			name:    "composite prime",
			content: sampleRecord,
			args:    []string{"-prime", "100"},
			code:    exitFail,
			stderr:  "prime",
		},
		{
			name:    "bad output base",
			content: sampleRecord,
			args:    []string{"-base", "40"},
			code:    exitFail,
			stderr:  "output_base",
		},
		{
			name:    "unknown flag",
			content: sampleRecord,
			args:    []string{"-nope"},
			code:    exitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeInput(t, "input.json", tt.content)

			code, stdout, stderr := runCLI(t, append(tt.args, input)...)
			assert.Equal(t, tt.code, code)
			assert.Empty(t, stdout)

			if tt.stderr != "" {
				assert.Contains(t, strings.ToLower(stderr), tt.stderr)
			}
		})
	}

	t.Run("no arguments", func(t *testing.T) {
		code, stdout, stderr := runCLI(t)
		assert.Equal(t, exitUsage, code)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "usage")
	})

	t.Run("missing input", func(t *testing.T) {
		code, _, _ := runCLI(t, filepath.Join(t.TempDir(), "missing.json"))
		assert.Equal(t, exitFail, code)
	})

	t.Run("help", func(t *testing.T) {
		code, _, _ := runCLI(t, "-h")
		assert.Equal(t, exitOK, code)
	})
}

// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTokensCommand(t *testing.T) {
	path := writeInput(t, "a: 1\n")
	cmd := newTokensCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "BLOCK_MAPPING_START_TOKEN")
	assert.Contains(t, out.String(), "SCALAR_TOKEN \"a\"")
	assert.Contains(t, out.String(), "STREAM_END_TOKEN")
}

func TestEventsCommand(t *testing.T) {
	path := writeInput(t, "- x\n")
	cmd := newEventsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "sequence start")
	assert.Contains(t, out.String(), "\"x\"")
	assert.Contains(t, out.String(), "stream end")
}

func TestFmtCommand(t *testing.T) {
	path := writeInput(t, "a:   [1,    2]\nb:    c\n")
	cmd := newFmtCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "a: [1, 2]\nb: c\n", out.String())
}

func TestFmtCommandFlow(t *testing.T) {
	path := writeInput(t, "a: 1\n")
	cmd := newFmtCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--flow", path})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "{a: 1}\n", out.String())
}

func TestJSONCommand(t *testing.T) {
	path := writeInput(t, "a: [1, two]\nb: true\n")
	cmd := newJSONCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--compact", path})
	require.NoError(t, cmd.Execute())
	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, map[string]any{
		"a": []any{float64(1), "two"},
		"b": true,
	}, got)
}

func TestFmtCommandBadInput(t *testing.T) {
	path := writeInput(t, "a: [1, 2\n")
	cmd := newFmtCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	assert.Error(t, cmd.Execute())
}

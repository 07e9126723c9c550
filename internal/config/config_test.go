// Copyright (c) 2024 The treereduce developers

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
jobs: 4
min_reduction: 2
passes: 10
fast: true
replacements:
  - kind: number_literal
    with: "0"
  - kind: number_literal
    with: "1"
  - kind: string_literal
    with: '""'
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadParsesScalarFields(t *testing.T) {
	path := writeTemp(t, sampleYAML)

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, f.Jobs)
	assert.Equal(t, 2, f.MinReduction)
	assert.Equal(t, 10, f.Passes)
	assert.True(t, f.Fast)
	assert.False(t, f.Slow)
}

func TestReplacementTableGroupsByKind(t *testing.T) {
	path := writeTemp(t, sampleYAML)

	f, err := Load(path)
	require.NoError(t, err)

	table := f.ReplacementTable()
	require.Len(t, table["number_literal"], 2)
	assert.Equal(t, []byte("0"), table["number_literal"][0])
	assert.Equal(t, []byte("1"), table["number_literal"][1])
	require.Len(t, table["string_literal"], 1)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := writeTemp(t, "not: [valid: yaml")
	_, err := Load(path)
	assert.Error(t, err)
}

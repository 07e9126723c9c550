// Copyright (c) 2024 The treereduce developers

package treesitter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Adapter.Parse exercises the real cgo tree-sitter C grammar binding and is
// not covered here: it has no pure-Go fake to substitute, and driving it
// would require the compiled grammar to be present in the test environment.
// LoadNodeTypesFile (pure Go) and C (which only fetches the compiled
// grammar handle, without parsing) are covered below.

func TestLoadNodeTypesFileParsesSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node-types.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"type":"translation_unit","named":true,"children":{"multiple":true,"required":false,"types":[{"type":"declaration","named":true}]}}
	]`), 0o644))

	nt, err := LoadNodeTypesFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"declaration"}, nt.ListTypes("translation_unit"))
}

func TestLoadNodeTypesFileRejectsMissingFile(t *testing.T) {
	_, err := LoadNodeTypesFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCBindsNodeTypesIntoGrammar(t *testing.T) {
	nt, err := LoadNodeTypesFile(writeMinimalSchema(t))
	require.NoError(t, err)

	g := C(nt)
	assert.Equal(t, "c", g.Name)
	assert.NotNil(t, g.Language)
}

func writeMinimalSchema(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "node-types.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))
	return path
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDocument_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"taxYear": 2020}`), 0o600))

	data, err := readDocument(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"taxYear": 2020}`, string(data))
}

func TestReadDocument_MissingFile(t *testing.T) {
	data, err := readDocument("/nonexistent/doc.json")
	assert.Nil(t, data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read document file")
}

func TestIngestCmd_Metadata(t *testing.T) {
	assert.Equal(t, "ingest <case-ref> <source-type> <file>", ingestCmd.Use)
	assert.NotEmpty(t, ingestCmd.Short)
	assert.NotEmpty(t, ingestCmd.Long)
}

func TestMigrateCmd_Metadata(t *testing.T) {
	assert.Equal(t, "migrate", migrateCmd.Use)
	assert.NotEmpty(t, migrateCmd.Short)
}

func TestExportCmd_Metadata(t *testing.T) {
	assert.Equal(t, "export <case-ref>", exportCmd.Use)
	assert.NotEmpty(t, exportCmd.Short)
}

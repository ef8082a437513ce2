package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tax/caseflow/internal/calc"
	"github.com/meridian-tax/caseflow/internal/config"
)

func TestInitStore_SQLite(t *testing.T) {
	tmpDir := t.TempDir()
	dsn := filepath.Join(tmpDir, "test.db")

	cfg = &config.Config{
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: dsn,
		},
	}

	st, err := initStore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st)
	defer st.Close() //nolint:errcheck
}

func TestInitStore_SQLiteDefaultDSN(t *testing.T) {
	// When DatabaseURL is empty, initStore should default to "caseflow.db".
	// Run in a temp dir so we don't create files in the project root.
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(origDir) //nolint:errcheck

	cfg = &config.Config{
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: "",
		},
	}

	st, err := initStore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st)
	defer st.Close() //nolint:errcheck

	// Verify the default file was created.
	_, statErr := os.Stat(filepath.Join(tmpDir, "caseflow.db"))
	assert.NoError(t, statErr)
}

func TestInitStore_UnknownDriver(t *testing.T) {
	cfg = &config.Config{
		Store: config.StoreConfig{
			Driver: "mysql",
		},
	}

	st, err := initStore(context.Background())
	assert.Nil(t, st)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestOpenStore_ValidatesConfig(t *testing.T) {
	cfg = &config.Config{
		Store: config.StoreConfig{Driver: "postgres"},
		Calc:  config.CalcConfig{CSEDFallback: "current_date"},
	}

	st, err := openStore(context.Background(), "pipeline")
	assert.Nil(t, st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")
}

func TestOpenStore_MigratesSQLite(t *testing.T) {
	cfg = &config.Config{
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(t.TempDir(), "test.db"),
		},
		Calc: config.CalcConfig{CSEDFallback: "current_date"},
	}

	st, err := openStore(context.Background(), "pipeline")
	require.NoError(t, err)
	require.NotNil(t, st)
	defer st.Close() //nolint:errcheck

	// Migrations ran, so a query against a pipeline table works.
	_, err = st.CountRecordsByStatus(context.Background())
	assert.NoError(t, err)
}

func TestLoadCatalog_Embedded(t *testing.T) {
	cfg = &config.Config{}

	cat, err := loadCatalog()
	require.NoError(t, err)
	require.NotNil(t, cat)

	// The embedded rules classify the return-filed transaction code.
	rule := cat.Transaction("150")
	assert.True(t, rule.Known)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	cfg = &config.Config{
		Lookup: config.LookupConfig{RulesPath: "/nonexistent/rules.yaml"},
	}

	cat, err := loadCatalog()
	assert.Nil(t, cat)
	assert.Error(t, err)
}

func TestStatuteOptions_Mapping(t *testing.T) {
	cfg = &config.Config{Calc: config.CalcConfig{CSEDFallback: "skip"}}
	assert.Equal(t, calc.FallbackSkip, statuteOptions().Fallback)

	cfg = &config.Config{Calc: config.CalcConfig{CSEDFallback: "current_date"}}
	assert.Equal(t, calc.FallbackCurrentDate, statuteOptions().Fallback)
}

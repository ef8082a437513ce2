package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"serve", "ingest", "replay", "status", "summary", "export", "migrate"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "caseflow", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestReplayCommand_Flags(t *testing.T) {
	for _, name := range []string{"source", "case", "status", "limit", "workers"} {
		require.NotNil(t, replayCmd.Flags().Lookup(name), "replay command should have --%s flag", name)
	}

	assert.Equal(t, "4", replayCmd.Flags().Lookup("workers").DefValue)
	assert.Equal(t, "0", replayCmd.Flags().Lookup("limit").DefValue)
}

func TestSummaryCommand_Flags(t *testing.T) {
	flag := summaryCmd.Flags().Lookup("json")
	require.NotNil(t, flag, "summary command should have --json flag")
	assert.Equal(t, "false", flag.DefValue)
}

func TestExportCommand_Flags(t *testing.T) {
	flag := exportCmd.Flags().Lookup("output")
	require.NotNil(t, flag, "export command should have --output flag")
	assert.Equal(t, "o", flag.Shorthand)
}

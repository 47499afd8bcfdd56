package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"run", "batch", "serve", "customers", "sessions", "feedback", "import", "seed"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "agent-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRunCommand_Flags(t *testing.T) {
	flag := runCmd.Flags().Lookup("customer")
	require.NotNil(t, flag, "run command should have --customer flag")

	noSave := runCmd.Flags().Lookup("no-save")
	require.NotNil(t, noSave, "run command should have --no-save flag")
	assert.Equal(t, "false", noSave.DefValue)
}

func TestBatchCommand_Flags(t *testing.T) {
	flag := batchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "batch command should have --limit flag")
	assert.Equal(t, "100", flag.DefValue)

	for _, name := range []string{"profession", "sector", "location"} {
		assert.NotNil(t, batchCmd.Flags().Lookup(name), "batch command should have --%s flag", name)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestCustomersCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range customersCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["show"])
}

func TestFeedbackCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range feedbackCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["submit"])
	assert.True(t, names["list"])
	assert.True(t, names["stats"])
}

func TestImportCommand_Flags(t *testing.T) {
	require.NotNil(t, importCmd.Flags().Lookup("xlsx"))
	require.NotNil(t, importCmd.Flags().Lookup("out"))
}

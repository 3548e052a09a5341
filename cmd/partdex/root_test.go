package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := createNewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandShowsHelp(t *testing.T) {
	t.Parallel()

	output, err := executeCommand(t)
	require.NoError(t, err)
	assert.Contains(t, output, "partdex")
	assert.Contains(t, output, "Available Commands")
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := createNewRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, expected := range []string{"sheets", "lookup", "search", "parts", "stats", "config"} {
		assert.True(t, names[expected], "missing subcommand %s", expected)
	}
}

func TestRootCommandHasConfigFlag(t *testing.T) {
	t.Parallel()

	cmd := createNewRootCommand()
	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestLookupCommandRequiresFile(t *testing.T) {
	t.Parallel()

	_, err := executeCommand(t, "lookup")
	require.Error(t, err)
}

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand()
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"analyze", "train", "list", "get", "stats", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommand_Help(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "funding agreements")
	assert.Contains(t, out, "analyze")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "agreemshield")
	assert.Contains(t, out, "commit:")
	assert.Contains(t, out, "go version:")
}

func TestGetCommand_RejectsMalformedID(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "get", "not-a-uuid")
	require.Error(t, err)
}

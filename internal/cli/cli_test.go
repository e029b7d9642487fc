package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "queryflow v")
}

func TestExecCommand_SQLiteInMemory(t *testing.T) {
	out, err := runCommand(t, "exec", "SELECT 1 AS n", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"n": 1`)
}

func TestExecCommand_TableOutput(t *testing.T) {
	out, err := runCommand(t, "exec", "SELECT 'ada' AS name")
	require.NoError(t, err)
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "ada")
	assert.Contains(t, out, "(1 rows)")
}

func TestExecCommand_EmptyStatement(t *testing.T) {
	_, err := runCommand(t, "exec", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SQL statement")
}

func TestExecCommand_BadDriver(t *testing.T) {
	_, err := runCommand(t, "exec", "SELECT 1", "--database.driver", "oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database driver")
}

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	require.NoError(t, root.Execute())

	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := runCommand(t, "", "version")
	assert.Equal(t, "dev\n", out)
}

func TestDemoCommand(t *testing.T) {
	out := runCommand(t, "", "demo")

	assert.Contains(t, out, "Switched to new scope 'review' (from 'main')")
	assert.Contains(t, out, "Found bug: unescaped quotes break the tokenizer")
	assert.Contains(t, out, "Notes for scope 'review':")
}

func TestReplCommand(t *testing.T) {
	stdin := strings.Join([]string{
		`scope research -m "dig in"`,
		"scopes",
		"bogus input",
		"exit",
	}, "\n")

	out := runCommand(t, stdin, "repl")

	assert.Contains(t, out, "(main) ctx>")
	assert.Contains(t, out, "(research) ctx>")
	assert.Contains(t, out, "Switched to new scope 'research' (from 'main')")
	assert.Contains(t, out, "error:")
}

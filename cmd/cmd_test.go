// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig drops a minimal config file into a temp dir and returns
// its path.
func writeTestConfig(t *testing.T) string {
	t.Helper()

	const raw = `
logger:
  level: error
  format: console
modules:
  echo:
    suffix: "!"
pipelines:
  greet: [echo]
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	return path
}

// execute runs a fresh command tree and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRunCommandGreet(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := execute(t, "--config", cfgPath, "run", "greet", "--input", `{"text":"hi"}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"result": "hi!"`)
}

func TestRunCommandInputFile(t *testing.T) {
	cfgPath := writeTestConfig(t)

	inputPath := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(inputPath, []byte(`{"text":"from file"}`), 0o644))

	out, err := execute(t, "--config", cfgPath, "run", "greet", "--input-file", inputPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"result": "from file!"`)
}

func TestRunCommandUnknownPipeline(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := execute(t, "--config", cfgPath, "run", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestRunCommandRejectsBadInput(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := execute(t, "--config", cfgPath, "run", "greet", "--input", "{not json")
	assert.Error(t, err)
}

func TestPipelinesCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := execute(t, "--config", cfgPath, "pipelines")
	require.NoError(t, err)
	assert.Contains(t, out, "greet: echo")
	assert.Contains(t, out, "echo")
	assert.Contains(t, out, "httpfetch")
}

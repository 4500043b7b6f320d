// File: internal/modules/echo/echo_test.go
package echo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/conduit/api/schemas"
)

func newEcho(t *testing.T, config map[string]any) schemas.Module {
	t.Helper()
	m := New("echo", config)
	require.NoError(t, m.Initialize())
	return m
}

func TestEchoDefaults(t *testing.T) {
	m := newEcho(t, nil)

	out, err := m.Process(context.Background(), schemas.Payload{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi!", out["result"])
	assert.Equal(t, "hi", out["text"], "input keys carry through")
}

func TestEchoConfiguredSuffixAndKey(t *testing.T) {
	m := newEcho(t, map[string]any{"suffix": "?", "key": "question"})

	out, err := m.Process(context.Background(), schemas.Payload{"question": "why"})
	require.NoError(t, err)
	assert.Equal(t, "why?", out["result"])
}

func TestEchoUserInputFallback(t *testing.T) {
	m := newEcho(t, nil)

	out, err := m.Process(context.Background(), schemas.Payload{"user_input": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello!", out["result"])
}

func TestEchoInvalidConfig(t *testing.T) {
	m := New("echo", map[string]any{"suffix": 42})
	assert.Error(t, m.Initialize())
}

// File: internal/pipeline/table_test.go
package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndResolve(t *testing.T) {
	table := NewTable()
	table.Register("p", []string{"a", "b", "a"})

	got, err := table.Resolve("p")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a"}, got)

	// Re-registration overwrites the previous definition.
	table.Register("p", []string{"c"})
	got, err = table.Resolve("p")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got)
}

func TestRegisterCopiesInput(t *testing.T) {
	table := NewTable()
	modules := []string{"a", "b"}
	table.Register("p", modules)

	modules[0] = "mutated"
	got, err := table.Resolve("p")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestResolveUnknownPipeline(t *testing.T) {
	_, err := NewTable().Resolve("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPipeline)
}

func TestAdd(t *testing.T) {
	t.Run("append at end", func(t *testing.T) {
		table := NewTable()
		table.Register("p", []string{"a"})
		require.NoError(t, table.Add("b", "p", PositionEnd))

		got, _ := table.Resolve("p")
		assert.Equal(t, []string{"a", "b"}, got)
	})

	t.Run("insert at position", func(t *testing.T) {
		table := NewTable()
		table.Register("p", []string{"a", "c"})
		require.NoError(t, table.Add("b", "p", 1))

		got, _ := table.Resolve("p")
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("out of range appends", func(t *testing.T) {
		table := NewTable()
		table.Register("p", []string{"a"})
		require.NoError(t, table.Add("b", "p", 42))

		got, _ := table.Resolve("p")
		assert.Equal(t, []string{"a", "b"}, got)
	})

	t.Run("unknown pipeline", func(t *testing.T) {
		err := NewTable().Add("a", "missing", PositionEnd)
		assert.ErrorIs(t, err, ErrUnknownPipeline)
	})
}

func TestRemove(t *testing.T) {
	t.Run("first occurrence only", func(t *testing.T) {
		table := NewTable()
		table.Register("p", []string{"a", "b", "a"})
		require.NoError(t, table.Remove("a", "p", false))

		got, _ := table.Resolve("p")
		assert.Equal(t, []string{"b", "a"}, got)
	})

	t.Run("all occurrences", func(t *testing.T) {
		table := NewTable()
		table.Register("p", []string{"a", "b", "a"})
		require.NoError(t, table.Remove("a", "p", true))

		got, _ := table.Resolve("p")
		assert.Equal(t, []string{"b"}, got)
	})

	t.Run("absent module is a no-op", func(t *testing.T) {
		table := NewTable()
		table.Register("p", []string{"a"})
		require.NoError(t, table.Remove("zz", "p", false))

		got, _ := table.Resolve("p")
		assert.Equal(t, []string{"a"}, got)
	})

	t.Run("unknown pipeline", func(t *testing.T) {
		err := NewTable().Remove("a", "missing", false)
		assert.ErrorIs(t, err, ErrUnknownPipeline)
	})
}

func TestResolveReturnsCopy(t *testing.T) {
	table := NewTable()
	table.Register("p", []string{"a", "b"})

	got, err := table.Resolve("p")
	require.NoError(t, err)
	got[0] = "mutated"

	fresh, _ := table.Resolve("p")
	assert.Equal(t, []string{"a", "b"}, fresh)
}

func TestNamesSorted(t *testing.T) {
	table := NewTable()
	table.Register("zeta", nil)
	table.Register("alpha", nil)

	assert.Equal(t, []string{"alpha", "zeta"}, table.Names())
	assert.True(t, table.Has("alpha"))
	assert.False(t, table.Has("beta"))
}

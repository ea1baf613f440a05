package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedState struct {
	Path    string
	scratch map[string]int `tributary:"transient"`
	Nested  *nestedState
}

type nestedState struct {
	Counter int
	conn    *fakeConnection `tributary:"transient"`
}

type fakeConnection struct {
	alive bool
}

type leakyState struct {
	Path string
	done chan struct{}
}

type leakyNested struct {
	Inner []leakyState
}

func TestEnvironment_Clean(t *testing.T) {
	env, err := NewEnvironment(2, false)
	require.NoError(t, err)

	t.Run("transient fields are zeroed, including nested ones", func(t *testing.T) {
		state := &capturedState{
			Path:    "/tmp/data",
			scratch: map[string]int{"a": 1},
			Nested: &nestedState{
				Counter: 3,
				conn:    &fakeConnection{alive: true},
			},
		}

		require.NoError(t, env.Clean(state))
		assert.Equal(t, "/tmp/data", state.Path)
		assert.Nil(t, state.scratch)
		assert.Equal(t, 3, state.Nested.Counter)
		assert.Nil(t, state.Nested.conn)
	})

	t.Run("captured channel fails with the field path", func(t *testing.T) {
		err := env.Clean(&leakyState{Path: "/tmp/data", done: make(chan struct{})})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "done")
	})

	t.Run("channel buried in a slice fails too", func(t *testing.T) {
		err := env.Clean(&leakyNested{Inner: []leakyState{{done: make(chan struct{})}}})
		require.Error(t, err)
	})

	t.Run("nil callable", func(t *testing.T) {
		require.Error(t, env.Clean(nil))
	})

	t.Run("clean state passes unchanged", func(t *testing.T) {
		state := &capturedState{Path: "/tmp/data"}
		require.NoError(t, env.Clean(state))
		assert.Equal(t, "/tmp/data", state.Path)
	})
}

func TestNewEnvironment(t *testing.T) {
	_, err := NewEnvironment(0, false)
	require.Error(t, err)

	_, err = NewEnvironment(-1, false)
	require.Error(t, err)

	env, err := NewEnvironment(1, true)
	require.NoError(t, err)
	assert.Equal(t, 1, env.DefaultParallelism)
	assert.True(t, env.ForceBreakChain)
}

package scopemesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/scopemesh/core"
)

func TestExecutePerSession(t *testing.T) {
	mesh := New()

	result, event := mesh.Execute("alice", `scope research -m "explore options"`)
	assert.Equal(t, "Switched to new scope 'research' (from 'main')", result)
	require.NotNil(t, event)
	assert.Equal(t, core.EventScope, event.Type)

	// Other sessions are unaffected.
	assert.Equal(t, core.MainScope, mesh.Store("bob").CurrentScope())
	assert.Equal(t, "research", mesh.Store("alice").CurrentScope())
}

func TestContextComposition(t *testing.T) {
	mesh := New()

	mesh.AddMessage("alice", core.NewUserMessage("hi"))

	messages := mesh.Context("alice", "be helpful")
	require.Len(t, messages, 2)
	assert.Equal(t, core.RoleSystem, messages[0].Role)
	assert.Equal(t, "hi", messages[1].Content)
}

func TestKeepMessagesOnNote(t *testing.T) {
	mesh := New(func(o *Options) {
		o.KeepMessagesOnNote = true
	})

	mesh.AddMessage("alice", core.NewUserMessage("working"))

	result, _ := mesh.Execute("alice", `note -m "checkpoint"`)
	assert.Contains(t, result, "checkpoint")

	sc, ok := mesh.Store("alice").Scope(core.MainScope)
	require.True(t, ok)
	assert.Len(t, sc.Messages, 1)
}

func TestRemoveSession(t *testing.T) {
	mesh := New()

	mesh.Execute("alice", "scopes")
	assert.True(t, mesh.RemoveSession("alice"))
	assert.False(t, mesh.RemoveSession("alice"))

	// A fresh session starts over on main.
	assert.Equal(t, core.MainScope, mesh.Store("alice").CurrentScope())
}

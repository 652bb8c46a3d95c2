package policy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/scopemesh/core"
)

func storeWithMessages(t *testing.T, n int) *core.Store {
	t.Helper()

	store := core.NewStore()
	for i := 0; i < n; i++ {
		store.AddMessage(core.NewUserMessage(fmt.Sprintf("message %d", i)))
	}

	return store
}

func TestMaxMessages(t *testing.T) {
	p := NewMaxMessages(func(p *MaxMessages) { p.Max, p.WarnAt = 5, 3 })

	t.Run("below warn threshold", func(t *testing.T) {
		result := p.Evaluate(storeWithMessages(t, 2))
		assert.False(t, result.Triggered)
	})

	t.Run("warns when approaching", func(t *testing.T) {
		result := p.Evaluate(storeWithMessages(t, 3))
		require.True(t, result.Triggered)
		assert.Equal(t, ActionWarn, result.Action)
		assert.Contains(t, result.Message, "3/5")
	})

	t.Run("suggests note at max", func(t *testing.T) {
		result := p.Evaluate(storeWithMessages(t, 5))
		require.True(t, result.Triggered)
		assert.Equal(t, ActionSuggestNote, result.Action)
		assert.NotEmpty(t, result.AutoNote)
	})
}

func TestMaxTokens(t *testing.T) {
	p := NewMaxTokens(func(p *MaxTokens) { p.Max, p.WarnAt = 200, 100 })

	store := core.NewStore()
	result := p.Evaluate(store)
	assert.False(t, result.Triggered)

	store.AddMessage(core.NewUserMessage(strings.Repeat("a", 2000)))

	result = p.Evaluate(store)
	require.True(t, result.Triggered)
	assert.Equal(t, ActionSuggestNote, result.Action)
}

func TestSinceLastNote(t *testing.T) {
	p := NewSinceLastNote(func(p *SinceLastNote) { p.Max = 3 })

	t.Run("silent without notes", func(t *testing.T) {
		result := p.Evaluate(storeWithMessages(t, 4))
		assert.False(t, result.Triggered)
	})

	t.Run("triggers after a note", func(t *testing.T) {
		store := storeWithMessages(t, 4)
		_, err := store.RecordNote(core.MainScope, "checkpoint", nil)
		require.NoError(t, err)

		// Recording a note clears nothing by itself at store level,
		// so re-add enough messages to cross the threshold.
		result := p.Evaluate(store)
		require.True(t, result.Triggered)
		assert.Equal(t, ActionSuggestNote, result.Action)
	})
}

func TestNoNote(t *testing.T) {
	p := NewNoNote(func(p *NoNote) { p.Min = 2 })

	t.Run("triggers on unsaved work", func(t *testing.T) {
		result := p.Evaluate(storeWithMessages(t, 2))
		require.True(t, result.Triggered)
		assert.Equal(t, ActionWarn, result.Action)
		assert.Contains(t, result.Message, "main")
	})

	t.Run("silent once a note exists", func(t *testing.T) {
		store := storeWithMessages(t, 2)
		_, err := store.RecordNote(core.MainScope, "saved", nil)
		require.NoError(t, err)

		result := p.Evaluate(store)
		assert.False(t, result.Triggered)
	})
}

func TestEngineEvaluate(t *testing.T) {
	engine := NewEngine(
		NewMaxMessages(func(p *MaxMessages) { p.Max, p.WarnAt = 3, 2 }),
		NewNoNote(func(p *NoNote) { p.Min = 2 }),
	)

	results := engine.Evaluate(storeWithMessages(t, 3))
	assert.Len(t, results, 2)

	messages := engine.SystemMessages(storeWithMessages(t, 3))
	assert.Len(t, messages, 2)
}

func TestEngineDisable(t *testing.T) {
	engine := NewEngine(NewNoNote(func(p *NoNote) { p.Min = 1 }))

	require.True(t, engine.Disable("no_note"))
	assert.Empty(t, engine.Evaluate(storeWithMessages(t, 3)))

	require.True(t, engine.Enable("no_note"))
	assert.Len(t, engine.Evaluate(storeWithMessages(t, 3)), 1)

	assert.False(t, engine.Disable("unknown"))
}

func TestEngineShouldForceNote(t *testing.T) {
	engine := Strict()

	forced, note := engine.ShouldForceNote(storeWithMessages(t, 10))
	require.True(t, forced)
	assert.Contains(t, note, "Auto-note")

	forced, _ = engine.ShouldForceNote(storeWithMessages(t, 1))
	assert.False(t, forced)
}

func TestPresets(t *testing.T) {
	for _, engine := range []*Engine{Conservative(), Relaxed(), Strict()} {
		assert.Empty(t, engine.Evaluate(core.NewStore()))
	}
}

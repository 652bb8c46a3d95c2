package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/scopemesh/core"
)

func TestMockModelCannedResponse(t *testing.T) {
	mock := NewMockModel("test-model")
	mock.AddResponse("2 + 2?", "4")

	resp, err := mock.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("2 + 2?")},
	})
	require.NoError(t, err)
	assert.Equal(t, "4", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestMockModelEchoFallback(t *testing.T) {
	mock := NewMockModel("test-model")

	resp, err := mock.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("hello")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: hello", resp.Content)
}

func TestMockModelRequiresMessages(t *testing.T) {
	mock := NewMockModel("test-model")

	_, err := mock.Generate(context.Background(), Request{})
	assert.Error(t, err)

	info := mock.Info()
	assert.Equal(t, "mock", info.Provider)
	assert.True(t, info.SupportsTools)
}

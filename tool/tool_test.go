package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/scopemesh/command"
	"github.com/hupe1980/scopemesh/core"
)

func newSumTool() *FunctionTool {
	return NewFunctionTool(
		"calculate_sum",
		"Calculate the sum of two numbers",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			"required": []string{"a", "b"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
	)
}

func TestFunctionToolCall(t *testing.T) {
	sum := newSumTool()

	result, err := sum.Call(context.Background(), map[string]any{"a": 2.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionToolValidation(t *testing.T) {
	sum := newSumTool()

	_, err := sum.Call(context.Background(), map[string]any{"a": 2.0})

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeValidationError, toolErr.Code)
	assert.Equal(t, "calculate_sum", toolErr.Tool)
}

func TestFunctionToolExecutionError(t *testing.T) {
	failing := NewFunctionTool("boom", "Always fails", map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, fmt.Errorf("kaput")
		})

	_, err := failing.Call(context.Background(), map[string]any{})

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeExecutionError, toolErr.Code)
	assert.Equal(t, "kaput", toolErr.Message)
}

func TestFunctionToolPreservesToolError(t *testing.T) {
	custom := NewToolError("picky", "rate limited", "RATE_LIMITED")
	failing := NewFunctionTool("picky", "Fails with custom code", map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, custom
		})

	_, err := failing.Call(context.Background(), map[string]any{})

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "RATE_LIMITED", toolErr.Code)
}

func TestFunctionToolFromStruct(t *testing.T) {
	type echoArgs struct {
		Text string `json:"text" description:"Text to echo"`
	}

	echo := NewFunctionToolFromStruct("echo", "Echo the input", echoArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		})

	properties, ok := echo.Parameters()["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, properties, "text")

	result, err := echo.Call(context.Background(), map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", result)
}

func TestContextTool(t *testing.T) {
	store := core.NewStore()
	ctxTool := NewContextTool(command.NewDispatcher(store))

	assert.Equal(t, "ctx", ctxTool.Name())
	assert.Contains(t, ctxTool.Description(), "note -m")

	result, err := ctxTool.Call(context.Background(), map[string]any{"command": `scope research -m "explore options"`})
	require.NoError(t, err)
	assert.Equal(t, "Switched to new scope 'research' (from 'main')", result)
	assert.Equal(t, "research", store.CurrentScope())
}

func TestContextToolReportsFailuresAsText(t *testing.T) {
	store := core.NewStore()
	ctxTool := NewContextTool(command.NewDispatcher(store))

	result, err := ctxTool.Call(context.Background(), map[string]any{"command": "goto nowhere -m \"x\""})
	require.NoError(t, err)
	assert.Contains(t, result, "error:")
}

func TestContextToolRejectsMissingCommand(t *testing.T) {
	ctxTool := NewContextTool(command.NewDispatcher(core.NewStore()))

	_, err := ctxTool.Call(context.Background(), map[string]any{"cmd": "scopes"})

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeValidationError, toolErr.Code)
}

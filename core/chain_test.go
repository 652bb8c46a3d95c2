package core

import (
	"errors"
	"reflect"
	"testing"
)

func call(id string) ToolCall {
	return ToolCall{ID: id, Type: "function", Function: ToolCallFunction{Name: "f"}}
}

func TestPendingChain(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     int // length of the pending suffix, 0 = none
	}{
		{
			name:     "empty",
			messages: nil,
			want:     0,
		},
		{
			name:     "settled conversation",
			messages: []Message{NewUserMessage("hi"), NewAssistantMessage("hello")},
			want:     0,
		},
		{
			name: "request with no responses",
			messages: []Message{
				NewUserMessage("hi"),
				NewAssistantMessage("", call("c1")),
			},
			want: 1,
		},
		{
			name: "request partially answered",
			messages: []Message{
				NewAssistantMessage("", call("c1"), call("c2")),
				NewToolMessage("c1", "done"),
			},
			want: 2,
		},
		{
			name: "request fully answered",
			messages: []Message{
				NewAssistantMessage("", call("c1")),
				NewToolMessage("c1", "done"),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PendingChain(tt.messages)
			if len(got) != tt.want {
				t.Fatalf("PendingChain length = %d, want %d (%+v)", len(got), tt.want, got)
			}
		})
	}
}

func TestSplitPendingChain_Move(t *testing.T) {
	messages := []Message{
		NewUserMessage("start"),
		NewAssistantMessage("", call("c1")),
		NewToolMessage("c1", "ok"),
		NewAssistantMessage("", call("c2")),
	}
	retained, pending := SplitPendingChain(messages)
	if len(retained) != 3 || len(pending) != 1 {
		t.Fatalf("split = %d/%d, want 3/1", len(retained), len(pending))
	}
	if pending[0].ToolCalls[0].ID != "c2" {
		t.Errorf("wrong pending chain: %+v", pending)
	}
}

func TestStripIncomplete_InteriorChainRemoved(t *testing.T) {
	messages := []Message{
		NewUserMessage("hi"),
		NewAssistantMessage("", call("c1"), call("c2")),
		NewToolMessage("c1", "partial"),
		NewUserMessage("now something else"),
	}
	got := StripIncomplete(messages)
	want := []Message{NewUserMessage("hi"), NewUserMessage("now something else")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("interior incomplete chain should be removed, got %+v", got)
	}
}

func TestStripIncomplete_TrailingChainPreserved(t *testing.T) {
	messages := []Message{
		NewUserMessage("hi"),
		NewAssistantMessage("", call("c1")),
	}
	got := StripIncomplete(messages)
	if !reflect.DeepEqual(got, messages) {
		t.Fatalf("trailing incomplete chain must be left intact, got %+v", got)
	}
}

func TestStripIncomplete_CompleteChainKept(t *testing.T) {
	messages := []Message{
		NewAssistantMessage("", call("c1")),
		NewToolMessage("c1", "result"),
		NewAssistantMessage("all done"),
	}
	got := StripIncomplete(messages)
	if !reflect.DeepEqual(got, messages) {
		t.Fatalf("complete chain should survive untouched, got %+v", got)
	}
}

func TestStripIncomplete_OrphanToolResponseDropped(t *testing.T) {
	messages := []Message{
		NewToolMessage("ghost", "who asked"),
		NewUserMessage("hi"),
	}
	got := StripIncomplete(messages)
	if len(got) != 1 || got[0].Role != RoleUser {
		t.Fatalf("orphan tool response should be dropped, got %+v", got)
	}
}

func TestCheck(t *testing.T) {
	ok := []Message{
		NewUserMessage("hi"),
		NewAssistantMessage("", call("c1")),
		NewToolMessage("c1", "done"),
	}
	if err := Check(ok); err != nil {
		t.Fatalf("valid sequence flagged: %v", err)
	}

	trailing := []Message{NewAssistantMessage("", call("c1"))}
	if err := Check(trailing); err != nil {
		t.Fatalf("trailing incomplete chain is legal: %v", err)
	}

	interior := []Message{
		NewAssistantMessage("", call("c1")),
		NewUserMessage("interrupting"),
	}
	err := Check(interior)
	var integrity *ToolChainIntegrityError
	if !errors.As(err, &integrity) || integrity.Index != 0 {
		t.Fatalf("expected integrity error at index 0, got %v", err)
	}

	orphan := []Message{NewToolMessage("ghost", "x")}
	if err := Check(orphan); err == nil {
		t.Fatal("orphan tool response should be reported")
	}
}

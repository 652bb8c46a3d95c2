package compose

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/hupe1980/scopemesh/core"
)

const prompt = "You are a careful assistant."

func TestCompose_SystemPromptFirst(t *testing.T) {
	store := core.NewStore()
	store.AddMessage(core.NewUserMessage("hi"))

	got := Compose(store, prompt)
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Role != core.RoleSystem || got[0].Content != prompt {
		t.Errorf("system prompt must come first: %+v", got[0])
	}
	if got[1].Content != "hi" {
		t.Errorf("working message missing: %+v", got[1])
	}
}

func TestCompose_EmptyPromptOmitted(t *testing.T) {
	store := core.NewStore()
	store.AddMessage(core.NewUserMessage("hi"))

	got := Compose(store, "")
	if len(got) != 1 || got[0].Role != core.RoleUser {
		t.Fatalf("empty prompt should emit no system message: %+v", got)
	}
}

func TestCompose_EpisodicBlockHoldsRecentNotes(t *testing.T) {
	store := core.NewStore()
	for i := 0; i < 7; i++ {
		if _, err := store.RecordNote(core.MainScope, fmt.Sprintf("insight %d", i), nil); err != nil {
			t.Fatal(err)
		}
	}

	got := Compose(store, prompt)
	if len(got) != 2 {
		t.Fatalf("expected prompt + episodic block, got %+v", got)
	}
	block := got[1]
	if block.Role != core.RoleSystem {
		t.Fatalf("episodic block must be system role: %+v", block)
	}
	for i := 2; i < 7; i++ {
		if !strings.Contains(block.Content, fmt.Sprintf("insight %d", i)) {
			t.Errorf("episodic block missing recent note %d:\n%s", i, block.Content)
		}
	}
	for i := 0; i < 2; i++ {
		if strings.Contains(block.Content, fmt.Sprintf("insight %d", i)) {
			t.Errorf("episodic block should drop old note %d:\n%s", i, block.Content)
		}
	}

	// Custom window
	narrow := Compose(store, prompt, func(o *Options) { o.NoteLimit = 1 })
	if strings.Count(narrow[1].Content, "\n- [") != 1 {
		t.Errorf("NoteLimit=1 should keep one note:\n%s", narrow[1].Content)
	}
}

func TestCompose_SnapshotsNeverLeak(t *testing.T) {
	store := core.NewStore()
	secret := []core.Message{core.NewUserMessage("full transcript detail")}
	if _, err := store.RecordNote(core.MainScope, "summary only", secret); err != nil {
		t.Fatal(err)
	}

	for _, m := range Compose(store, prompt) {
		if strings.Contains(m.Content, "full transcript detail") {
			t.Fatalf("messages snapshot must never be sent automatically: %+v", m)
		}
	}
}

func TestCompose_Idempotent(t *testing.T) {
	store := core.NewStore()
	if _, err := store.CreateScope("X", "a"); err != nil {
		t.Fatal(err)
	}
	store.AddMessage(core.NewUserMessage("hi"))
	store.AddMessage(core.NewAssistantMessage("", core.ToolCall{ID: "c1", Type: "function", Function: core.ToolCallFunction{Name: "f"}}))

	first := Compose(store, prompt)
	second := Compose(store, prompt)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("composition must be deterministic:\n%+v\nvs\n%+v", first, second)
	}
}

func TestCompose_OnlyCurrentScopeVisible(t *testing.T) {
	store := core.NewStore()
	store.AddMessage(core.NewUserMessage("main business"))
	if _, err := store.CreateScope("X", "a"); err != nil {
		t.Fatal(err)
	}
	store.AddMessage(core.NewUserMessage("sub-task detail"))

	for _, m := range Compose(store, "") {
		if strings.Contains(m.Content, "main business") {
			t.Fatalf("messages of other scopes must stay invisible: %+v", m)
		}
	}

	if _, err := store.GotoScope(core.MainScope, "back"); err != nil {
		t.Fatal(err)
	}
	var seen bool
	for _, m := range Compose(store, "") {
		if strings.Contains(m.Content, "sub-task detail") {
			t.Fatalf("messages of other scopes must stay invisible: %+v", m)
		}
		if strings.Contains(m.Content, "main business") {
			seen = true
		}
	}
	if !seen {
		t.Error("current scope's own messages should be visible")
	}
}

func TestCompose_ToolChainRules(t *testing.T) {
	store := core.NewStore()
	c1 := core.ToolCall{ID: "c1", Type: "function", Function: core.ToolCallFunction{Name: "f"}}

	// Interior incomplete chain: removed.
	store.AddMessage(core.NewAssistantMessage("", c1))
	store.AddMessage(core.NewUserMessage("changed topic"))
	got := Compose(store, "")
	if len(got) != 1 || got[0].Content != "changed topic" {
		t.Fatalf("interior incomplete chain should be stripped: %+v", got)
	}

	// Trailing incomplete chain: preserved unmodified.
	if err := store.ClearMessages(core.MainScope); err != nil {
		t.Fatal(err)
	}
	store.AddMessage(core.NewUserMessage("hi"))
	store.AddMessage(core.NewAssistantMessage("", c1))
	got = Compose(store, "")
	if len(got) != 2 || !got[1].HasToolCalls() {
		t.Fatalf("trailing incomplete chain must survive: %+v", got)
	}
}

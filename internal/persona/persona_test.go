package persona

import (
	"strings"
	"testing"
	"time"
)

func TestLoadEmbedded(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	all := r.All()
	if len(all) != len(Known) {
		t.Fatalf("expected %d personas, got %d", len(Known), len(all))
	}
	for i, id := range Known {
		if all[i].ID != id {
			t.Fatalf("persona %d: got %q want %q", i, all[i].ID, id)
		}
	}
	if r.Default().ID != Sydney {
		t.Fatalf("default persona is %q", r.Default().ID)
	}
	if r.ReactionPrompt() == "" {
		t.Fatal("reaction prompt is empty")
	}
}

func TestMatch(t *testing.T) {
	r := MustLoad()

	cases := []struct {
		content string
		want    ID
		ok      bool
	}{
		{"hey SYDNEY what's up", Sydney, true},
		{"s!talk hello", Sydney, true},
		{"Aisling, I had a dream", Aisling, true},
		{"e! tell me something", Eos, true},
		{"I want GrilledCheese", GrilledCheese, true},
		{"g! melt", GrilledCheese, true},
		// substring match, not word match
		{"watching videos", Eos, true},
		// registration order decides between two hits
		{"aisling and sydney", Sydney, true},
		{"nothing to see here", "", false},
	}
	for _, c := range cases {
		p, ok := r.Match(c.content)
		if ok != c.ok || p.ID != c.want {
			t.Errorf("Match(%q) = %q, %v; want %q, %v", c.content, p.ID, ok, c.want, c.ok)
		}
	}
}

func TestRender(t *testing.T) {
	r := MustLoad()
	p, _ := r.Get(Sydney)

	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	out := p.Render(PromptVars{
		UserName:    "alice",
		ServerName:  "Cafe",
		ChannelName: "general",
		Now:         now,
	})

	for _, want := range []string{"alice", "Cafe", "general", "2024-05-01 12:30:00 UTC"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered prompt missing %q", want)
		}
	}
	if strings.Contains(out, "{{") {
		t.Error("rendered prompt still has placeholders")
	}
}

func TestGenericPrompt(t *testing.T) {
	r := MustLoad()
	out := r.Generic(PromptVars{UserName: "bob", ServerName: "Direct Message", ChannelName: "dm"})
	if !strings.Contains(out, "bob") || !strings.Contains(out, "Direct Message") {
		t.Fatalf("unexpected generic prompt: %s", out)
	}
}

func TestParseRejectsBadDefinitions(t *testing.T) {
	cases := map[string]string{
		"unknown id": `
personas:
  - id: sydney
    triggers: ["s"]
    prompt: x
  - id: bob
    triggers: ["b"]
    prompt: x
`,
		"default not first": `
personas:
  - id: eos
    triggers: ["e"]
    prompt: x
`,
		"no triggers": `
personas:
  - id: sydney
    prompt: x
`,
		"duplicate": `
personas:
  - id: sydney
    triggers: ["s"]
    prompt: x
  - id: sydney
    triggers: ["t"]
    prompt: y
`,
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

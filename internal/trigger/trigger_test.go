package trigger

import (
	"testing"

	"sydneybot/internal/persona"
	"sydneybot/internal/storage"
)

// seq returns the given values in order, then repeats the last one.
func seq(vals ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return v
	}
}

func newMatcher(vals ...float64) *Matcher {
	return New(persona.MustLoad(), "deepthink").WithRand(seq(vals...))
}

var never = storage.Probabilities{Reply: 0, Reaction: 0}

func TestMentionSelectsDefault(t *testing.T) {
	d := newMatcher(0.99).Decide(Input{AuthorID: "u", Content: "hey aisling", Mentioned: true}, never)
	if !d.Respond || d.Anonymous || d.Persona.ID != persona.Sydney {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestMentionOverridesSuppression(t *testing.T) {
	d := newMatcher(0.99).Decide(Input{AuthorID: "u", Content: "hi", Mentioned: true, OtherBotRecently: true}, never)
	if !d.Respond || d.Suppressed {
		t.Fatalf("mention should override suppression: %+v", d)
	}
}

func TestTriggerWordSelectsPersona(t *testing.T) {
	cases := map[string]persona.ID{
		"hey SYD":             persona.Sydney,
		"AISLING what's this": persona.Aisling,
		"e! hello":            persona.Eos,
		"g! melt":             persona.GrilledCheese,
	}
	for content, want := range cases {
		d := newMatcher(0.99).Decide(Input{AuthorID: "u", Content: content}, never)
		if !d.Respond || d.Persona.ID != want {
			t.Errorf("%q: got %+v, want persona %q", content, d, want)
		}
	}
}

func TestSuppressionBlocksTriggerWords(t *testing.T) {
	d := newMatcher(0).Decide(Input{AuthorID: "u", Content: "sydney?", OtherBotRecently: true}, storage.Probabilities{Reply: 1, Reaction: 0})
	if d.Respond || !d.Suppressed {
		t.Fatalf("expected suppression, got %+v", d)
	}
}

func TestSuppressionDoesNotBlockReaction(t *testing.T) {
	d := newMatcher(0).Decide(Input{AuthorID: "u", Content: "hello", OtherBotRecently: true}, storage.Probabilities{Reply: 1, Reaction: 1})
	if d.Respond || !d.React {
		t.Fatalf("expected reaction only, got %+v", d)
	}
}

func TestEscalation(t *testing.T) {
	d := newMatcher(0.99).Decide(Input{AuthorID: "u", Content: "Sydney, DeepThink about this"}, never)
	if !d.UseExpensiveModel {
		t.Fatalf("expected escalation, got %+v", d)
	}

	d = newMatcher(0.99).Decide(Input{AuthorID: "u", Content: "aisling deepthink"}, never)
	if d.UseExpensiveModel {
		t.Fatal("only the default persona escalates")
	}

	d = newMatcher(0.99).Decide(Input{AuthorID: "u", Content: "sydney hi"}, never)
	if d.UseExpensiveModel {
		t.Fatal("escalation without keyword")
	}
}

func TestDirectMessageForcesDefault(t *testing.T) {
	d := newMatcher(0.99).Decide(Input{AuthorID: "u", Content: "aisling, help", DirectMessage: true}, never)
	if !d.Respond || d.Persona.ID != persona.Sydney {
		t.Fatalf("expected default persona in DM, got %+v", d)
	}

	d = newMatcher(0.99).Decide(Input{AuthorID: "u", Content: "no trigger here", DirectMessage: true}, never)
	if !d.Respond || d.Anonymous {
		t.Fatalf("DM must always respond as default, got %+v", d)
	}
}

func TestAnonymousReplyDraw(t *testing.T) {
	probs := storage.Probabilities{Reply: 0.5, Reaction: 0}

	d := newMatcher(0.49, 0.99).Decide(Input{AuthorID: "u", Content: "just chatting"}, probs)
	if !d.Respond || !d.Anonymous {
		t.Fatalf("expected anonymous reply, got %+v", d)
	}

	d = newMatcher(0.5, 0.99).Decide(Input{AuthorID: "u", Content: "just chatting"}, probs)
	if d.Respond {
		t.Fatalf("draw equal to probability must not reply, got %+v", d)
	}
}

func TestZeroProbabilityNeverFires(t *testing.T) {
	m := newMatcher(0)
	d := m.Decide(Input{AuthorID: "u", Content: "quiet"}, never)
	if d.Respond || d.React {
		t.Fatalf("zero probabilities fired: %+v", d)
	}
}

func TestReactionDrawIsIndependent(t *testing.T) {
	probs := storage.Probabilities{Reply: 0, Reaction: 0.3}

	d := newMatcher(0.1).Decide(Input{AuthorID: "u", Content: "sydney"}, probs)
	if !d.Respond || !d.React {
		t.Fatalf("expected reply and reaction, got %+v", d)
	}

	d = newMatcher(0.9, 0.2).Decide(Input{AuthorID: "u", Content: "nothing"}, probs)
	if d.Respond || !d.React {
		t.Fatalf("expected reaction only, got %+v", d)
	}
}

func TestOwnMessagesIgnored(t *testing.T) {
	d := newMatcher(0).Decide(Input{AuthorID: "self", Content: "sydney", FromSelf: true, Mentioned: true}, storage.Probabilities{Reply: 1, Reaction: 1})
	if d.Respond || d.React {
		t.Fatalf("own message produced %+v", d)
	}
}

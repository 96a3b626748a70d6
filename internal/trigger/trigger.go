// /internal/trigger/trigger.go
package trigger

import (
	"math/rand/v2"
	"strings"

	"sydneybot/internal/persona"
	"sydneybot/internal/storage"
)

// Input is what the matcher needs to know about one inbound message.
type Input struct {
	AuthorID         string
	Content          string
	Mentioned        bool
	DirectMessage    bool
	FromSelf         bool
	OtherBotRecently bool
}

type Decision struct {
	Respond bool
	// Persona is set when Respond is true and Anonymous is false.
	Persona           persona.Persona
	Anonymous         bool
	React             bool
	UseExpensiveModel bool
	Suppressed        bool
}

type Matcher struct {
	personas *persona.Registry
	keyword  string
	rnd      func() float64
}

// New returns a matcher that escalates the default persona to the expensive
// model when keyword appears in the message.
func New(personas *persona.Registry, keyword string) *Matcher {
	return &Matcher{
		personas: personas,
		keyword:  strings.ToLower(strings.TrimSpace(keyword)),
		rnd:      rand.Float64,
	}
}

// WithRand replaces the random source, which must return values in [0,1).
func (m *Matcher) WithRand(rnd func() float64) *Matcher {
	m.rnd = rnd
	return m
}

func (m *Matcher) Decide(in Input, probs storage.Probabilities) Decision {
	var d Decision
	if in.FromSelf {
		return d
	}

	selected, ok := m.selectPersona(in)
	switch {
	case in.OtherBotRecently && !in.Mentioned:
		d.Suppressed = true
	case ok:
		d.Respond = true
		d.Persona = selected
		d.UseExpensiveModel = selected.ID == persona.Default && m.escalates(in.Content)
	case m.rnd() < probs.Reply:
		d.Respond = true
		d.Anonymous = true
	}

	// Reactions are drawn separately and ignore both the reply outcome and
	// bot-loop suppression.
	d.React = m.rnd() < probs.Reaction
	return d
}

func (m *Matcher) selectPersona(in Input) (persona.Persona, bool) {
	if in.Mentioned || in.DirectMessage {
		return m.personas.Default(), true
	}
	return m.personas.Match(in.Content)
}

func (m *Matcher) escalates(content string) bool {
	return m.keyword != "" && strings.Contains(strings.ToLower(content), m.keyword)
}

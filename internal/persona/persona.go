// /internal/persona/persona.go
package persona

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed personas.yaml
var definitions []byte

type ID string

const (
	Sydney        ID = "sydney"
	Aisling       ID = "aisling"
	Eos           ID = "eos"
	GrilledCheese ID = "grilled_cheese"

	Default = Sydney
)

// Known lists every persona the bot can speak as.
var Known = []ID{Sydney, Aisling, Eos, GrilledCheese}

func (id ID) Valid() bool {
	for _, k := range Known {
		if k == id {
			return true
		}
	}
	return false
}

type Persona struct {
	ID       ID       `yaml:"id"`
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers"`
	Prompt   string   `yaml:"prompt"`
}

// PromptVars are substituted into persona and generic templates.
type PromptVars struct {
	UserName    string
	ServerName  string
	ChannelName string
	Now         time.Time
}

const timeLayout = "2006-01-02 15:04:05 MST"

func render(template string, v PromptVars) string {
	now := v.Now
	if now.IsZero() {
		now = time.Now()
	}
	r := strings.NewReplacer(
		"{{user_name}}", v.UserName,
		"{{server_name}}", v.ServerName,
		"{{channel_name}}", v.ChannelName,
		"{{current_time}}", now.Format(timeLayout),
	)
	return strings.TrimSpace(r.Replace(template))
}

// Render fills in the persona's system prompt.
func (p Persona) Render(v PromptVars) string {
	return render(p.Prompt, v)
}

type file struct {
	Personas       []Persona `yaml:"personas"`
	GenericPrompt  string    `yaml:"generic_prompt"`
	ReactionPrompt string    `yaml:"reaction_prompt"`
}

// Registry holds personas in match order. Its contents can be swapped while
// in use, see Replace.
type Registry struct {
	mu       sync.RWMutex
	personas []Persona
	generic  string
	reaction string
}

// Load parses the embedded persona definitions.
func Load() (*Registry, error) {
	return Parse(definitions)
}

// LoadFile parses persona definitions from a YAML file on disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personas: %w", err)
	}
	return Parse(data)
}

func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(fmt.Sprintf("persona: %v", err))
	}
	return r
}

// Parse builds a registry from YAML. Every persona must be a known ID and
// the default persona must come first.
func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse personas: %w", err)
	}
	if len(f.Personas) == 0 {
		return nil, fmt.Errorf("no personas defined")
	}
	if f.Personas[0].ID != Default {
		return nil, fmt.Errorf("first persona must be %q, got %q", Default, f.Personas[0].ID)
	}

	seen := make(map[ID]bool, len(f.Personas))
	for i := range f.Personas {
		p := &f.Personas[i]
		if !p.ID.Valid() {
			return nil, fmt.Errorf("unknown persona id %q", p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate persona id %q", p.ID)
		}
		seen[p.ID] = true
		if strings.TrimSpace(p.Prompt) == "" {
			return nil, fmt.Errorf("persona %q has no prompt", p.ID)
		}
		if len(p.Triggers) == 0 {
			return nil, fmt.Errorf("persona %q has no trigger words", p.ID)
		}
		for j, t := range p.Triggers {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				return nil, fmt.Errorf("persona %q has an empty trigger word", p.ID)
			}
			p.Triggers[j] = t
		}
	}

	return &Registry{
		personas: f.Personas,
		generic:  f.GenericPrompt,
		reaction: strings.TrimSpace(f.ReactionPrompt),
	}, nil
}

// Replace swaps in the definitions held by other.
func (r *Registry) Replace(other *Registry) {
	other.mu.RLock()
	personas, generic, reaction := other.personas, other.generic, other.reaction
	other.mu.RUnlock()

	r.mu.Lock()
	r.personas, r.generic, r.reaction = personas, generic, reaction
	r.mu.Unlock()
}

func (r *Registry) All() []Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Persona, len(r.personas))
	copy(out, r.personas)
	return out
}

func (r *Registry) Get(id ID) (Persona, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

func (r *Registry) Default() Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.personas[0]
}

// Match returns the first persona, in registry order, with a trigger word
// contained anywhere in content. Matching ignores case.
func (r *Registry) Match(content string) (Persona, bool) {
	lower := strings.ToLower(content)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.personas {
		for _, t := range p.Triggers {
			if strings.Contains(lower, t) {
				return p, true
			}
		}
	}
	return Persona{}, false
}

// Generic renders the prompt used when no persona was selected.
func (r *Registry) Generic(v PromptVars) string {
	r.mu.RLock()
	generic := r.generic
	r.mu.RUnlock()
	return render(generic, v)
}

func (r *Registry) ReactionPrompt() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reaction
}

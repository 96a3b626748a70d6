package discord

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"sydneybot/internal/status"
)

type fakeSetter struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeSetter) SetPresence(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func TestPresenceRotates(t *testing.T) {
	c := status.NewCounters()
	c.SetGuilds(1234)
	setter := &fakeSetter{}
	p := NewPresence(setter, c)

	n := len(p.Texts())
	for i := 0; i < n+1; i++ {
		p.Update()
	}

	if len(setter.texts) != n+1 {
		t.Fatalf("expected %d updates, got %d", n+1, len(setter.texts))
	}
	if setter.texts[0] != "chatting in 1,234 servers" {
		t.Fatalf("unexpected first text %q", setter.texts[0])
	}
	if setter.texts[n] != setter.texts[0] {
		t.Fatalf("rotation did not wrap: %q vs %q", setter.texts[n], setter.texts[0])
	}
	for i := 1; i < n; i++ {
		if setter.texts[i] == setter.texts[i-1] {
			t.Fatalf("text %d repeated: %q", i, setter.texts[i])
		}
	}
}

func TestPresenceSetterErrorIsSwallowed(t *testing.T) {
	setter := &fakeSetter{err: errors.New("gateway closed")}
	p := NewPresence(setter, status.NewCounters())
	p.Update()
}

func TestPresenceRejectsBadSchedule(t *testing.T) {
	p := NewPresence(&fakeSetter{}, status.NewCounters())
	err := p.Start("every so often")
	if err == nil || !strings.Contains(err.Error(), "every so often") {
		t.Fatalf("expected schedule error, got %v", err)
	}
	p.Stop()
}

func TestPresenceStartStop(t *testing.T) {
	p := NewPresence(&fakeSetter{}, status.NewCounters())
	if err := p.Start("@every 5m"); err != nil {
		t.Fatalf("start: %v", err)
	}
	p.Stop()
	p.Stop()
}

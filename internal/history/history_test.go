package history

import (
	"fmt"
	"sync"
	"testing"
)

func TestAppendKeepsOrder(t *testing.T) {
	s := New()
	key := KeyFor("g", "c")

	s.AppendUser(key, "alice: hi")
	s.AppendAssistant(key, "hello alice")

	turns := s.Snapshot(key)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != RoleUser || turns[1].Role != RoleAssistant {
		t.Fatalf("unexpected roles %q %q", turns[0].Role, turns[1].Role)
	}
	if turns[0].At.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestHistoryIsBounded(t *testing.T) {
	s := New()
	key := KeyFor("g", "c")

	for i := 0; i < MaxTurns+7; i++ {
		s.AppendUser(key, fmt.Sprintf("m%d", i))
	}

	turns := s.Snapshot(key)
	if len(turns) != MaxTurns {
		t.Fatalf("expected %d turns, got %d", MaxTurns, len(turns))
	}
	if turns[0].Content != "m7" {
		t.Fatalf("oldest turns were not dropped first: %q", turns[0].Content)
	}
	if turns[MaxTurns-1].Content != fmt.Sprintf("m%d", MaxTurns+6) {
		t.Fatalf("newest turn missing: %q", turns[MaxTurns-1].Content)
	}
}

func TestChannelsAreIsolated(t *testing.T) {
	s := New()
	s.AppendUser(KeyFor("g", "a"), "one")
	s.AppendUser(KeyFor("g", "b"), "two")
	s.AppendUser(KeyFor("", "a"), "dm")

	if got := s.Len(KeyFor("g", "a")); got != 1 {
		t.Fatalf("channel a has %d turns", got)
	}
	if got := s.Snapshot(KeyFor("", "a")); len(got) != 1 || got[0].Content != "dm" {
		t.Fatalf("dm history leaked: %+v", got)
	}
	if KeyFor("", "a").GuildID != DirectMessages {
		t.Fatal("empty guild should map to dm scope")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := New()
	key := KeyFor("g", "c")
	s.AppendUser(key, "original")

	snap := s.Snapshot(key)
	snap[0].Content = "changed"

	if s.Snapshot(key)[0].Content != "original" {
		t.Fatal("snapshot aliases internal state")
	}
}

func TestReset(t *testing.T) {
	s := New()
	key := KeyFor("g", "c")
	s.AppendUser(key, "x")
	s.Reset(key)
	if s.Len(key) != 0 || s.Snapshot(key) != nil {
		t.Fatal("history not reset")
	}
}

func TestConcurrentAppend(t *testing.T) {
	s := NewWithLimit(10)
	key := KeyFor("g", "c")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AppendUser(key, fmt.Sprint(i))
			_ = s.Snapshot(key)
		}(i)
	}
	wg.Wait()

	if got := s.Len(key); got != 10 {
		t.Fatalf("expected 10 turns, got %d", got)
	}
}

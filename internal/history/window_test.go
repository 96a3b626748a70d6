package history

import (
	"testing"
	"time"
)

func newClockWindow(start time.Time) (*AuthorWindow, *time.Time) {
	now := start
	w := NewAuthorWindow()
	w.now = func() time.Time { return now }
	return w, &now
}

func TestOtherBotRecently(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w, now := newClockWindow(start)

	w.Record("c", "otherbot", true, start)
	if !w.OtherBotRecently("c", "human", "self") {
		t.Fatal("expected recent bot to be reported")
	}

	*now = start.Add(AuthorWindowDuration + time.Millisecond)
	if w.OtherBotRecently("c", "human", "self") {
		t.Fatal("entry should have expired")
	}
}

func TestOtherBotRecentlyExcludes(t *testing.T) {
	start := time.Now()
	w, _ := newClockWindow(start)

	w.Record("c", "self", true, start)
	w.Record("c", "human", false, start)
	if w.OtherBotRecently("c", "self") {
		t.Fatal("own messages and humans must not count")
	}

	w.Record("c", "otherbot", true, start)
	if w.OtherBotRecently("c", "otherbot", "self") {
		t.Fatal("current author must not count against itself")
	}
	if w.OtherBotRecently("other-channel", "self") {
		t.Fatal("channels must be isolated")
	}
}

func TestRecordPrunes(t *testing.T) {
	start := time.Now()
	w, now := newClockWindow(start)

	w.Record("c", "a", true, start)
	*now = start.Add(10 * time.Second)
	w.Record("c", "b", false, *now)

	if n := len(w.channels["c"]); n != 1 {
		t.Fatalf("expected expired entry pruned, have %d", n)
	}
}

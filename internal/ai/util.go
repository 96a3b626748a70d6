package ai

import (
	"regexp"
	"strings"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// truncate shortens a response body for error messages without splitting
// a rune.
func truncate(b []byte) string {
	r := []rune(string(b))
	if len(r) > 200 {
		return string(r[:200]) + "..."
	}
	return string(b)
}

// cleanReply strips reasoning blocks and a pair of wrapping quotes.
func cleanReply(reply string) string {
	reply = thinkBlock.ReplaceAllString(reply, "")
	reply = strings.TrimSpace(reply)

	if len(reply) >= 2 {
		quotes := []struct{ open, close string }{
			{`"`, `"`}, {"“", "”"},
		}
		for _, q := range quotes {
			if strings.HasPrefix(reply, q.open) && strings.HasSuffix(reply, q.close) && len(reply) > len(q.open)+len(q.close) {
				reply = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(reply, q.open), q.close))
				break
			}
		}
	}
	return reply
}

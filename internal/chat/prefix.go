package chat

import (
	"regexp"
	"strings"
)

var prefixInstruction = regexp.MustCompile(`(?i)start (?:your|all your) messages (?:with|by)(?: by)?(?: saying)?\s+(.+?)\s+before everything`)

// ParsePrefixInstruction extracts the prefix from messages like
// "start your messages with [TEST] before everything".
func ParsePrefixInstruction(content string) (string, bool) {
	m := prefixInstruction.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	p := strings.TrimSpace(m[1])
	p = strings.Trim(p, `"'“”`)
	return p, true
}

// applyPrefix puts the user's prefix in front of text.
func applyPrefix(prefix, text string) string {
	if prefix == "" {
		return text
	}
	return prefix + " " + text
}

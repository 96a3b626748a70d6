package chat

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	MaxMessageLength = 2000
	ellipsis         = "..."

	maxSpeakerName = 32
	pingToken      = "{ping}"
)

var speakerLine = regexp.MustCompile("(?s)^\\s*([^\\n:<>*`]{1,64}):\\s+(\\S.*)$")

// SplitSpeaker separates a leading "Name: " from the reply. Names longer
// than 32 characters are not treated as speaker labels.
func SplitSpeaker(text string) (name, content string) {
	m := speakerLine.FindStringSubmatch(text)
	if m == nil {
		return "", strings.TrimSpace(text)
	}
	name = strings.TrimSpace(m[1])
	if name == "" || utf8.RuneCountInString(name) > maxSpeakerName {
		return "", strings.TrimSpace(text)
	}
	return name, strings.TrimSpace(m[2])
}

// Truncate caps text at MaxMessageLength characters, ending cut text with
// an ellipsis.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxMessageLength {
		return text
	}
	r := []rune(text)
	return string(r[:MaxMessageLength-len(ellipsis)]) + ellipsis
}

func mention(id string) string {
	return "<@" + id + ">"
}

// ResolveMentions turns "@name" for known members, the {ping} placeholder
// and "AuthorName!" into platform mentions.
func ResolveMentions(text string, author Member, members []Member) string {
	text = strings.ReplaceAll(text, pingToken, mention(author.ID))
	text = replaceAtNames(text, members)
	text = replaceExclamation(text, author)
	return text
}

type nameRef struct {
	name string
	id   string
}

func replaceAtNames(text string, members []Member) string {
	if !strings.Contains(text, "@") {
		return text
	}

	lower := strings.ToLower(text)
	var refs []nameRef
	for _, m := range members {
		for _, n := range []string{m.Username, m.DisplayName} {
			n = strings.TrimSpace(n)
			if n != "" && strings.Contains(lower, "@"+strings.ToLower(n)) {
				refs = append(refs, nameRef{name: n, id: m.ID})
			}
		}
	}
	// Longest first so "@anna" does not eat the start of "@annabelle".
	sort.SliceStable(refs, func(i, j int) bool {
		return len(refs[i].name) > len(refs[j].name)
	})

	for _, ref := range refs {
		re := regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(ref.name) + `(\W|$)`)
		text = re.ReplaceAllString(text, mention(ref.id)+"${1}")
	}
	return text
}

func replaceExclamation(text string, author Member) string {
	lower := strings.ToLower(text)
	for _, n := range []string{author.DisplayName, author.Username} {
		n = strings.TrimSpace(n)
		if n == "" || !strings.Contains(lower, strings.ToLower(n)+"!") {
			continue
		}
		re := regexp.MustCompile(`(?i)(^|[^\w@])` + regexp.QuoteMeta(n) + `!`)
		text = re.ReplaceAllString(text, "${1}"+mention(author.ID)+"!")
	}
	return text
}

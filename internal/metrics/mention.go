package metrics

import "strings"

// MentionFinder detects which candidate players a piece of discussion text
// refers to. It is a deliberately pluggable strategy: the default is an
// approximate lexical match, and a better detector can replace it without
// touching the rest of the pipeline.
type MentionFinder interface {
	Mentions(text string, candidates []string) []string
}

// ExactIDFinder matches a case-insensitive occurrence of the player's exact
// identifier anywhere in the text. Known-approximate: it is a substring
// scan, not semantic understanding.
type ExactIDFinder struct{}

func (ExactIDFinder) Mentions(text string, candidates []string) []string {
	if text == "" {
		return nil
	}
	upper := strings.ToUpper(text)
	var out []string
	for _, id := range candidates {
		if id == "" {
			continue
		}
		if strings.Contains(upper, strings.ToUpper(id)) {
			out = append(out, id)
		}
	}
	return out
}

// countMentions counts raw occurrences of the id in the text,
// case-insensitively.
func countMentions(text, id string) int {
	if text == "" || id == "" {
		return 0
	}
	return strings.Count(strings.ToUpper(text), strings.ToUpper(id))
}

// Package sanitize strips markup from free text such as competitor names and
// class labels before they are stored or indexed.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy   = bluemonday.StrictPolicy()
	brackets = strings.NewReplacer("<", "", ">", "")
)

// Text removes every HTML tag, unescapes entities and collapses whitespace.
// Entities are decoded before sanitising so encoded markup is stripped too,
// and angle brackets left over after the final decode are dropped.
func Text(s string) string {
	clean := html.UnescapeString(policy.Sanitize(html.UnescapeString(s)))
	clean = brackets.Replace(clean)
	return strings.Join(strings.Fields(clean), " ")
}

// Labels applies Text to every entry, dropping empty results and duplicates
// while keeping the first occurrence order.
func Labels(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = Text(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

package markup

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextOnce   sync.Once
	richTextPolicy *bluemonday.Policy
)

// SanitizeRichText strips dangerous markup from block text content while
// keeping the safe formatting the post renderer allows: inline emphasis,
// links, lists, code, and quotes. No inline styles survive.
func SanitizeRichText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(richTextSanitizer().Sanitize(trimmed))
}

func richTextSanitizer() *bluemonday.Policy {
	richTextOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements(
			"strong", "b", "em", "i", "u", "s", "mark", "small", "sup", "sub",
			"a", "ul", "ol", "li", "br", "p", "code", "pre", "blockquote",
			"cite", "span",
		)
		policy.AllowAttrs("href", "title", "target", "rel").OnElements("a")
		policy.AllowAttrs("cite").OnElements("blockquote")
		policy.AllowAttrs("id", "class").Globally()
		policy.AllowURLSchemes("http", "https", "mailto")
		richTextPolicy = policy
	})
	return richTextPolicy
}

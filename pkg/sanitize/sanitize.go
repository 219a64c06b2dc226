// Package sanitize cleans rendered quiz HTML before it leaves the process.
package sanitize

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicyOnce sync.Once
	contentPolicy     *bluemonday.Policy

	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Content strips scripts, event handlers and unknown elements from prompt or
// option markup while keeping the structure and inline styles produced by
// the syntax highlighter.
func Content(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(contentSanitizer().Sanitize(trimmed))
}

// Text removes all markup, leaving text suitable for a terminal.
func Text(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := textSanitizer().Sanitize(trimmed)
	return strings.Join(strings.Fields(cleaned), " ")
}

func contentSanitizer() *bluemonday.Policy {
	contentPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowStyling()
		policy.AllowAttrs("style").Matching(inlineStyle).OnElements("pre", "code", "span", "div")
		policy.AllowAttrs("class").OnElements("pre", "code", "span", "div")
		policy.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		contentPolicy = policy
	})
	return contentPolicy
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// inlineStyle accepts the declarations chroma emits, such as
// "color:#d73a49;font-weight:bold".
var inlineStyle = regexp.MustCompile(`^[a-zA-Z0-9\-:;#%.,()\s]*$`)

// Package guard validates and moderates candidate input before any other
// component sees it.
package guard

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMaxLength is the frontend message length limit in characters.
const DefaultMaxLength = 500

// Rejection codes.
const (
	CodeEmpty   = "empty_input"
	CodeTooLong = "too_long"
	CodeHarmful = "harmful_content"
)

// Rejection is a user-input rejection. Its Message is safe to surface to the
// candidate verbatim.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// harmfulPatterns is the ordered moderation rule table. Patterns are checked
// independently; any match blocks the message.
var harmfulPatterns = []string{
	`(?i)\b(hate|kill|death threat|bomb|attack|racism|sexism)\b`,
	`(?i)\b(stupid|idiot|moron|dumb)\b`,
	`(?i)\b(obscenity|profanity)\b`,
}

// Guard checks candidate text against length and content rules. It is a pure
// predicate over the input and its static configuration.
type Guard struct {
	maxLen   int
	patterns []*regexp.Regexp
}

// New creates a Guard with the given message length limit. If maxLen <= 0,
// DefaultMaxLength is used.
func New(maxLen int) *Guard {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	patterns := make([]*regexp.Regexp, len(harmfulPatterns))
	for i, p := range harmfulPatterns {
		patterns[i] = regexp.MustCompile(p)
	}
	return &Guard{maxLen: maxLen, patterns: patterns}
}

// Validate returns nil when text is acceptable, or a *Rejection describing
// the first failed check: emptiness, then length, then harmful content.
func (g *Guard) Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return &Rejection{Code: CodeEmpty, Message: "Your message cannot be empty."}
	}
	if len([]rune(text)) > g.maxLen {
		return &Rejection{
			Code:    CodeTooLong,
			Message: fmt.Sprintf("Your message is too long. Please limit to %d characters.", g.maxLen),
		}
	}
	for _, p := range g.patterns {
		if p.MatchString(text) {
			return &Rejection{Code: CodeHarmful, Message: "Your message contains inappropriate content."}
		}
	}
	return nil
}

// Moderate checks text against the harmful-pattern table only. When a
// pattern matches it returns a description naming the offending substring.
// Length and emptiness are Validate's concern; the two report independently.
func (g *Guard) Moderate(text string) (string, bool) {
	for _, p := range g.patterns {
		if m := p.FindString(text); m != "" {
			return fmt.Sprintf("Content contains potentially harmful text: %q", m), true
		}
	}
	return "", false
}

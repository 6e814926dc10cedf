// Package extract pulls structured candidate facts out of free-form chat
// text. The matching logic is kept as explicit rule tables so the ruleset
// can be extended or swapped for a smarter classifier without touching the
// conversation orchestration.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mpetrov/screener/internal/profile"
)

// Rate extraction rules, in order: a currency-marked number anywhere in the
// text wins over a bare number. Within each rule the first match in
// left-to-right text order is taken.
var (
	// Symbol before digits ($80) or digits before a unit word (80 usd).
	currencyRe = regexp.MustCompile(`(?i)[$€£¥](\d+(?:\.\d+)?)|(\d+(?:\.\d+)?)\s?(?:usd|dollars|eur|euro|gbp|pounds|jpy|yen)`)
	numberRe   = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\b`)
)

// namePhrases mark a self-introduction. Plain case-insensitive substring
// tests, matching the frontend behavior this replaced.
var namePhrases = []string{"my name is", "i am", "i'm"}

// skillsVocabulary covers programming languages/frameworks and
// role/seniority words. Presence of any one term is sufficient.
var skillsVocabulary = []string{
	"python", "javascript", "react", "angular", "java", "c#", "sql", "nosql", "node",
	"experience", "years", "expert", "junior", "senior", "developer", "engineer", "programmer",
}

// experiencePhrases mark an explicit claim of prior experience.
var experiencePhrases = []string{
	"years of experience", "i have experience", "experience in", "experience with",
}

// Rate extracts an hourly rate from text. It reports false when the text
// carries no number at all; callers must then leave any previously quoted
// rate untouched.
func Rate(text string) (float64, bool) {
	if m := currencyRe.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			return parseFloat(m[1])
		}
		if m[2] != "" {
			return parseFloat(m[2])
		}
	}
	if m := numberRe.FindStringSubmatch(text); m != nil {
		return parseFloat(m[1])
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Apply runs every extraction rule against text and updates the candidate
// record. All rules run on every turn, independently of each other.
// Disclosure flags only ever go from false to true here.
func Apply(c *profile.Candidate, text string) {
	if v, ok := Rate(text); ok {
		c.SetRate(v)
	}

	lower := strings.ToLower(text)

	if containsAny(lower, namePhrases) {
		c.NameDisclosed = true
	}
	if containsAny(lower, skillsVocabulary) {
		c.SkillsDisclosed = true
	}
	if containsAny(lower, experiencePhrases) {
		c.ExperienceDisclosed = true
	}
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

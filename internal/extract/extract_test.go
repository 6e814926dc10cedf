package extract

import (
	"testing"

	"github.com/mpetrov/screener/internal/profile"
)

func TestRateCurrencySymbol(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"$75", 75},
		{"my rate is $80/hr", 80},
		{"I charge €95.50 per hour", 95.5},
		{"£120 sounds fair", 120},
		{"¥140", 140},
	}
	for _, c := range cases {
		got, ok := Rate(c.text)
		if !ok {
			t.Errorf("Rate(%q) found nothing, want %v", c.text, c.want)
			continue
		}
		if got != c.want {
			t.Errorf("Rate(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestRateUnitWord(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"75 USD", 75},
		{"200 dollars an hour", 200},
		{"90 eur works", 90},
		{"110.5 pounds", 110.5},
	}
	for _, c := range cases {
		got, ok := Rate(c.text)
		if !ok || got != c.want {
			t.Errorf("Rate(%q) = %v, %v; want %v, true", c.text, got, ok, c.want)
		}
	}
}

func TestRateCanonicalFormsAgree(t *testing.T) {
	a, okA := Rate("$75")
	b, okB := Rate("75 USD")
	if !okA || !okB || a != b || a != 75 {
		t.Errorf("canonical forms disagree: $75 -> %v,%v; 75 USD -> %v,%v", a, okA, b, okB)
	}
}

func TestRateBareNumberFallback(t *testing.T) {
	got, ok := Rate("I was thinking 85 per hour")
	if !ok || got != 85 {
		t.Errorf("Rate = %v, %v; want 85, true", got, ok)
	}
}

func TestRateFirstMatchWins(t *testing.T) {
	// Currency-marked beats bare even when the bare number comes first.
	got, ok := Rate("between 60 and $90")
	if !ok || got != 90 {
		t.Errorf("Rate = %v, %v; want 90, true", got, ok)
	}

	// Among currency matches the leftmost wins.
	got, ok = Rate("$70 or maybe $95")
	if !ok || got != 70 {
		t.Errorf("Rate = %v, %v; want 70, true", got, ok)
	}

	// Among bare numbers the leftmost wins.
	got, ok = Rate("somewhere from 60 to 80")
	if !ok || got != 60 {
		t.Errorf("Rate = %v, %v; want 60, true", got, ok)
	}
}

func TestRateNone(t *testing.T) {
	if v, ok := Rate("I would rather not say yet"); ok {
		t.Errorf("Rate found %v in rate-free text", v)
	}
}

func TestApplyDisclosures(t *testing.T) {
	var c profile.Candidate
	Apply(&c, "I'm Jane, a senior Python developer, my rate is $80/hr")

	if !c.NameDisclosed {
		t.Error("NameDisclosed = false, want true")
	}
	if !c.SkillsDisclosed {
		t.Error("SkillsDisclosed = false, want true")
	}
	if c.QuotedRate == nil || *c.QuotedRate != 80 {
		t.Errorf("QuotedRate = %v, want 80", c.QuotedRate)
	}
}

func TestApplyExperiencePhrase(t *testing.T) {
	var c profile.Candidate
	Apply(&c, "I have experience with distributed systems")
	if !c.ExperienceDisclosed {
		t.Error("ExperienceDisclosed = false, want true")
	}
	// "experience" is also in the skills vocabulary.
	if !c.SkillsDisclosed {
		t.Error("SkillsDisclosed = false, want true")
	}
}

func TestApplyFlagsAreMonotonic(t *testing.T) {
	var c profile.Candidate
	Apply(&c, "I know Python")
	if !c.SkillsDisclosed {
		t.Fatal("SkillsDisclosed = false after skills message")
	}
	Apply(&c, "hello again")
	if !c.SkillsDisclosed {
		t.Error("SkillsDisclosed reset by unrelated message")
	}
}

func TestApplyRateOverwrites(t *testing.T) {
	var c profile.Candidate
	Apply(&c, "my rate is $80")
	Apply(&c, "actually make that $95")
	if c.QuotedRate == nil || *c.QuotedRate != 95 {
		t.Errorf("QuotedRate = %v, want 95", c.QuotedRate)
	}

	// A turn without a number leaves the quoted rate untouched.
	Apply(&c, "when can I start?")
	if c.QuotedRate == nil || *c.QuotedRate != 95 {
		t.Errorf("QuotedRate = %v after rate-free turn, want 95", c.QuotedRate)
	}
}

// Package rate classifies quoted hourly rates into negotiation bands.
package rate

// Negotiation thresholds in dollars per hour. The instruction text rendered
// by the prompt package is derived from these same constants, so the banding
// logic and the negotiation script cannot drift apart.
const (
	MinRate        = 50
	AcceptableRate = 100
	MaxRate        = 150
)

// Band is a negotiation band derived from a quoted rate. Bands are computed
// fresh whenever needed and never stored.
type Band string

const (
	TooLow     Band = "too_low"
	Acceptable Band = "acceptable"
	Negotiable Band = "negotiable"
	TooHigh    Band = "too_high"
)

// Classify maps a rate to its band. The four bands partition the whole
// range: below MinRate, within [MinRate, AcceptableRate], within
// (AcceptableRate, MaxRate], and above MaxRate.
func Classify(v float64) Band {
	switch {
	case v < MinRate:
		return TooLow
	case v > MaxRate:
		return TooHigh
	case v <= AcceptableRate:
		return Acceptable
	default:
		return Negotiable
	}
}

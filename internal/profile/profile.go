package profile

// Candidate records what a candidate has disclosed so far in one screening
// conversation. Flags are monotonic: once set they stay set until Reset.
type Candidate struct {
	NameDisclosed       bool
	SkillsDisclosed     bool
	ExperienceDisclosed bool

	// QuotedRate is the last hourly rate extracted from the candidate's
	// messages. Each new extraction overwrites it; it is never cleared
	// except by Reset.
	QuotedRate *float64
}

// SetRate records a quoted hourly rate, replacing any previous value.
func (c *Candidate) SetRate(v float64) {
	c.QuotedRate = &v
}

// Reset clears all disclosed facts.
func (c *Candidate) Reset() {
	*c = Candidate{}
}

// Snapshot returns a copy safe to read after the session lock is released.
func (c *Candidate) Snapshot() Candidate {
	cp := *c
	if c.QuotedRate != nil {
		v := *c.QuotedRate
		cp.QuotedRate = &v
	}
	return cp
}
